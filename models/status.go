package models

import (
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/payables_backend/utils"
)

// Purchase order lifecycle:
//
//	DRAFT -> APPROVED -> {PARTIALLY_PAID, FULLY_PAID}
//	PARTIALLY_PAID -> FULLY_PAID
//
// FULLY_PAID has no outgoing transitions. User-requested transitions must
// follow these edges; payment-driven transitions are derived from the active
// payment total instead (DerivePurchaseOrderStatus).
var validStatusTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchaseOrderStatusDraft:         {PurchaseOrderStatusApproved},
	PurchaseOrderStatusApproved:      {PurchaseOrderStatusPartiallyPaid, PurchaseOrderStatusFullyPaid},
	PurchaseOrderStatusPartiallyPaid: {PurchaseOrderStatusFullyPaid},
	PurchaseOrderStatusFullyPaid:     {},
}

// ValidateStatusTransition rejects user-requested edges outside the lifecycle
// table. State is left to the caller; this only answers legal/illegal.
func ValidateStatusTransition(current PurchaseOrderStatus, next PurchaseOrderStatus) error {
	for _, allowed := range validStatusTransitions[current] {
		if allowed == next {
			return nil
		}
	}
	return utils.ValidationErrorf("invalid status transition from %s to %s", current, next)
}

// DerivePurchaseOrderStatus recomputes a purchase order's status from its
// active payment total after a payment is recorded or voided.
//
// When all payments have been voided the status regresses to APPROVED rather
// than staying at a paid status: a PO with zero active payments and a positive
// outstanding balance must not report itself as paid. A DRAFT order that has
// never progressed keeps DRAFT.
func DerivePurchaseOrderStatus(totalAmount decimal.Decimal, totalPaid decimal.Decimal, current PurchaseOrderStatus) PurchaseOrderStatus {
	switch {
	case totalPaid.GreaterThanOrEqual(totalAmount):
		return PurchaseOrderStatusFullyPaid
	case totalPaid.IsPositive():
		return PurchaseOrderStatusPartiallyPaid
	case current == PurchaseOrderStatusPartiallyPaid || current == PurchaseOrderStatusFullyPaid:
		return PurchaseOrderStatusApproved
	default:
		return current
	}
}
