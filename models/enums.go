package models

import (
	"bitbucket.org/mmdatafocus/payables_backend/utils"
)

type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "ACTIVE"
	VendorStatusInactive VendorStatus = "INACTIVE"
)

func ParseVendorStatus(s string) (VendorStatus, error) {
	switch VendorStatus(s) {
	case VendorStatusActive, VendorStatusInactive:
		return VendorStatus(s), nil
	}
	return "", utils.ValidationErrorf("unknown vendor status '%s'", s)
}

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft         PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusApproved      PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusPartiallyPaid PurchaseOrderStatus = "PARTIALLY_PAID"
	PurchaseOrderStatusFullyPaid     PurchaseOrderStatus = "FULLY_PAID"
)

func ParsePurchaseOrderStatus(s string) (PurchaseOrderStatus, error) {
	switch PurchaseOrderStatus(s) {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusApproved,
		PurchaseOrderStatusPartiallyPaid, PurchaseOrderStatusFullyPaid:
		return PurchaseOrderStatus(s), nil
	}
	return "", utils.ValidationErrorf("unknown purchase order status '%s'", s)
}

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCheque PaymentMethod = "CHEQUE"
	PaymentMethodNEFT   PaymentMethod = "NEFT"
	PaymentMethodRTGS   PaymentMethod = "RTGS"
	PaymentMethodUPI    PaymentMethod = "UPI"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodCash, PaymentMethodCheque, PaymentMethodNEFT,
		PaymentMethodRTGS, PaymentMethodUPI:
		return PaymentMethod(s), nil
	}
	return "", utils.ValidationErrorf("unknown payment method '%s'", s)
}
