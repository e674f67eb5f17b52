package models

import (
	"github.com/shopspring/decimal"
)

// Outstanding balance arithmetic. Validation, derived status and reporting all
// go through these two functions so the three can never drift apart.

// ActivePaymentTotal sums the non-voided payments of a purchase order.
func ActivePaymentTotal(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.DeletedAt.Valid {
			continue
		}
		total = total.Add(p.Amount)
	}
	return total
}

// OutstandingAmount returns totalAmount minus the active payment total. The
// ceiling (sum of active payments never exceeding totalAmount) is enforced by
// callers at write time, not here.
func OutstandingAmount(totalAmount decimal.Decimal, payments []Payment) decimal.Decimal {
	return totalAmount.Sub(ActivePaymentTotal(payments))
}
