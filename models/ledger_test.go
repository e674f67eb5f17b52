package models_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/payables_backend/models"
)

func activePayment(amount string) models.Payment {
	return models.Payment{Amount: decimal.RequireFromString(amount)}
}

func voidedPayment(amount string) models.Payment {
	return models.Payment{
		Amount:    decimal.RequireFromString(amount),
		DeletedAt: gorm.DeletedAt{Time: time.Now(), Valid: true},
	}
}

func TestOutstandingAmount(t *testing.T) {
	total := decimal.RequireFromString("1000.00")

	cases := []struct {
		name     string
		payments []models.Payment
		want     string
	}{
		{"no payments", nil, "1000.00"},
		{"single partial", []models.Payment{activePayment("400.00")}, "600.00"},
		{"two partials", []models.Payment{activePayment("400.00"), activePayment("600.00")}, "0.00"},
		{"voided payment excluded", []models.Payment{activePayment("400.00"), voidedPayment("600.00")}, "600.00"},
		{"all voided", []models.Payment{voidedPayment("400.00"), voidedPayment("600.00")}, "1000.00"},
		{"cents precision", []models.Payment{activePayment("0.01"), activePayment("0.02")}, "999.97"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.OutstandingAmount(total, tc.payments)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("outstanding = %s, want %s", got, tc.want)
			}
		})
	}
}

// Replays a random sequence of record and void operations against the pure
// arithmetic, applying the same ceiling rule CreatePayment enforces, and
// checks the running outstanding never leaves [0, total].
func TestOutstandingNeverExceedsCeiling(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	total := decimal.RequireFromString("5000.00")

	var payments []models.Payment
	for step := 0; step < 500; step++ {
		outstanding := models.OutstandingAmount(total, payments)
		if outstanding.IsNegative() {
			t.Fatalf("step %d: outstanding went negative: %s", step, outstanding)
		}
		if outstanding.GreaterThan(total) {
			t.Fatalf("step %d: outstanding %s exceeds total %s", step, outstanding, total)
		}

		if rng.Intn(3) == 0 {
			// Void a random active payment, if any.
			active := []int{}
			for i := range payments {
				if !payments[i].DeletedAt.Valid {
					active = append(active, i)
				}
			}
			if len(active) > 0 {
				idx := active[rng.Intn(len(active))]
				payments[idx].DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
			}
			continue
		}

		amount := decimal.NewFromInt(int64(rng.Intn(200000) + 1)).Div(decimal.NewFromInt(100))
		if amount.GreaterThan(outstanding) {
			// Rejected by the ceiling check; state must be unchanged.
			continue
		}
		payments = append(payments, models.Payment{Amount: amount})
	}

	// Final sanity: voiding everything restores the full balance.
	for i := range payments {
		payments[i].DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	if got := models.OutstandingAmount(total, payments); !got.Equal(total) {
		t.Fatalf("after voiding all payments outstanding = %s, want %s", got, total)
	}
}
