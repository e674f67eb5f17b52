package reports

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSortVendorOutstandingDesc(t *testing.T) {
	amt := decimal.RequireFromString
	rows := []*VendorOutstandingResponse{
		{VendorId: 1, VendorName: "Acme", Outstanding: amt("500.00")},
		{VendorId: 2, VendorName: "Global", Outstanding: amt("1200.00")},
		{VendorId: 3, VendorName: "Sunrise", Outstanding: amt("0.00")},
		{VendorId: 4, VendorName: "Metro", Outstanding: amt("500.00")},
		{VendorId: 5, VendorName: "Quick", Outstanding: amt("2000.00")},
	}

	SortVendorOutstandingDesc(rows)

	wantOrder := []int{5, 2, 1, 4, 3}
	for i, want := range wantOrder {
		if rows[i].VendorId != want {
			t.Fatalf("position %d: got vendor %d, want %d", i, rows[i].VendorId, want)
		}
	}
}

// Equal outstanding amounts keep their incoming order, which the query fixes
// to vendor creation order.
func TestSortVendorOutstandingDescStableTies(t *testing.T) {
	amt := decimal.RequireFromString
	rows := []*VendorOutstandingResponse{
		{VendorId: 10, Outstanding: amt("750.00")},
		{VendorId: 11, Outstanding: amt("750.00")},
		{VendorId: 12, Outstanding: amt("750.00")},
		{VendorId: 13, Outstanding: amt("900.00")},
	}

	SortVendorOutstandingDesc(rows)

	wantOrder := []int{13, 10, 11, 12}
	for i, want := range wantOrder {
		if rows[i].VendorId != want {
			t.Fatalf("position %d: got vendor %d, want %d", i, rows[i].VendorId, want)
		}
	}
}
