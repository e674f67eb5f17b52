package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAgingBucketIndex(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{-5, -1},
		{0, -1},
		{1, 0},
		{15, 0},
		{30, 0}, // upper bound is inclusive
		{31, 1},
		{60, 1},
		{61, 2},
		{90, 2},
		{91, 3},
		{365, 3},
	}
	for _, tc := range cases {
		if got := AgingBucketIndex(tc.days); got != tc.want {
			t.Errorf("AgingBucketIndex(%d) = %d, want %d", tc.days, got, tc.want)
		}
	}
}

func TestDaysOverdue(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	if got := DaysOverdue(asOf, asOf.AddDate(0, 0, -30)); got != 30 {
		t.Errorf("30 full days overdue: got %d", got)
	}
	// 29 days and 12 hours rounds up to 30.
	if got := DaysOverdue(asOf, time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC)); got != 30 {
		t.Errorf("partial day should round up: got %d", got)
	}
	if got := DaysOverdue(asOf, asOf.AddDate(0, 0, 5)); got > 0 {
		t.Errorf("future due date should not be overdue: got %d", got)
	}
}

func TestBuildPaymentAging(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	due := func(daysAgo int) time.Time { return asOf.AddDate(0, 0, -daysAgo) }
	amt := decimal.RequireFromString

	rows := []*poOutstandingRow{
		{PoId: 1, DueDate: due(5), Outstanding: amt("100.00")},
		{PoId: 2, DueDate: due(30), Outstanding: amt("200.00")},
		{PoId: 3, DueDate: due(31), Outstanding: amt("300.00")},
		{PoId: 4, DueDate: due(75), Outstanding: amt("400.00")},
		{PoId: 5, DueDate: due(120), Outstanding: amt("500.00")},
		{PoId: 6, DueDate: due(40), Outstanding: amt("0.00")},   // settled, excluded
		{PoId: 7, DueDate: due(-10), Outstanding: amt("999.00")}, // not yet due
	}

	got := BuildPaymentAging(rows, asOf)

	wantAmounts := []string{"300.00", "300.00", "400.00", "500.00"}
	wantCounts := []int{2, 1, 1, 1}
	for i, bucket := range got.Aging {
		if bucket.Bucket != AgingBucketLabels[i] {
			t.Errorf("bucket %d label = %s, want %s", i, bucket.Bucket, AgingBucketLabels[i])
		}
		if bucket.Count != wantCounts[i] {
			t.Errorf("bucket %s count = %d, want %d", bucket.Bucket, bucket.Count, wantCounts[i])
		}
		if !bucket.Amount.Equal(decimal.RequireFromString(wantAmounts[i])) {
			t.Errorf("bucket %s amount = %s, want %s", bucket.Bucket, bucket.Amount, wantAmounts[i])
		}
	}
	if got.TotalOverdueCount != 5 {
		t.Errorf("total overdue count = %d, want 5", got.TotalOverdueCount)
	}
	if !got.TotalOverdueAmount.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("total overdue amount = %s, want 1500.00", got.TotalOverdueAmount)
	}
}

func TestBuildPaymentAgingEmpty(t *testing.T) {
	got := BuildPaymentAging(nil, time.Now())
	if len(got.Aging) != 4 {
		t.Fatalf("expected all four buckets present, got %d", len(got.Aging))
	}
	for _, bucket := range got.Aging {
		if bucket.Count != 0 || !bucket.Amount.IsZero() {
			t.Errorf("bucket %s not empty: count=%d amount=%s", bucket.Bucket, bucket.Count, bucket.Amount)
		}
	}
	if got.TotalOverdueCount != 0 || !got.TotalOverdueAmount.IsZero() {
		t.Errorf("totals not zero: count=%d amount=%s", got.TotalOverdueCount, got.TotalOverdueAmount)
	}
}
