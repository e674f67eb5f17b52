package reports

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/payables_backend/config"
)

// Aging buckets with inclusive upper bounds: 1-30, 31-60, 61-90, 91+ days
// overdue. A purchase order exactly 30 days overdue lands in the first bucket.
var AgingBucketLabels = [4]string{"0-30 days", "31-60 days", "61-90 days", "90+ days"}

type AgingBucket struct {
	Bucket string          `json:"bucket"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type PaymentAgingResponse struct {
	Aging              []*AgingBucket  `json:"aging"`
	TotalOverdueAmount decimal.Decimal `json:"totalOverdue"`
	TotalOverdueCount  int             `json:"totalOverdueCount"`
}

type poOutstandingRow struct {
	PoId        int             `json:"poId"`
	DueDate     time.Time       `json:"dueDate"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// GetPaymentAgingReport buckets every overdue non-deleted purchase order with
// a positive outstanding balance by how many days it is past due.
func GetPaymentAgingReport(ctx context.Context, asOf time.Time) (*PaymentAgingResponse, error) {

	sql := `
SELECT
    po.id AS po_id,
    po.due_date AS due_date,
    po.total_amount - COALESCE(paid.total_paid, 0) AS outstanding
FROM
    purchase_orders po
    LEFT JOIN (
        SELECT
            purchase_order_id,
            SUM(amount) AS total_paid
        FROM
            payments
        WHERE
            deleted_at IS NULL
        GROUP BY
            purchase_order_id
    ) paid ON paid.purchase_order_id = po.id
WHERE
    po.deleted_at IS NULL;
`
	var rows []*poOutstandingRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return BuildPaymentAging(rows, asOf), nil
}

// BuildPaymentAging assigns each overdue outstanding balance to exactly one
// bucket and accumulates the grand totals. Orders not yet due or fully paid
// contribute nothing.
func BuildPaymentAging(rows []*poOutstandingRow, asOf time.Time) *PaymentAgingResponse {
	response := &PaymentAgingResponse{
		TotalOverdueAmount: decimal.Zero,
	}
	for i := range AgingBucketLabels {
		response.Aging = append(response.Aging, &AgingBucket{
			Bucket: AgingBucketLabels[i],
			Amount: decimal.Zero,
		})
	}

	for _, row := range rows {
		if !row.Outstanding.IsPositive() {
			continue
		}
		days := DaysOverdue(asOf, row.DueDate)
		idx := AgingBucketIndex(days)
		if idx < 0 {
			continue
		}
		response.Aging[idx].Count++
		response.Aging[idx].Amount = response.Aging[idx].Amount.Add(row.Outstanding)
		response.TotalOverdueAmount = response.TotalOverdueAmount.Add(row.Outstanding)
		response.TotalOverdueCount++
	}
	return response
}

// DaysOverdue counts days past due, rounding any partial day up.
func DaysOverdue(asOf time.Time, dueDate time.Time) int {
	return int(math.Ceil(asOf.Sub(dueDate).Hours() / 24))
}

// AgingBucketIndex maps days overdue to a bucket index, or -1 when not
// overdue. Upper bounds are inclusive: day 30 is still bucket 0, day 31 is
// bucket 1.
func AgingBucketIndex(daysOverdue int) int {
	switch {
	case daysOverdue <= 0:
		return -1
	case daysOverdue <= 30:
		return 0
	case daysOverdue <= 60:
		return 1
	case daysOverdue <= 90:
		return 2
	default:
		return 3
	}
}
