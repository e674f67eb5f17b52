package reports

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/payables_backend/config"
	"bitbucket.org/mmdatafocus/payables_backend/utils"
)

type VendorOutstandingResponse struct {
	VendorId    int             `json:"vendorId"`
	VendorName  string          `json:"vendorName"`
	PoCount     int             `json:"poCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalPaid   decimal.Decimal `json:"totalPaid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// GetVendorOutstandingReport sums total PO amount and non-voided payments per
// non-deleted vendor. Rows come back in vendor creation order and are then
// sorted by outstanding descending; ties keep their relative order.
func GetVendorOutstandingReport(ctx context.Context, vendorID *int) ([]*VendorOutstandingResponse, error) {

	var results []*VendorOutstandingResponse
	sqlTemplate := `
WITH PoTotals AS (
    SELECT
        vendor_id,
        COUNT(*) AS po_count,
        SUM(total_amount) AS total_amount
    FROM
        purchase_orders
    WHERE
        deleted_at IS NULL
    GROUP BY
        vendor_id
),
PaidTotals AS (
    SELECT
        po.vendor_id,
        SUM(p.amount) AS total_paid
    FROM
        payments p
        JOIN purchase_orders po ON po.id = p.purchase_order_id
    WHERE
        p.deleted_at IS NULL
        AND po.deleted_at IS NULL
    GROUP BY
        po.vendor_id
)
SELECT
    v.id AS vendor_id,
    v.name AS vendor_name,
    COALESCE(pt.po_count, 0) AS po_count,
    COALESCE(pt.total_amount, 0) AS total_amount,
    COALESCE(pd.total_paid, 0) AS total_paid,
    COALESCE(pt.total_amount, 0) - COALESCE(pd.total_paid, 0) AS outstanding
FROM
    vendors v
    LEFT JOIN PoTotals pt ON pt.vendor_id = v.id
    LEFT JOIN PaidTotals pd ON pd.vendor_id = v.id
WHERE
    v.deleted_at IS NULL
    {{- if .vendorId }} AND v.id = @vendorId {{- end}}
ORDER BY
    v.created_at,
    v.id;
`
	sql, err := utils.ExecTemplate(sqlTemplate, map[string]interface{}{
		"vendorId": utils.DereferencePtr(vendorID, 0),
	})
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"vendorId": vendorID,
	}).Scan(&results).Error; err != nil {
		return nil, err
	}

	SortVendorOutstandingDesc(results)
	return results, nil
}

// SortVendorOutstandingDesc orders by outstanding descending, preserving the
// incoming relative order for equal amounts.
func SortVendorOutstandingDesc(rows []*VendorOutstandingResponse) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Outstanding.GreaterThan(rows[j].Outstanding)
	})
}
