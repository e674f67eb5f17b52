package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// BuildLedgerWorkbook renders the vendor outstanding and payment aging
// reports into one xlsx workbook for download.
func BuildLedgerWorkbook(ctx context.Context, asOf time.Time) (*excelize.File, error) {

	outstanding, err := GetVendorOutstandingReport(ctx, nil)
	if err != nil {
		return nil, err
	}
	aging, err := GetPaymentAgingReport(ctx, asOf)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	sheet := "Vendor Outstanding"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	// Add headers
	f.SetCellValue(sheet, "A1", "VendorName")
	f.SetCellValue(sheet, "B1", "PoCount")
	f.SetCellValue(sheet, "C1", "TotalAmount")
	f.SetCellValue(sheet, "D1", "TotalPaid")
	f.SetCellValue(sheet, "E1", "Outstanding")

	// Add data
	for i, d := range outstanding {
		f.SetCellValue(sheet, "A"+fmt.Sprint(i+2), d.VendorName)
		f.SetCellValue(sheet, "B"+fmt.Sprint(i+2), d.PoCount)
		f.SetCellValue(sheet, "C"+fmt.Sprint(i+2), d.TotalAmount.String())
		f.SetCellValue(sheet, "D"+fmt.Sprint(i+2), d.TotalPaid.String())
		f.SetCellValue(sheet, "E"+fmt.Sprint(i+2), d.Outstanding.String())
	}

	agingSheet := "Payment Aging"
	if _, err := f.NewSheet(agingSheet); err != nil {
		return nil, err
	}

	f.SetCellValue(agingSheet, "A1", "Bucket")
	f.SetCellValue(agingSheet, "B1", "Count")
	f.SetCellValue(agingSheet, "C1", "Amount")

	for i, b := range aging.Aging {
		f.SetCellValue(agingSheet, "A"+fmt.Sprint(i+2), b.Bucket)
		f.SetCellValue(agingSheet, "B"+fmt.Sprint(i+2), b.Count)
		f.SetCellValue(agingSheet, "C"+fmt.Sprint(i+2), b.Amount.String())
	}
	totalRow := len(aging.Aging) + 2
	f.SetCellValue(agingSheet, "A"+fmt.Sprint(totalRow), "Total Overdue")
	f.SetCellValue(agingSheet, "B"+fmt.Sprint(totalRow), aging.TotalOverdueCount)
	f.SetCellValue(agingSheet, "C"+fmt.Sprint(totalRow), aging.TotalOverdueAmount.String())

	return f, nil
}
