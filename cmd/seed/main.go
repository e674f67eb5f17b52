package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/payables_backend/config"
	"bitbucket.org/mmdatafocus/payables_backend/models"
)

// Seeds a small but representative ledger: vendors on different payment
// terms, purchase orders in every status, payments including a voided one,
// and overdue orders spread across all aging buckets.
func main() {
	wipe := flag.Bool("wipe", false, "Delete existing ledger rows before seeding")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	config.ConnectRedisWithRetry()
	models.MigrateDatabase()

	if *wipe {
		for _, table := range []string{"payments", "purchase_order_items", "purchase_orders", "vendors"} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				fmt.Fprintf(os.Stderr, "failed to wipe %s: %v\n", table, err)
				os.Exit(1)
			}
		}
		fmt.Println("wiped existing ledger rows")
	}

	vendorInputs := []models.NewVendor{
		{Name: "Acme Supplies Ltd", ContactPerson: "Rajesh Kumar", Email: "rajesh@acmesupplies.com", Phone: "+91-98765-43210", PaymentTerms: 30},
		{Name: "Global Tech Parts", ContactPerson: "Priya Sharma", Email: "priya@globaltechparts.com", Phone: "+91-98765-43211", PaymentTerms: 45},
		{Name: "Sunrise Traders", ContactPerson: "Amit Patel", Email: "amit@sunrisetraders.com", Phone: "+91-98765-43212", PaymentTerms: 15},
		{Name: "Metro Industrial Co", ContactPerson: "Sneha Reddy", Email: "sneha@metroindustrial.com", Phone: "+91-98765-43213", PaymentTerms: 60},
		{Name: "Quick Logistics", ContactPerson: "Vikram Singh", Email: "vikram@quicklogistics.com", Phone: "+91-98765-43214", PaymentTerms: 7, CurrentStatus: models.VendorStatusInactive},
	}

	vendors := make([]*models.Vendor, 0, len(vendorInputs))
	for i := range vendorInputs {
		vendor, err := models.CreateVendor(ctx, &vendorInputs[i])
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create vendor %s: %v\n", vendorInputs[i].Name, err)
			os.Exit(1)
		}
		vendors = append(vendors, vendor)
		fmt.Printf("vendor %d: %s (terms %d days)\n", vendor.ID, vendor.Name, vendor.PaymentTerms)
	}

	now := time.Now()
	item := func(desc string, qty, price string) models.NewPurchaseOrderItem {
		return models.NewPurchaseOrderItem{
			Description: desc,
			Quantity:    decimal.RequireFromString(qty),
			UnitPrice:   decimal.RequireFromString(price),
		}
	}

	// Overdue spread: backdating the PO date past the vendor's payment terms
	// lands the order's due date 5, 40, 75 and 120 days in the past, one per
	// aging bucket.
	poInputs := []models.NewPurchaseOrder{
		{VendorId: vendors[0].ID, PoDate: now.AddDate(0, 0, -35), CurrentStatus: models.PurchaseOrderStatusApproved,
			Details: []models.NewPurchaseOrderItem{item("Steel brackets", "100", "45.00"), item("Mounting bolts", "500", "1.10")}},
		{VendorId: vendors[0].ID, PoDate: now.AddDate(0, 0, -70), CurrentStatus: models.PurchaseOrderStatusApproved,
			Details: []models.NewPurchaseOrderItem{item("Copper wiring 50m", "20", "380.00")}},
		{VendorId: vendors[1].ID, PoDate: now.AddDate(0, 0, -120), CurrentStatus: models.PurchaseOrderStatusApproved,
			Details: []models.NewPurchaseOrderItem{item("Server RAM 32GB", "12", "4200.00")}},
		{VendorId: vendors[2].ID, PoDate: now.AddDate(0, 0, -135), CurrentStatus: models.PurchaseOrderStatusApproved,
			Details: []models.NewPurchaseOrderItem{item("Packing crates", "60", "75.00")}},
		{VendorId: vendors[2].ID, PoDate: now, CurrentStatus: models.PurchaseOrderStatusDraft,
			Details: []models.NewPurchaseOrderItem{item("Bubble wrap rolls", "40", "18.50")}},
		{VendorId: vendors[3].ID, PoDate: now.AddDate(0, 0, -10), CurrentStatus: models.PurchaseOrderStatusApproved,
			Details: []models.NewPurchaseOrderItem{item("Conveyor belts", "4", "12500.00")}},
	}

	pos := make([]*models.PurchaseOrder, 0, len(poInputs))
	for i := range poInputs {
		po, err := models.CreatePurchaseOrder(ctx, &poInputs[i])
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create purchase order: %v\n", err)
			os.Exit(1)
		}
		pos = append(pos, po)
		fmt.Printf("purchase order %s: vendor %d, total %s, due %s, status %s\n",
			po.PoNumber, po.VendorId, po.TotalAmount, po.DueDate.Format("2006-01-02"), po.CurrentStatus)
	}

	pay := func(poIdx int, amount string, method models.PaymentMethod, notes string) *models.Payment {
		payment, err := models.CreatePayment(ctx, &models.NewPayment{
			PurchaseOrderId: pos[poIdx].ID,
			PaymentDate:     now,
			Amount:          decimal.RequireFromString(amount),
			PaymentMethod:   method,
			Notes:           notes,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to record payment on %s: %v\n", pos[poIdx].PoNumber, err)
			os.Exit(1)
		}
		fmt.Printf("payment %s: %s against %s\n", payment.PaymentReference, payment.Amount, pos[poIdx].PoNumber)
		return payment
	}

	// Partially pay the first order, fully pay the second.
	pay(0, "2000.00", models.PaymentMethodNEFT, "First installment")
	pay(1, "7600.00", models.PaymentMethodRTGS, "Settled in full")

	// Record then void a payment so the seed data exercises the void path.
	voided := pay(3, "1500.00", models.PaymentMethodCheque, "Cheque later bounced")
	if _, err := models.VoidPayment(ctx, voided.ID); err != nil {
		fmt.Fprintf(os.Stderr, "failed to void payment %s: %v\n", voided.PaymentReference, err)
		os.Exit(1)
	}
	fmt.Printf("voided payment %s\n", voided.PaymentReference)

	pay(5, "10000.00", models.PaymentMethodUPI, "Advance against delivery")

	fmt.Println("seed complete")
}
