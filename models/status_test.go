package models_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/payables_backend/models"
	"bitbucket.org/mmdatafocus/payables_backend/utils"
)

func TestValidateStatusTransition(t *testing.T) {
	valid := []struct {
		from, to models.PurchaseOrderStatus
	}{
		{models.PurchaseOrderStatusDraft, models.PurchaseOrderStatusApproved},
		{models.PurchaseOrderStatusApproved, models.PurchaseOrderStatusPartiallyPaid},
		{models.PurchaseOrderStatusApproved, models.PurchaseOrderStatusFullyPaid},
		{models.PurchaseOrderStatusPartiallyPaid, models.PurchaseOrderStatusFullyPaid},
	}
	for _, tc := range valid {
		if err := models.ValidateStatusTransition(tc.from, tc.to); err != nil {
			t.Errorf("transition %s -> %s should be allowed, got %v", tc.from, tc.to, err)
		}
	}

	invalid := []struct {
		from, to models.PurchaseOrderStatus
	}{
		{models.PurchaseOrderStatusDraft, models.PurchaseOrderStatusPartiallyPaid},
		{models.PurchaseOrderStatusDraft, models.PurchaseOrderStatusFullyPaid},
		{models.PurchaseOrderStatusApproved, models.PurchaseOrderStatusDraft},
		{models.PurchaseOrderStatusPartiallyPaid, models.PurchaseOrderStatusApproved},
		{models.PurchaseOrderStatusPartiallyPaid, models.PurchaseOrderStatusDraft},
		{models.PurchaseOrderStatusFullyPaid, models.PurchaseOrderStatusApproved},
		{models.PurchaseOrderStatusFullyPaid, models.PurchaseOrderStatusPartiallyPaid},
		{models.PurchaseOrderStatusFullyPaid, models.PurchaseOrderStatusDraft},
		{models.PurchaseOrderStatusDraft, models.PurchaseOrderStatusDraft},
	}
	for _, tc := range invalid {
		err := models.ValidateStatusTransition(tc.from, tc.to)
		if err == nil {
			t.Errorf("transition %s -> %s should be rejected", tc.from, tc.to)
			continue
		}
		if !errors.Is(err, utils.ErrorValidation) {
			t.Errorf("transition %s -> %s: expected validation error, got %v", tc.from, tc.to, err)
		}
	}
}

func TestDerivePurchaseOrderStatus(t *testing.T) {
	total := decimal.RequireFromString("1000.00")

	cases := []struct {
		name    string
		paid    string
		current models.PurchaseOrderStatus
		want    models.PurchaseOrderStatus
	}{
		{"partial payment", "400.00", models.PurchaseOrderStatusApproved, models.PurchaseOrderStatusPartiallyPaid},
		{"exact settlement", "1000.00", models.PurchaseOrderStatusPartiallyPaid, models.PurchaseOrderStatusFullyPaid},
		{"all payments voided regresses to approved", "0", models.PurchaseOrderStatusPartiallyPaid, models.PurchaseOrderStatusApproved},
		{"fully paid then everything voided", "0", models.PurchaseOrderStatusFullyPaid, models.PurchaseOrderStatusApproved},
		{"draft with no payments stays draft", "0", models.PurchaseOrderStatusDraft, models.PurchaseOrderStatusDraft},
		{"approved with no payments stays approved", "0", models.PurchaseOrderStatusApproved, models.PurchaseOrderStatusApproved},
		{"tiny remainder keeps partially paid", "999.99", models.PurchaseOrderStatusPartiallyPaid, models.PurchaseOrderStatusPartiallyPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.DerivePurchaseOrderStatus(total, decimal.RequireFromString(tc.paid), tc.current)
			if got != tc.want {
				t.Fatalf("paid=%s current=%s: got %s, want %s", tc.paid, tc.current, got, tc.want)
			}
		})
	}
}
