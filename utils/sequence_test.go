package utils_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/payables_backend/utils"
)

func TestFormatReference(t *testing.T) {
	date := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		prefix string
		seqNo  int64
		want   string
	}{
		{"PO", 1, "PO-20260315-001"},
		{"PO", 2, "PO-20260315-002"},
		{"PAY", 3, "PAY-20260315-003"},
		{"PAY", 99, "PAY-20260315-099"},
		{"PAY", 100, "PAY-20260315-100"},
		{"PAY", 1234, "PAY-20260315-1234"},
	}
	for _, tc := range cases {
		if got := utils.FormatReference(tc.prefix, date, tc.seqNo); got != tc.want {
			t.Errorf("FormatReference(%s, %d) = %s, want %s", tc.prefix, tc.seqNo, got, tc.want)
		}
	}
}

func TestFormatReferenceDayBoundary(t *testing.T) {
	dec31 := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	jan1 := dec31.Add(time.Second)

	if got := utils.FormatReference("PO", dec31, 41); got != "PO-20261231-041" {
		t.Errorf("got %s", got)
	}
	if got := utils.FormatReference("PO", jan1, 1); got != "PO-20270101-001" {
		t.Errorf("got %s", got)
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	if !utils.IsDuplicateKeyError(gorm.ErrDuplicatedKey) {
		t.Error("gorm.ErrDuplicatedKey should be a duplicate key error")
	}
	if !utils.IsDuplicateKeyError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}) {
		t.Error("mysql error 1062 should be a duplicate key error")
	}
	if !utils.IsDuplicateKeyError(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062})) {
		t.Error("wrapped mysql error 1062 should be a duplicate key error")
	}
	if utils.IsDuplicateKeyError(&mysql.MySQLError{Number: 1452}) {
		t.Error("mysql error 1452 is not a duplicate key error")
	}
	if utils.IsDuplicateKeyError(errors.New("boom")) {
		t.Error("arbitrary error is not a duplicate key error")
	}
}
