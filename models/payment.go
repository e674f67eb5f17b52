package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bitbucket.org/mmdatafocus/payables_backend/config"
	"bitbucket.org/mmdatafocus/payables_backend/utils"
)

type Payment struct {
	ID               int             `gorm:"primary_key" json:"id"`
	PaymentReference string          `gorm:"size:255;not null;uniqueIndex" json:"payment_reference"`
	SequenceNo       int64           `gorm:"not null" json:"sequence_no"`
	PurchaseOrderId  int             `gorm:"index;not null" json:"purchase_order_id" binding:"required"`
	PurchaseOrder    *PurchaseOrder  `json:"purchase_order,omitempty"`
	PaymentDate      time.Time       `gorm:"not null" json:"payment_date" binding:"required"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount" binding:"required"`
	PaymentMethod    PaymentMethod   `gorm:"type:enum('CASH','CHEQUE','NEFT','RTGS','UPI');not null" json:"payment_method" binding:"required"`
	Notes            string          `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"voided_at,omitempty"`
}

type NewPayment struct {
	PurchaseOrderId int             `json:"purchase_order_id" binding:"required"`
	PaymentDate     time.Time       `json:"payment_date" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod   PaymentMethod   `json:"payment_method" binding:"required"`
	Notes           string          `json:"notes"`
}

// CreatePayment records a payment against a purchase order. The purchase
// order row is locked FOR UPDATE for the whole transaction, so the
// outstanding check, the payment insert and the derived status update see
// one consistent snapshot. Active payments must never exceed the order
// total.
func CreatePayment(ctx context.Context, input *NewPayment) (*Payment, error) {
	db := config.GetDB()

	if _, err := ParsePaymentMethod(string(input.PaymentMethod)); err != nil {
		return nil, err
	}

	// best-effort cross-instance serialization; the row lock below is the
	// actual enforcement
	release, err := utils.PoWriteLock(ctx, input.PurchaseOrderId, "payment.go", "CreatePayment")
	if err != nil {
		return nil, err
	}
	defer release()

	var payment Payment
	now := time.Now()
	for attempt := 0; ; attempt++ {
		reference, seqNo, err := utils.NextReference[Payment](ctx, "PAY", "payment_reference", now)
		if err != nil {
			return nil, err
		}
		payment = Payment{
			PaymentReference: reference,
			SequenceNo:       seqNo,
			PurchaseOrderId:  input.PurchaseOrderId,
			PaymentDate:      input.PaymentDate,
			Amount:           input.Amount,
			PaymentMethod:    input.PaymentMethod,
			Notes:            input.Notes,
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var po PurchaseOrder
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&po, input.PurchaseOrderId).Error; err != nil {
				return utils.NotFoundErrorf("purchase order with id '%d' not found", input.PurchaseOrderId)
			}

			var payments []Payment
			if err := tx.Where("purchase_order_id = ?", po.ID).Find(&payments).Error; err != nil {
				return err
			}
			outstanding := OutstandingAmount(po.TotalAmount, payments)

			if !input.Amount.IsPositive() {
				return utils.ValidationErrorf("payment amount must be positive")
			}
			if input.Amount.GreaterThan(outstanding) {
				return utils.ValidationErrorf("payment amount (%s) exceeds outstanding amount (%s)",
					input.Amount.String(), outstanding.String())
			}

			if err := tx.Create(&payment).Error; err != nil {
				return err
			}

			_, err := recomputePoStatus(tx, ctx, po.ID)
			return err
		})
		if err == nil {
			break
		}
		if utils.IsDuplicateKeyError(err) && attempt < utils.MaxReferenceRetries {
			continue
		}
		return nil, err
	}

	return GetPayment(ctx, payment.ID)
}

// VoidPayment soft-deletes a payment and re-derives the owning purchase
// order's status from the remaining active payments, atomically. Voiding an
// already-voided payment fails with not-found; the balance is never reversed
// twice.
func VoidPayment(ctx context.Context, id int) (*Payment, error) {
	db := config.GetDB()

	payment, err := utils.FetchModel[Payment](ctx, id)
	if err != nil {
		return nil, utils.NotFoundErrorf("payment with id '%d' not found", id)
	}

	release, err := utils.PoWriteLock(ctx, payment.PurchaseOrderId, "payment.go", "VoidPayment")
	if err != nil {
		return nil, err
	}
	defer release()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var po PurchaseOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&po, payment.PurchaseOrderId).Error; err != nil {
			return utils.NotFoundErrorf("purchase order with id '%d' not found", payment.PurchaseOrderId)
		}

		// re-read under the lock; a concurrent void loses here
		var locked Payment
		if err := tx.First(&locked, id).Error; err != nil {
			return utils.NotFoundErrorf("payment with id '%d' not found", id)
		}

		if err := tx.Delete(&locked).Error; err != nil {
			return err
		}

		_, err := recomputePoStatus(tx, ctx, po.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

func GetPayment(ctx context.Context, id int) (*Payment, error) {
	payment, err := utils.FetchModel[Payment](ctx, id, "PurchaseOrder", "PurchaseOrder.Vendor")
	if err != nil {
		return nil, utils.NotFoundErrorf("payment with id '%d' not found", id)
	}
	return payment, nil
}

// PaginatePayment lists payments newest first, excluding voided rows unless
// includeVoided is set, joined with PO and vendor for display.
func PaginatePayment(ctx context.Context, poId *int, includeVoided bool, page int, limit int) ([]*Payment, int64, error) {
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).Model(&Payment{})
	if includeVoided {
		dbCtx = dbCtx.Unscoped()
	}
	if poId != nil && *poId > 0 {
		if err := utils.ValidateResourceId[PurchaseOrder](ctx, *poId); err != nil {
			return nil, 0, utils.NotFoundErrorf("purchase order with id '%d' not found", *poId)
		}
		dbCtx = dbCtx.Where("purchase_order_id = ?", *poId)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*Payment
	if err := dbCtx.
		Preload("PurchaseOrder").
		Preload("PurchaseOrder.Vendor").
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// TotalActivePaymentAmount reports the non-voided payment total for a purchase
// order straight from the store.
func TotalActivePaymentAmount(ctx context.Context, poId int) (decimal.Decimal, error) {
	db := config.GetDB()
	var raw *string
	if err := db.WithContext(ctx).Model(&Payment{}).
		Select("sum(amount)").
		Where("purchase_order_id = ?", poId).
		Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}
