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

type PurchaseOrder struct {
	ID            int                 `gorm:"primary_key" json:"id"`
	PoNumber      string              `gorm:"size:255;not null;uniqueIndex" json:"po_number"`
	SequenceNo    int64               `gorm:"not null" json:"sequence_no"`
	VendorId      int                 `gorm:"index;not null" json:"vendor_id" binding:"required"`
	Vendor        *Vendor             `json:"vendor,omitempty"`
	PoDate        time.Time           `gorm:"not null" json:"po_date" binding:"required"`
	DueDate       time.Time           `gorm:"not null" json:"due_date"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	CurrentStatus PurchaseOrderStatus `gorm:"type:enum('DRAFT','APPROVED','PARTIALLY_PAID','FULLY_PAID');not null;default:DRAFT" json:"current_status"`
	Details       []PurchaseOrderItem `json:"purchase_order_items"`
	Payments      []Payment           `json:"payments,omitempty"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt      `gorm:"index" json:"-"`
}

type PurchaseOrderItem struct {
	ID              int             `gorm:"primary_key" json:"id"`
	PurchaseOrderId int             `gorm:"index;not null" json:"purchase_order_id"`
	Description     string          `gorm:"size:255;not null" json:"description" binding:"required"`
	Quantity        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price" binding:"required"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPurchaseOrder struct {
	VendorId      int                    `json:"vendor_id" binding:"required"`
	PoDate        time.Time              `json:"po_date" binding:"required"`
	CurrentStatus PurchaseOrderStatus    `json:"current_status"`
	Details       []NewPurchaseOrderItem `json:"details" binding:"required,dive"`
}

type NewPurchaseOrderItem struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// TotalPaid sums the preloaded active payments.
func (po *PurchaseOrder) TotalPaid() decimal.Decimal {
	return ActivePaymentTotal(po.Payments)
}

// Outstanding returns total amount minus the preloaded active payments.
func (po *PurchaseOrder) Outstanding() decimal.Decimal {
	return OutstandingAmount(po.TotalAmount, po.Payments)
}

func (input *NewPurchaseOrder) validate(ctx context.Context) (*Vendor, error) {
	vendor, err := utils.FetchModel[Vendor](ctx, input.VendorId)
	if err != nil {
		return nil, utils.NotFoundErrorf("vendor with id '%d' not found", input.VendorId)
	}
	if vendor.CurrentStatus == VendorStatusInactive {
		return nil, utils.ValidationErrorf("cannot create purchase order for inactive vendor '%s'", vendor.Name)
	}
	if len(input.Details) == 0 {
		return nil, utils.ValidationErrorf("purchase order requires at least one item")
	}
	for _, detail := range input.Details {
		if !detail.Quantity.IsPositive() || !detail.UnitPrice.IsPositive() {
			return nil, utils.ValidationErrorf("item '%s' requires positive quantity and unit price", detail.Description)
		}
	}
	// a paid status is only ever reached through recorded payments
	switch input.CurrentStatus {
	case "", PurchaseOrderStatusDraft, PurchaseOrderStatusApproved:
	default:
		return nil, utils.ValidationErrorf("purchase order cannot be created with status %s", input.CurrentStatus)
	}
	return vendor, nil
}

func CreatePurchaseOrder(ctx context.Context, input *NewPurchaseOrder) (*PurchaseOrder, error) {
	db := config.GetDB()

	vendor, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}

	var items []PurchaseOrderItem
	totalAmount := decimal.Zero
	for _, detail := range input.Details {
		lineTotal := detail.Quantity.Mul(detail.UnitPrice)
		totalAmount = totalAmount.Add(lineTotal)
		items = append(items, PurchaseOrderItem{
			Description: detail.Description,
			Quantity:    detail.Quantity,
			UnitPrice:   detail.UnitPrice,
			LineTotal:   lineTotal,
		})
	}

	status := input.CurrentStatus
	if status == "" {
		status = PurchaseOrderStatusDraft
	}

	purchaseOrder := PurchaseOrder{
		VendorId:      input.VendorId,
		PoDate:        input.PoDate,
		DueDate:       input.PoDate.AddDate(0, 0, vendor.PaymentTerms),
		TotalAmount:   totalAmount,
		CurrentStatus: status,
		Details:       items,
	}

	// The reference number is a candidate until the unique index accepts it;
	// a same-day race surfaces as a duplicate-key error and we re-propose.
	now := time.Now()
	for attempt := 0; ; attempt++ {
		poNumber, seqNo, err := utils.NextReference[PurchaseOrder](ctx, "PO", "po_number", now)
		if err != nil {
			return nil, err
		}
		purchaseOrder.PoNumber = poNumber
		purchaseOrder.SequenceNo = seqNo

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&purchaseOrder).Error
		})
		if err == nil {
			break
		}
		if utils.IsDuplicateKeyError(err) && attempt < utils.MaxReferenceRetries {
			purchaseOrder.ID = 0
			continue
		}
		return nil, err
	}

	return GetPurchaseOrder(ctx, purchaseOrder.ID)
}

func GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	po, err := utils.FetchModel[PurchaseOrder](ctx, id, "Vendor", "Details", "Payments")
	if err != nil {
		return nil, utils.NotFoundErrorf("purchase order with id '%d' not found", id)
	}
	return po, nil
}

func PaginatePurchaseOrder(ctx context.Context, vendorId *int, status *PurchaseOrderStatus, page int, limit int) ([]*PurchaseOrder, int64, error) {
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).Model(&PurchaseOrder{})
	if vendorId != nil && *vendorId > 0 {
		if err := utils.ValidateResourceId[Vendor](ctx, *vendorId); err != nil {
			return nil, 0, utils.NotFoundErrorf("vendor with id '%d' not found", *vendorId)
		}
		dbCtx = dbCtx.Where("vendor_id = ?", *vendorId)
	}
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("current_status = ?", *status)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*PurchaseOrder
	if err := dbCtx.
		Preload("Vendor").
		Preload("Details").
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// UpdateStatusPurchaseOrder applies a user-requested lifecycle transition.
// Payment-driven transitions go through recomputePoStatus instead. The row is
// locked so the transition validates against the current status, not a stale
// read racing a concurrent payment writer.
func UpdateStatusPurchaseOrder(ctx context.Context, id int, status PurchaseOrderStatus) (*PurchaseOrder, error) {
	db := config.GetDB()

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var po PurchaseOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&po, id).Error; err != nil {
			return utils.NotFoundErrorf("purchase order with id '%d' not found", id)
		}

		if err := ValidateStatusTransition(po.CurrentStatus, status); err != nil {
			return err
		}

		return tx.Model(&po).UpdateColumn("CurrentStatus", status).Error
	})
	if err != nil {
		return nil, err
	}
	return GetPurchaseOrder(ctx, id)
}

func DeletePurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	db := config.GetDB()

	po, err := utils.FetchModel[PurchaseOrder](ctx, id)
	if err != nil {
		return nil, utils.NotFoundErrorf("purchase order with id '%d' not found", id)
	}

	count, err := utils.ResourceCountWhere[Payment](ctx, "purchase_order_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ValidationErrorf("cannot delete purchase order '%s' with recorded payments", po.PoNumber)
	}

	if err := db.WithContext(ctx).Delete(po).Error; err != nil {
		return nil, err
	}
	return po, nil
}

// recomputePoStatus re-derives the purchase order's status from its active
// payments inside the caller's transaction. The row is locked so concurrent
// payment writers against the same order serialize at the store.
func recomputePoStatus(tx *gorm.DB, ctx context.Context, poId int) (*PurchaseOrder, error) {
	var po PurchaseOrder
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&po, poId).Error; err != nil {
		return nil, utils.NotFoundErrorf("purchase order with id '%d' not found", poId)
	}

	var payments []Payment
	if err := tx.WithContext(ctx).
		Where("purchase_order_id = ?", poId).
		Find(&payments).Error; err != nil {
		return nil, err
	}

	newStatus := DerivePurchaseOrderStatus(po.TotalAmount, ActivePaymentTotal(payments), po.CurrentStatus)
	if newStatus != po.CurrentStatus {
		if err := tx.WithContext(ctx).Model(&po).UpdateColumn("CurrentStatus", newStatus).Error; err != nil {
			return nil, err
		}
		po.CurrentStatus = newStatus
	}
	return &po, nil
}
