package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/payables_backend/config"
	"bitbucket.org/mmdatafocus/payables_backend/utils"
)

type Vendor struct {
	ID            int            `gorm:"primary_key" json:"id"`
	Name          string         `gorm:"size:100;not null;uniqueIndex" json:"name" binding:"required"`
	ContactPerson string         `gorm:"size:100" json:"contact_person"`
	Email         string         `gorm:"size:100;not null;uniqueIndex" json:"email" binding:"required"`
	Phone         string         `gorm:"size:20" json:"phone"`
	PaymentTerms  int            `gorm:"not null;default:30" json:"payment_terms"`
	CurrentStatus VendorStatus   `gorm:"type:enum('ACTIVE','INACTIVE');not null;default:ACTIVE" json:"current_status"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

type NewVendor struct {
	Name          string       `json:"name" binding:"required"`
	ContactPerson string       `json:"contact_person"`
	Email         string       `json:"email" binding:"required,email"`
	Phone         string       `json:"phone"`
	PaymentTerms  int          `json:"payment_terms"`
	CurrentStatus VendorStatus `json:"current_status"`
}

// VendorPaymentSummary aggregates a vendor's ledger position for display.
type VendorPaymentSummary struct {
	PoCount     int             `json:"po_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// payment terms offered to vendors, in days
var allowedPaymentTerms = map[int]bool{7: true, 15: true, 30: true, 45: true, 60: true}

func (input *NewVendor) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Vendor](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if err := utils.ValidateUnique[Vendor](ctx, "email", input.Email, id); err != nil {
		return err
	}
	if input.PaymentTerms != 0 && !allowedPaymentTerms[input.PaymentTerms] {
		return utils.ValidationErrorf("unsupported payment terms '%d' days", input.PaymentTerms)
	}
	if input.CurrentStatus != "" {
		if _, err := ParseVendorStatus(string(input.CurrentStatus)); err != nil {
			return err
		}
	}
	return nil
}

func CreateVendor(ctx context.Context, input *NewVendor) (*Vendor, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	vendor := Vendor{
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		PaymentTerms:  input.PaymentTerms,
		CurrentStatus: input.CurrentStatus,
	}
	if vendor.PaymentTerms == 0 {
		vendor.PaymentTerms = 30
	}
	if vendor.CurrentStatus == "" {
		vendor.CurrentStatus = VendorStatusActive
	}

	if err := db.WithContext(ctx).Create(&vendor).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return nil, utils.ConflictErrorf("vendor with name '%s' or email '%s' already exists", input.Name, input.Email)
		}
		return nil, err
	}
	return &vendor, nil
}

func UpdateVendor(ctx context.Context, id int, input *NewVendor) (*Vendor, error) {
	db := config.GetDB()

	vendor, err := utils.FetchModel[Vendor](ctx, id)
	if err != nil {
		return nil, utils.NotFoundErrorf("vendor with id '%d' not found", id)
	}

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	vendor.Name = input.Name
	vendor.ContactPerson = input.ContactPerson
	vendor.Email = input.Email
	vendor.Phone = input.Phone
	if input.PaymentTerms != 0 {
		vendor.PaymentTerms = input.PaymentTerms
	}
	if input.CurrentStatus != "" {
		vendor.CurrentStatus = input.CurrentStatus
	}

	if err := db.WithContext(ctx).Save(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

func DeleteVendor(ctx context.Context, id int) (*Vendor, error) {
	db := config.GetDB()

	vendor, err := utils.FetchModel[Vendor](ctx, id)
	if err != nil {
		return nil, utils.NotFoundErrorf("vendor with id '%d' not found", id)
	}

	count, err := utils.ResourceCountWhere[PurchaseOrder](ctx, "vendor_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ValidationErrorf("cannot delete vendor '%s' with existing purchase orders", vendor.Name)
	}

	if err := db.WithContext(ctx).Delete(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

func GetVendor(ctx context.Context, id int) (*Vendor, error) {
	vendor, err := utils.FetchModel[Vendor](ctx, id)
	if err != nil {
		return nil, utils.NotFoundErrorf("vendor with id '%d' not found", id)
	}
	return vendor, nil
}

func GetVendors(ctx context.Context, name *string) ([]*Vendor, error) {
	db := config.GetDB()
	var results []*Vendor

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("created_at desc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetVendorPaymentSummary sums the vendor's non-deleted purchase orders and
// their non-voided payments.
func GetVendorPaymentSummary(ctx context.Context, vendorId int) (*VendorPaymentSummary, error) {
	db := config.GetDB()

	var summary VendorPaymentSummary
	sql := `
SELECT
    COALESCE(po.po_count, 0) AS po_count,
    COALESCE(po.total_amount, 0) AS total_amount,
    COALESCE(paid.total_paid, 0) AS total_paid,
    COALESCE(po.total_amount, 0) - COALESCE(paid.total_paid, 0) AS outstanding
FROM
    (SELECT 1) AS one
    LEFT JOIN (
        SELECT COUNT(*) AS po_count, SUM(total_amount) AS total_amount
        FROM purchase_orders
        WHERE vendor_id = ? AND deleted_at IS NULL
    ) po ON TRUE
    LEFT JOIN (
        SELECT SUM(p.amount) AS total_paid
        FROM payments p
            JOIN purchase_orders po ON po.id = p.purchase_order_id
        WHERE po.vendor_id = ? AND p.deleted_at IS NULL AND po.deleted_at IS NULL
    ) paid ON TRUE;
`
	if err := db.WithContext(ctx).Raw(sql, vendorId, vendorId).Scan(&summary).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}
