package pricing

import (
	"errors"
	"strings"
	"time"

	"gym-backoffice/internal/apperr"
	"gym-backoffice/internal/discount"
	"gym-backoffice/internal/models"

	"gorm.io/gorm"
)

// VoucherPreview is the user-facing result of an explicit voucher check.
type VoucherPreview struct {
	Code           string   `json:"code"`
	VoucherType    string   `json:"voucher_type"`
	DiscountValue  float64  `json:"discount_value"`
	DiscountAmount float64  `json:"discount_amount"`
	MaxDiscount    *float64 `json:"max_discount"`
	MinPurchase    float64  `json:"min_purchase"`
	ApplicableTo   string   `json:"applicable_to"`
	UsageCount     int      `json:"usage_count"`
	UsageLimit     *int     `json:"usage_limit"`
}

// ValidateVoucher runs the same checks Compute applies silently, but surfaces
// each failure as an explicit error for the validation endpoint.
func ValidateVoucher(db *gorm.DB, userID *uint, code string, subtotal float64) (*VoucherPreview, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperr.BadRequest("CODE_REQUIRED", "Voucher code is required")
	}

	var voucher models.Voucher
	if err := db.Where("code = ?", code).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("VOUCHER_NOT_FOUND", "Voucher code not found")
		}
		return nil, err
	}

	if !voucher.IsActive {
		return nil, apperr.BusinessRule("VOUCHER_INACTIVE", "Voucher is no longer active")
	}
	now := time.Now()
	if now.Before(voucher.StartDate) {
		return nil, apperr.BusinessRule("VOUCHER_NOT_STARTED", "Voucher is not valid yet")
	}
	if now.After(voucher.EndDate) {
		return nil, apperr.BusinessRule("VOUCHER_EXPIRED", "Voucher has expired")
	}
	if voucher.UsageLimit != nil && voucher.UsageCount >= *voucher.UsageLimit {
		return nil, apperr.BusinessRule("VOUCHER_EXHAUSTED", "Voucher has reached its usage limit")
	}
	if voucher.IsSingleUse && userID != nil {
		used, err := discount.VoucherUsedBy(db, voucher.ID, *userID)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, apperr.BusinessRule("VOUCHER_ALREADY_USED", "You have already used this voucher")
		}
	}
	if voucher.MinPurchase > 0 && subtotal < voucher.MinPurchase {
		return nil, apperr.BusinessRule("MIN_PURCHASE_NOT_MET", "Minimum purchase of %.0f not met", voucher.MinPurchase)
	}

	preview := &VoucherPreview{
		Code:          voucher.Code,
		VoucherType:   voucher.VoucherType,
		DiscountValue: voucher.DiscountValue,
		MaxDiscount:   voucher.MaxDiscount,
		MinPurchase:   voucher.MinPurchase,
		ApplicableTo:  voucher.ApplicableTo,
		UsageCount:    voucher.UsageCount,
		UsageLimit:    voucher.UsageLimit,
	}

	switch voucher.VoucherType {
	case models.DiscountPercentage:
		amount := subtotal * (voucher.DiscountValue / 100)
		if voucher.MaxDiscount != nil && amount > *voucher.MaxDiscount {
			amount = *voucher.MaxDiscount
		}
		preview.DiscountAmount = amount
	case models.DiscountFixed:
		preview.DiscountAmount = voucher.DiscountValue
		if preview.DiscountAmount > subtotal {
			preview.DiscountAmount = subtotal
		}
	}

	return preview, nil
}
