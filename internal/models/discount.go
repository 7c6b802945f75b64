package models

import (
	"encoding/json"
	"time"
)

// Discount rule value types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
	DiscountFreeItem   = "free_item"
)

// Promo - an ongoing campaign with per-user limits.
type Promo struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	PromoType       string    `json:"promo_type"` // 'percentage', 'fixed', 'free_item'
	DiscountValue   float64   `json:"discount_value"`
	MinPurchase     float64   `json:"min_purchase"`
	MaxDiscount     *float64  `json:"max_discount"`
	ApplicableTo    string    `gorm:"default:all" json:"applicable_to"` // 'all', 'membership', 'class', 'pt', 'product'
	ApplicableItems string    `json:"applicable_items"`                 // JSON array of item ids, empty = no restriction
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	UsageLimit      *int      `json:"usage_limit"`
	UsageCount      int       `json:"usage_count"`
	PerUserLimit    int       `gorm:"default:1" json:"per_user_limit"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Voucher - a single redeemable code.
type Voucher struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Code            string    `gorm:"uniqueIndex;size:50" json:"code"`
	VoucherType     string    `json:"voucher_type"` // 'percentage', 'fixed', 'free_item'
	DiscountValue   float64   `json:"discount_value"`
	MinPurchase     float64   `json:"min_purchase"`
	MaxDiscount     *float64  `json:"max_discount"`
	ApplicableTo    string    `gorm:"default:all" json:"applicable_to"`
	ApplicableItems string    `json:"applicable_items"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	UsageLimit      *int      `json:"usage_limit"`
	UsageCount      int       `json:"usage_count"`
	IsSingleUse     bool      `gorm:"default:true" json:"is_single_use"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// DiscountUsage - append-only redemption audit row. Written only at approval,
// never reversed on refund.
type DiscountUsage struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	DiscountType  string    `json:"discount_type"` // 'promo' or 'voucher'
	DiscountID    uint      `json:"discount_id"`
	UserID        *uint     `json:"user_id"`
	TransactionID uint      `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	UsedAt        time.Time `json:"used_at"`
}

// ItemIDs decodes the applicable_items allow-list. Empty slice means no
// explicit restriction.
func decodeItemIDs(raw string) []uint {
	if raw == "" {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	return ids
}

func (p *Promo) ItemIDs() []uint   { return decodeItemIDs(p.ApplicableItems) }
func (v *Voucher) ItemIDs() []uint { return decodeItemIDs(v.ApplicableItems) }
