// Package pricing computes checkout totals under stacked discounts:
// per-line, transaction-level, then promos and vouchers in caller order,
// then tax and service charge. Every discount is capped so the running
// subtotal never goes negative.
package pricing

import (
	"time"

	"gym-backoffice/internal/catalog"
	"gym-backoffice/internal/database"
	"gym-backoffice/internal/discount"
	"gym-backoffice/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CartLine is one requested item with its resolved catalog snapshot.
// Ephemeral; the persisted form is models.TransactionLine.
type CartLine struct {
	Item          *catalog.Item
	Quantity      int
	DiscountType  string
	DiscountValue float64
	TrainerID     uint // requested trainer for pt_package lines

	// filled in by Compute
	DiscountAmount float64
	Subtotal       float64
}

// Input is everything Compute needs for one cart.
type Input struct {
	UserID        *uint // nil for walk-in buyers
	Lines         []*CartLine
	DiscountType  string // optional transaction-level discount
	DiscountValue float64
	PromoIDs      []uint
	VoucherCodes  []string
	Rates         database.ChargeRates
}

// Quote is the full pricing breakdown persisted onto the transaction.
type Quote struct {
	Subtotal            float64 // sum of line subtotals, after line discounts
	LineDiscount        float64
	TransactionDiscount float64
	PromoDiscount       float64
	AppliedPromoIDs     []uint
	VoucherDiscount     float64
	AppliedVoucherCodes []string
	TaxRate             float64
	TaxAmount           float64
	ServiceRate         float64
	ServiceChargeAmount float64
	GrandTotal          float64
}

// Compute runs the deterministic pricing algorithm. Promos and vouchers that
// fail validation are skipped silently; checkout never hard-fails on a bad
// discount code.
func Compute(db *gorm.DB, in Input) (*Quote, error) {
	q := &Quote{TaxRate: 0, ServiceRate: 0}

	// 1. Per-line totals and line discounts.
	for _, line := range in.Lines {
		total := line.Item.Price * float64(line.Quantity)
		line.DiscountAmount = discountAmount(line.DiscountType, line.DiscountValue, total)
		line.Subtotal = total - line.DiscountAmount
		q.LineDiscount += line.DiscountAmount
		q.Subtotal += line.Subtotal
	}
	running := q.Subtotal

	// 2. Transaction-level discount, capped at what is left.
	q.TransactionDiscount = discountAmount(in.DiscountType, in.DiscountValue, running)
	running -= q.TransactionDiscount

	// 3. Promos, in caller order.
	for _, promoID := range in.PromoIDs {
		var promo models.Promo
		if err := db.Where("id = ?", promoID).First(&promo).Error; err != nil {
			log.Debug().Uint("promo_id", promoID).Msg("promo not found, skipped")
			continue
		}
		usable, err := promoUsable(db, &promo, in.UserID)
		if err != nil {
			return nil, err
		}
		if !usable {
			log.Debug().Uint("promo_id", promoID).Msg("promo not usable, skipped")
			continue
		}
		amount := applyRule(rule{
			ruleType:     promo.PromoType,
			value:        promo.DiscountValue,
			minPurchase:  promo.MinPurchase,
			maxDiscount:  promo.MaxDiscount,
			applicableTo: promo.ApplicableTo,
			itemIDs:      promo.ItemIDs(),
		}, in.Lines, running)
		if amount <= 0 {
			continue
		}
		running -= amount
		q.PromoDiscount += amount
		q.AppliedPromoIDs = append(q.AppliedPromoIDs, promo.ID)
	}

	// 4. Vouchers, same logic with single-use semantics.
	for _, code := range in.VoucherCodes {
		var voucher models.Voucher
		if err := db.Where("code = ?", code).First(&voucher).Error; err != nil {
			log.Debug().Str("voucher", code).Msg("voucher not found, skipped")
			continue
		}
		usable, err := voucherUsable(db, &voucher, in.UserID)
		if err != nil {
			return nil, err
		}
		if !usable {
			log.Debug().Str("voucher", code).Msg("voucher not usable, skipped")
			continue
		}
		amount := applyRule(rule{
			ruleType:     voucher.VoucherType,
			value:        voucher.DiscountValue,
			minPurchase:  voucher.MinPurchase,
			maxDiscount:  voucher.MaxDiscount,
			applicableTo: voucher.ApplicableTo,
			itemIDs:      voucher.ItemIDs(),
		}, in.Lines, running)
		if amount <= 0 {
			continue
		}
		running -= amount
		q.VoucherDiscount += amount
		q.AppliedVoucherCodes = append(q.AppliedVoucherCodes, voucher.Code)
	}

	// 5. Tax and service charge on the discounted subtotal.
	if in.Rates.TaxEnabled {
		q.TaxRate = in.Rates.TaxRate
		q.TaxAmount = running * (in.Rates.TaxRate / 100)
	}
	if in.Rates.ServiceEnabled {
		q.ServiceRate = in.Rates.ServiceRate
		q.ServiceChargeAmount = running * (in.Rates.ServiceRate / 100)
	}
	q.GrandTotal = running + q.TaxAmount + q.ServiceChargeAmount

	return q, nil
}

// discountAmount computes a plain percentage/fixed discount capped at base.
func discountAmount(discountType string, value, base float64) float64 {
	if value <= 0 {
		return 0
	}
	switch discountType {
	case models.DiscountPercentage:
		amount := base * (value / 100)
		if amount > base {
			amount = base
		}
		return amount
	case models.DiscountFixed:
		if value > base {
			return base
		}
		return value
	default:
		return 0
	}
}

func promoUsable(db *gorm.DB, promo *models.Promo, userID *uint) (bool, error) {
	now := time.Now()
	if !promo.IsActive || now.Before(promo.StartDate) || now.After(promo.EndDate) {
		return false, nil
	}
	if promo.UsageLimit != nil && promo.UsageCount >= *promo.UsageLimit {
		return false, nil
	}
	// Per-user limits cannot bind for walk-in buyers.
	if userID != nil && promo.PerUserLimit > 0 {
		used, err := discount.PromoUseCount(db, promo.ID, *userID)
		if err != nil {
			return false, err
		}
		if used >= int64(promo.PerUserLimit) {
			return false, nil
		}
	}
	return true, nil
}

func voucherUsable(db *gorm.DB, voucher *models.Voucher, userID *uint) (bool, error) {
	now := time.Now()
	if !voucher.IsActive || now.Before(voucher.StartDate) || now.After(voucher.EndDate) {
		return false, nil
	}
	if voucher.UsageLimit != nil && voucher.UsageCount >= *voucher.UsageLimit {
		return false, nil
	}
	if voucher.IsSingleUse && userID != nil {
		used, err := discount.VoucherUsedBy(db, voucher.ID, *userID)
		if err != nil {
			return false, err
		}
		if used {
			return false, nil
		}
	}
	return true, nil
}
