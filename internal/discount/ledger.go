// Package discount is the usage ledger around promos and vouchers: limit
// checks read at pricing time, usage rows written at approval time.
package discount

import (
	"time"

	"gym-backoffice/internal/models"

	"gorm.io/gorm"
)

const (
	TypePromo   = "promo"
	TypeVoucher = "voucher"
)

// PromoUseCount counts how many approved transactions already consumed this
// promo for the given user.
func PromoUseCount(db *gorm.DB, promoID uint, userID uint) (int64, error) {
	var count int64
	err := db.Model(&models.DiscountUsage{}).
		Where("discount_type = ? AND discount_id = ? AND user_id = ?", TypePromo, promoID, userID).
		Count(&count).Error
	return count, err
}

// VoucherUsedBy reports whether the user already redeemed this voucher.
func VoucherUsedBy(db *gorm.DB, voucherID uint, userID uint) (bool, error) {
	var count int64
	err := db.Model(&models.DiscountUsage{}).
		Where("discount_type = ? AND discount_id = ? AND user_id = ?", TypeVoucher, voucherID, userID).
		Count(&count).Error
	return count > 0, err
}

// RecordPromoUsage increments each applied promo's usage counter and appends
// one audit row per promo. The total promo discount is split evenly across
// the applied promos; see DESIGN.md for why the split is not proportional.
func RecordPromoUsage(tx *gorm.DB, trx *models.Transaction, promoIDs []uint) error {
	if len(promoIDs) == 0 {
		return nil
	}
	share := trx.PromoDiscount / float64(len(promoIDs))
	for _, id := range promoIDs {
		if err := tx.Model(&models.Promo{}).Where("id = ?", id).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
			return err
		}
		usage := models.DiscountUsage{
			DiscountType:  TypePromo,
			DiscountID:    id,
			UserID:        trx.UserID,
			TransactionID: trx.ID,
			Amount:        share,
			UsedAt:        time.Now(),
		}
		if err := tx.Create(&usage).Error; err != nil {
			return err
		}
	}
	return nil
}

// RecordVoucherUsage mirrors RecordPromoUsage for voucher codes.
func RecordVoucherUsage(tx *gorm.DB, trx *models.Transaction, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	share := trx.VoucherDiscount / float64(len(codes))
	for _, code := range codes {
		var voucher models.Voucher
		if err := tx.Where("code = ?", code).First(&voucher).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Voucher{}).Where("id = ?", voucher.ID).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
			return err
		}
		usage := models.DiscountUsage{
			DiscountType:  TypeVoucher,
			DiscountID:    voucher.ID,
			UserID:        trx.UserID,
			TransactionID: trx.ID,
			Amount:        share,
			UsedAt:        time.Now(),
		}
		if err := tx.Create(&usage).Error; err != nil {
			return err
		}
	}
	return nil
}
