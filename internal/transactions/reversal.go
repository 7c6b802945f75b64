package transactions

import (
	"fmt"
	"time"

	"gym-backoffice/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Refund reverses a paid transaction: restores branch stock for product
// lines and cancels/expires the entitlements it granted. Discount usage is
// intentionally NOT reversed - consumed promos and vouchers stay consumed.
func Refund(db *gorm.DB, transactionID uint, staffID uint, reason string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", transactionID, models.StatusPaid).
			Update("status", models.StatusRefunded)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return statusConflict(tx, transactionID, models.StatusPaid)
		}

		var trx models.Transaction
		if err := tx.Preload("Lines").First(&trx, transactionID).Error; err != nil {
			return err
		}

		for i := range trx.Lines {
			line := &trx.Lines[i]
			if line.ItemType != models.ItemProduct || line.Meta().IsRental {
				continue
			}
			if err := restoreStock(tx, &trx, line, staffID, reason); err != nil {
				return err
			}
		}

		// Entitlements: memberships are cancelled, bundles are expired.
		if err := tx.Model(&models.MembershipGrant{}).
			Where("transaction_id = ? AND status = ?", transactionID, models.GrantActive).
			Update("status", models.GrantCancelled).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ClassPassGrant{}).
			Where("transaction_id = ? AND status = ?", transactionID, models.GrantActive).
			Update("status", models.GrantExpired).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PTSessionGrant{}).
			Where("transaction_id = ? AND status = ?", transactionID, models.GrantActive).
			Update("status", models.GrantExpired).Error; err != nil {
			return err
		}

		return appendNote(tx, transactionID, fmt.Sprintf("[REFUND] %s", reason))
	})
	if err != nil {
		return err
	}

	log.Info().Uint("transaction_id", transactionID).Uint("refunded_by", staffID).
		Str("reason", reason).Msg("transaction refunded")
	return nil
}

func restoreStock(tx *gorm.DB, trx *models.Transaction, line *models.TransactionLine, staffID uint, reason string) error {
	res := tx.Model(&models.BranchStock{}).
		Where("branch_id = ? AND product_id = ?", trx.BranchID, line.ItemID).
		UpdateColumn("stock", gorm.Expr("stock + ?", line.Quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Stock row vanished since checkout; recreate it so the refund
		// never fails on catalog drift.
		bs := models.BranchStock{BranchID: trx.BranchID, ProductID: line.ItemID, Stock: line.Quantity}
		if err := tx.Create(&bs).Error; err != nil {
			return err
		}
	}

	var bs models.BranchStock
	if err := tx.Where("branch_id = ? AND product_id = ?", trx.BranchID, line.ItemID).First(&bs).Error; err != nil {
		return err
	}

	entry := models.StockLog{
		ProductID:     line.ItemID,
		BranchID:      trx.BranchID,
		Type:          "in",
		Quantity:      line.Quantity,
		StockBefore:   bs.Stock - line.Quantity,
		StockAfter:    bs.Stock,
		ReferenceType: "transaction",
		ReferenceID:   trx.ID,
		Notes:         fmt.Sprintf("Refund: %s", reason),
		CreatedBy:     staffID,
		CreatedAt:     time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	log.Info().Uint("product_id", line.ItemID).Int("quantity", line.Quantity).
		Int("stock_after", bs.Stock).Msg("stock restored")
	return nil
}
