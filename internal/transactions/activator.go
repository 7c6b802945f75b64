package transactions

import (
	"time"

	"gym-backoffice/internal/apperr"
	"gym-backoffice/internal/discount"
	"gym-backoffice/internal/models"
	"gym-backoffice/internal/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// lineActivator turns one paid transaction line into its side effects
// (stock deduction or entitlement grant).
type lineActivator func(tx *gorm.DB, trx *models.Transaction, line *models.TransactionLine, staffID uint) error

// One registration point per item type; adding a sellable kind means adding
// one entry here.
var lineActivators = map[string]lineActivator{
	models.ItemProduct:    activateProduct,
	models.ItemRental:     activateRental,
	models.ItemMembership: activateMembership,
	models.ItemClassPass:  activateClassPass,
	models.ItemPTPackage:  activatePTPackage,
}

// Approve runs the whole pending->paid transition as one storage transaction:
// status guard first, then per-line side effects, then discount usage, then
// the payment fields. Any failure rolls the entire approval back and leaves
// the transaction pending for a manual re-attempt.
func Approve(db *gorm.DB, transactionID uint, staffID uint) (*models.Transaction, error) {
	var trx models.Transaction

	err := db.Transaction(func(tx *gorm.DB) error {
		// The guard is the first write: zero rows affected means another
		// approval already claimed this transaction.
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", transactionID, models.StatusPending).
			Update("status", models.StatusPaid)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return statusConflict(tx, transactionID, models.StatusPending)
		}

		if err := tx.Preload("Lines").First(&trx, transactionID).Error; err != nil {
			return err
		}

		for i := range trx.Lines {
			line := &trx.Lines[i]
			activate, ok := lineActivators[line.ItemType]
			if !ok {
				return apperr.BadRequest("INVALID_ITEM_TYPE", "Unknown item type %q on line %d", line.ItemType, line.ID)
			}
			if err := activate(tx, &trx, line, staffID); err != nil {
				return err
			}
		}

		if err := discount.RecordPromoUsage(tx, &trx, trx.AppliedPromoIDs()); err != nil {
			return err
		}
		if err := discount.RecordVoucherUsage(tx, &trx, trx.AppliedVoucherCodes()); err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(&trx).Updates(map[string]interface{}{
			"paid_amount": trx.GrandTotal,
			"paid_at":     now,
			"approved_by": staffID,
			"approved_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("code", trx.TransactionCode).Uint("approved_by", staffID).Msg("transaction approved")
	return &trx, nil
}

// activateProduct deducts branch stock with a conditional decrement; losing
// the race (or plain shortage) fails the whole approval.
func activateProduct(tx *gorm.DB, trx *models.Transaction, line *models.TransactionLine, staffID uint) error {
	if line.Meta().IsRental {
		return nil
	}

	res := tx.Model(&models.BranchStock{}).
		Where("branch_id = ? AND product_id = ? AND stock >= ?", trx.BranchID, line.ItemID, line.Quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("INSUFFICIENT_STOCK", "Insufficient stock for %s", line.ItemName)
	}

	var bs models.BranchStock
	if err := tx.Where("branch_id = ? AND product_id = ?", trx.BranchID, line.ItemID).First(&bs).Error; err != nil {
		return err
	}

	entry := models.StockLog{
		ProductID:     line.ItemID,
		BranchID:      trx.BranchID,
		Type:          "out",
		Quantity:      line.Quantity,
		StockBefore:   bs.Stock + line.Quantity,
		StockAfter:    bs.Stock,
		ReferenceType: "transaction",
		ReferenceID:   trx.ID,
		CreatedBy:     staffID,
		CreatedAt:     time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	log.Info().Uint("product_id", line.ItemID).Uint("branch_id", trx.BranchID).
		Int("quantity", line.Quantity).Int("stock_after", bs.Stock).Msg("stock deducted")
	return nil
}

// Rentals are not stock tracked; the line itself is the record.
func activateRental(tx *gorm.DB, trx *models.Transaction, line *models.TransactionLine, staffID uint) error {
	return nil
}

func activateMembership(tx *gorm.DB, trx *models.Transaction, line *models.TransactionLine, staffID uint) error {
	userID, err := grantee(trx, line)
	if err != nil {
		return err
	}
	meta := line.Meta()
	start := today()

	for i := 0; i < line.Quantity; i++ {
		grant := models.MembershipGrant{
			UserID:         userID,
			PackageID:      line.ItemID,
			TransactionID:  trx.ID,
			MembershipCode: utils.MembershipCode(),
			StartDate:      start,
			Status:         models.GrantActive,
		}
		if meta.PackageType == "visit" {
			quota := meta.VisitQuota
			grant.VisitRemaining = &quota
		} else {
			end := start.AddDate(0, 0, meta.DurationDays)
			grant.EndDate = &end
		}
		if err := tx.Create(&grant).Error; err != nil {
			return err
		}
	}
	return nil
}

func activateClassPass(tx *gorm.DB, trx *models.Transaction, line *models.TransactionLine, staffID uint) error {
	userID, err := grantee(trx, line)
	if err != nil {
		return err
	}
	meta := line.Meta()
	start := today()

	for i := 0; i < line.Quantity; i++ {
		grant := models.ClassPassGrant{
			UserID:        userID,
			PackageID:     line.ItemID,
			TransactionID: trx.ID,
			TotalClasses:  meta.ClassCount,
			StartDate:     start,
			ExpireDate:    start.AddDate(0, 0, meta.ValidDays),
			Status:        models.GrantActive,
		}
		if err := tx.Create(&grant).Error; err != nil {
			return err
		}
	}
	return nil
}

func activatePTPackage(tx *gorm.DB, trx *models.Transaction, line *models.TransactionLine, staffID uint) error {
	userID, err := grantee(trx, line)
	if err != nil {
		return err
	}
	meta := line.Meta()
	start := today()

	for i := 0; i < line.Quantity; i++ {
		grant := models.PTSessionGrant{
			UserID:        userID,
			PackageID:     line.ItemID,
			TransactionID: trx.ID,
			TrainerID:     meta.TrainerID,
			TotalSessions: meta.SessionCount,
			StartDate:     start,
			ExpireDate:    start.AddDate(0, 0, meta.ValidDays),
			Status:        models.GrantActive,
		}
		if err := tx.Create(&grant).Error; err != nil {
			return err
		}
	}
	return nil
}

// grantee resolves who receives an entitlement. Walk-in transactions carry no
// user, so checkout already rejects entitlement items for them; this guard
// keeps a bad row from half-activating.
func grantee(trx *models.Transaction, line *models.TransactionLine) (uint, error) {
	if trx.UserID == nil {
		return 0, apperr.Conflict("MEMBER_REQUIRED", "%s requires a registered member", line.ItemName)
	}
	return *trx.UserID, nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
