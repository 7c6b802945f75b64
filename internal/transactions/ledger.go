// Package transactions owns the transaction ledger and its state machine:
// checkout creates pending rows, approval atomically activates entitlements,
// refund runs the compensating reversal.
package transactions

import (
	"encoding/json"
	"fmt"
	"time"

	"gym-backoffice/internal/apperr"
	"gym-backoffice/internal/models"
	"gym-backoffice/internal/pricing"
	"gym-backoffice/internal/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateInput collects the non-pricing fields of a checkout.
type CreateInput struct {
	Branch        *models.Branch
	UserID        *uint // registered buyer, nil for walk-in
	StaffID       *uint
	CustomerName  string
	PaymentMethod string
	DiscountType  string
	DiscountValue float64
	Notes         string
}

// Create persists the pending transaction header plus its lines with catalog
// metadata snapshots. No stock or entitlement side effects happen here.
func Create(db *gorm.DB, in CreateInput, lines []*pricing.CartLine, q *pricing.Quote) (*models.Transaction, error) {
	trx := models.Transaction{
		TransactionCode: utils.TransactionCode(in.Branch.Code),
		BranchID:        in.Branch.ID,
		UserID:          in.UserID,
		StaffID:         in.StaffID,
		CustomerName:    in.CustomerName,

		Subtotal:        q.Subtotal,
		LineDiscount:    q.LineDiscount,
		DiscountType:    in.DiscountType,
		DiscountValue:   in.DiscountValue,
		DiscountAmount:  q.TransactionDiscount,
		PromoDiscount:   q.PromoDiscount,
		AppliedPromos:   marshalList(q.AppliedPromoIDs),
		VoucherDiscount: q.VoucherDiscount,
		AppliedVouchers: marshalList(q.AppliedVoucherCodes),

		TaxPercentage:           q.TaxRate,
		TaxAmount:               q.TaxAmount,
		ServiceChargePercentage: q.ServiceRate,
		ServiceChargeAmount:     q.ServiceChargeAmount,
		GrandTotal:              q.GrandTotal,

		PaymentMethod: in.PaymentMethod,
		Status:        models.StatusPending,
		Notes:         in.Notes,
	}

	for _, line := range lines {
		tl := models.TransactionLine{
			ItemType:       line.Item.Type,
			ItemID:         line.Item.ID,
			ItemName:       line.Item.Name,
			Quantity:       line.Quantity,
			UnitPrice:      line.Item.Price,
			DiscountType:   line.DiscountType,
			DiscountValue:  line.DiscountValue,
			DiscountAmount: line.DiscountAmount,
			Subtotal:       line.Subtotal,
		}
		meta := line.Item.Meta()
		meta.TrainerID = line.TrainerID
		tl.SetMeta(meta)
		trx.Lines = append(trx.Lines, tl)
	}

	if err := db.Create(&trx).Error; err != nil {
		return nil, err
	}

	log.Info().Str("code", trx.TransactionCode).Float64("grand_total", trx.GrandTotal).
		Int("lines", len(trx.Lines)).Msg("transaction created")
	return &trx, nil
}

// Reject moves a pending transaction to failed. Guarded the same way approval
// is, so a racing approve and reject cannot both win.
func Reject(db *gorm.DB, transactionID uint, staffID uint, reason string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", transactionID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":      models.StatusFailed,
				"approved_by": staffID,
				"approved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return statusConflict(tx, transactionID, models.StatusPending)
		}
		if reason != "" {
			if err := appendNote(tx, transactionID, fmt.Sprintf("[REJECTED] %s", reason)); err != nil {
				return err
			}
		}
		log.Info().Uint("transaction_id", transactionID).Str("reason", reason).Msg("transaction rejected")
		return nil
	})
}

// statusConflict distinguishes "gone" from "wrong state" after a guarded
// update affected zero rows.
func statusConflict(tx *gorm.DB, transactionID uint, wanted string) error {
	var count int64
	if err := tx.Model(&models.Transaction{}).Where("id = ?", transactionID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.NotFound("TRANSACTION_NOT_FOUND", "Transaction %d not found", transactionID)
	}
	if wanted == models.StatusPaid {
		return apperr.Conflict("TRANSACTION_NOT_PAID", "Transaction %d is not paid", transactionID)
	}
	return apperr.Conflict("TRANSACTION_NOT_PENDING", "Transaction %d is not pending", transactionID)
}

func appendNote(tx *gorm.DB, transactionID uint, note string) error {
	var trx models.Transaction
	if err := tx.First(&trx, transactionID).Error; err != nil {
		return err
	}
	notes := trx.Notes
	if notes != "" {
		notes += "\n"
	}
	return tx.Model(&trx).Update("notes", notes+note).Error
}

func marshalList(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
