package handlers

import (
	"errors"
	"net/http"

	"gym-backoffice/internal/apperr"
	"gym-backoffice/internal/catalog"
	"gym-backoffice/internal/database"
	"gym-backoffice/internal/models"
	"gym-backoffice/internal/pricing"
	"gym-backoffice/internal/transactions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CheckoutItem struct {
	ItemType      string  `json:"item_type" binding:"required,oneof=membership class_pass pt_package product rental"`
	ItemID        uint    `json:"item_id" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,min=1"`
	DiscountType  string  `json:"discount_type" binding:"omitempty,oneof=percentage fixed"`
	DiscountValue float64 `json:"discount_value" binding:"omitempty,gte=0"`
	TrainerID     uint    `json:"trainer_id"`
}

// CheckoutRequest defines what the frontend sends us.
type CheckoutRequest struct {
	BranchID      uint           `json:"branch_id" binding:"required"`
	Items         []CheckoutItem `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string         `json:"payment_method" binding:"required,oneof=cash transfer qris card ewallet other"`
	UserID        uint           `json:"user_id"`        // staff selling to a registered member
	CustomerName  string         `json:"customer_name"`  // walk-in buyer
	DiscountType  string         `json:"discount_type" binding:"omitempty,oneof=percentage fixed"`
	DiscountValue float64        `json:"discount_value" binding:"omitempty,gte=0"`
	PromoIDs      []uint         `json:"promo_ids"`
	VoucherCodes  []string       `json:"voucher_codes"`
	Notes         string         `json:"notes"`
}

// Checkout prices the cart and creates a pending transaction. Stock and
// entitlements are untouched until a staff approval; a cart can therefore
// oversell and only fail at approval time.
func Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("VALIDATION_ERROR", "Invalid request body: %v", err))
		return
	}

	caller := callerID(c)
	buyerID, staffID, err := resolveBuyer(c, &req, caller)
	if err != nil {
		respondError(c, err)
		return
	}

	var branch models.Branch
	if err := database.DB.First(&branch, req.BranchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.NotFound("BRANCH_NOT_FOUND", "Branch %d not found", req.BranchID))
			return
		}
		respondError(c, err)
		return
	}

	rates, err := database.GetChargeRates(database.DB)
	if err != nil {
		respondError(c, err)
		return
	}

	lines := make([]*pricing.CartLine, 0, len(req.Items))
	for _, reqItem := range req.Items {
		item, err := catalog.Resolve(database.DB, reqItem.ItemType, reqItem.ItemID, req.BranchID)
		if err != nil {
			respondError(c, err)
			return
		}
		if buyerID == nil && requiresMember(reqItem.ItemType) {
			respondError(c, apperr.BadRequest("MEMBER_REQUIRED", "%s can only be sold to a registered member", item.Name))
			return
		}
		lines = append(lines, &pricing.CartLine{
			Item:          item,
			Quantity:      reqItem.Quantity,
			DiscountType:  reqItem.DiscountType,
			DiscountValue: reqItem.DiscountValue,
			TrainerID:     reqItem.TrainerID,
		})
	}

	quote, err := pricing.Compute(database.DB, pricing.Input{
		UserID:        buyerID,
		Lines:         lines,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		PromoIDs:      req.PromoIDs,
		VoucherCodes:  req.VoucherCodes,
		Rates:         rates,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	trx, err := transactions.Create(database.DB, transactions.CreateInput{
		Branch:        &branch,
		UserID:        buyerID,
		StaffID:       staffID,
		CustomerName:  req.CustomerName,
		PaymentMethod: req.PaymentMethod,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		Notes:         req.Notes,
	}, lines, quote)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]gin.H, 0, len(trx.Lines))
	for _, line := range trx.Lines {
		items = append(items, gin.H{
			"name":       line.ItemName,
			"quantity":   line.Quantity,
			"unit_price": line.UnitPrice,
			"subtotal":   line.Subtotal,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"transaction_id":        trx.ID,
		"transaction_code":      trx.TransactionCode,
		"status":                trx.Status,
		"subtotal":              trx.Subtotal,
		"discount_amount":       trx.DiscountAmount,
		"promo_discount":        trx.PromoDiscount,
		"voucher_discount":      trx.VoucherDiscount,
		"tax_amount":            trx.TaxAmount,
		"service_charge_amount": trx.ServiceChargeAmount,
		"grand_total":           trx.GrandTotal,
		"items":                 items,
	})
}

// resolveBuyer decides who the transaction belongs to: a walk-in name, an
// explicit member picked by staff, or the caller themselves.
func resolveBuyer(c *gin.Context, req *CheckoutRequest, caller uint) (buyerID *uint, staffID *uint, err error) {
	if req.CustomerName != "" {
		return nil, &caller, nil
	}
	if req.UserID != 0 && req.UserID != caller {
		role := callerRole(c)
		if role != "staff" && role != "admin" {
			return nil, nil, apperr.BadRequest("VALIDATION_ERROR", "Only staff can checkout on behalf of a member")
		}
		var member models.User
		if dbErr := database.DB.First(&member, req.UserID).Error; dbErr != nil {
			return nil, nil, apperr.NotFound("USER_NOT_FOUND", "User %d not found", req.UserID)
		}
		return &member.ID, &caller, nil
	}
	return &caller, nil, nil
}

func requiresMember(itemType string) bool {
	switch itemType {
	case models.ItemMembership, models.ItemClassPass, models.ItemPTPackage:
		return true
	}
	return false
}
