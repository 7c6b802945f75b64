package handlers

import (
	"net/http"
	"time"

	"gym-backoffice/internal/apperr"
	"gym-backoffice/internal/database"
	"gym-backoffice/internal/models"
	"gym-backoffice/internal/pricing"

	"github.com/gin-gonic/gin"
)

type ValidateVoucherRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"gte=0"`
}

// ValidateVoucher surfaces the checks checkout applies silently, as explicit
// user-facing errors.
func ValidateVoucher(c *gin.Context) {
	var req ValidateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("CODE_REQUIRED", "Voucher code is required"))
		return
	}

	caller := callerID(c)
	preview, err := pricing.ValidateVoucher(database.DB, &caller, req.Code, req.Subtotal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": preview})
}

// GetActivePromos lists promos currently usable at checkout.
func GetActivePromos(c *gin.Context) {
	now := time.Now()
	query := database.DB.
		Where("is_active = ?", true).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Where("usage_limit IS NULL OR usage_count < usage_limit")

	if applicableTo := c.Query("applicable_to"); applicableTo != "" && applicableTo != "all" {
		query = query.Where("applicable_to = ? OR applicable_to = ?", applicableTo, "all")
	}

	var promos []models.Promo
	if err := query.Order("discount_value DESC").Find(&promos).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": promos})
}
