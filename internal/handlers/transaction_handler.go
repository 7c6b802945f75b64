package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gym-backoffice/internal/apperr"
	"gym-backoffice/internal/database"
	"gym-backoffice/internal/models"
	"gym-backoffice/internal/transactions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RejectRequest struct {
	Reason string `json:"reason"`
}

type RefundRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ApproveTransaction runs the guarded pending->paid transition: stock
// deduction, entitlement grants and discount usage in one atomic step.
func ApproveTransaction(c *gin.Context) {
	id, err := transactionID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	trx, err := transactions.Approve(database.DB, id, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction_id":   trx.ID,
		"transaction_code": trx.TransactionCode,
		"status":           models.StatusPaid,
		"paid_amount":      trx.GrandTotal,
	})
}

// RejectTransaction marks a pending transaction failed.
func RejectTransaction(c *gin.Context) {
	id, err := transactionID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req RejectRequest
	_ = c.ShouldBindJSON(&req)

	if err := transactions.Reject(database.DB, id, callerID(c), req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction_id": id, "status": models.StatusFailed})
}

// RefundTransaction reverses a paid transaction.
func RefundTransaction(c *gin.Context) {
	id, err := transactionID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("VALIDATION_ERROR", "Refund reason is required"))
		return
	}

	if err := transactions.Refund(database.DB, id, callerID(c), req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction_id": id, "status": models.StatusRefunded})
}

// GetTransaction returns one transaction with its lines. Members only see
// their own.
func GetTransaction(c *gin.Context) {
	id, err := transactionID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var trx models.Transaction
	if err := database.DB.Preload("Lines").First(&trx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.NotFound("TRANSACTION_NOT_FOUND", "Transaction %d not found", id))
			return
		}
		respondError(c, err)
		return
	}

	if callerRole(c) == "member" {
		caller := callerID(c)
		if trx.UserID == nil || *trx.UserID != caller {
			respondError(c, apperr.NotFound("TRANSACTION_NOT_FOUND", "Transaction %d not found", id))
			return
		}
	}

	c.JSON(http.StatusOK, trx)
}

// ListTransactions returns a filtered page of transactions. Members are
// pinned to their own history.
func ListTransactions(c *gin.Context) {
	query := database.DB.Model(&models.Transaction{})

	if callerRole(c) == "member" {
		query = query.Where("user_id = ?", callerID(c))
	} else {
		if userID := c.Query("user_id"); userID != "" {
			query = query.Where("user_id = ?", userID)
		}
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if branchID := c.Query("branch_id"); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var list []models.Transaction
	if err := query.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": list,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func transactionID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperr.BadRequest("VALIDATION_ERROR", "Invalid transaction id")
	}
	return uint(id), nil
}
