package transactions_test

import (
	"regexp"
	"testing"

	"gym-backoffice/internal/apperr"
	"gym-backoffice/internal/models"
	"gym-backoffice/internal/transactions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePendingWithoutSideEffects(t *testing.T) {
	f := seed(t, 10)
	trx := f.checkout(t, nil,
		cartEntry{models.ItemMembership, f.pkg.ID, 1},
		cartEntry{models.ItemProduct, f.product.ID, 2},
	)

	assert.Equal(t, models.StatusPending, trx.Status)
	assert.Regexp(t, regexp.MustCompile(`^TRX-JKT-\d{14}-[0-9A-F]{4}$`), trx.TransactionCode)
	assert.Equal(t, 580000.0, trx.GrandTotal)
	assert.Zero(t, trx.PaidAmount)
	assert.Nil(t, trx.PaidAt)

	// Checkout reserves nothing.
	assert.Equal(t, 10, f.stockAt(t))
	var grants int64
	require.NoError(t, f.db.Model(&models.MembershipGrant{}).Count(&grants).Error)
	assert.Zero(t, grants)

	// Line snapshots carry everything activation needs.
	after := f.reload(t, trx.ID)
	require.Len(t, after.Lines, 2)
	assert.Equal(t, "Gold Monthly", after.Lines[0].ItemName)
	assert.Equal(t, 500000.0, after.Lines[0].UnitPrice)
	assert.Equal(t, 30, after.Lines[0].Meta().DurationDays)
}

func TestRejectPending(t *testing.T) {
	f := seed(t, 10)
	trx := f.checkout(t, nil, cartEntry{models.ItemProduct, f.product.ID, 1})

	require.NoError(t, transactions.Reject(f.db, trx.ID, f.staff.ID, "payment never arrived"))

	after := f.reload(t, trx.ID)
	assert.Equal(t, models.StatusFailed, after.Status)
	assert.Contains(t, after.Notes, "[REJECTED] payment never arrived")
	require.NotNil(t, after.ApprovedBy)
	assert.Equal(t, f.staff.ID, *after.ApprovedBy)
}

func TestRejectNonPendingConflicts(t *testing.T) {
	f := seed(t, 10)
	trx := f.checkout(t, nil, cartEntry{models.ItemProduct, f.product.ID, 1})
	_, err := transactions.Approve(f.db, trx.ID, f.staff.ID)
	require.NoError(t, err)

	err = transactions.Reject(f.db, trx.ID, f.staff.ID, "too late")
	require.Error(t, err)
	assert.Equal(t, "TRANSACTION_NOT_PENDING", apperr.From(err).Code)

	err = transactions.Reject(f.db, 9999, f.staff.ID, "")
	require.Error(t, err)
	assert.Equal(t, "TRANSACTION_NOT_FOUND", apperr.From(err).Code)
}

func TestRejectedTransactionCannotBeApproved(t *testing.T) {
	f := seed(t, 10)
	trx := f.checkout(t, nil, cartEntry{models.ItemProduct, f.product.ID, 1})
	require.NoError(t, transactions.Reject(f.db, trx.ID, f.staff.ID, ""))

	_, err := transactions.Approve(f.db, trx.ID, f.staff.ID)
	require.Error(t, err)
	assert.Equal(t, "TRANSACTION_NOT_PENDING", apperr.From(err).Code)
	assert.Equal(t, 10, f.stockAt(t))
}
