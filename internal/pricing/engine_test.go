package pricing_test

import (
	"testing"
	"time"

	"gym-backoffice/internal/catalog"
	"gym-backoffice/internal/database"
	"gym-backoffice/internal/models"
	"gym-backoffice/internal/pricing"
	"gym-backoffice/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartLine(itemType string, id uint, price float64, qty int) *pricing.CartLine {
	return &pricing.CartLine{
		Item:     &catalog.Item{Type: itemType, ID: id, Name: "item", Price: price},
		Quantity: qty,
	}
}

func window() (time.Time, time.Time) {
	now := time.Now()
	return now.Add(-24 * time.Hour), now.Add(24 * time.Hour)
}

func taxed(rate float64) database.ChargeRates {
	return database.ChargeRates{TaxEnabled: true, TaxRate: rate}
}

func TestQuoteMembershipWithTax(t *testing.T) {
	db := testdb.Open(t)
	lines := []*pricing.CartLine{cartLine(models.ItemMembership, 1, 500000, 1)}

	q, err := pricing.Compute(db, pricing.Input{Lines: lines, Rates: taxed(10)})
	require.NoError(t, err)

	assert.Equal(t, 500000.0, q.Subtotal)
	assert.InDelta(t, 50000, q.TaxAmount, 0.001)
	assert.InDelta(t, 550000, q.GrandTotal, 0.001)
}

func TestQuotePromoCappedAtMaxDiscount(t *testing.T) {
	db := testdb.Open(t)
	start, end := window()
	maxDiscount := 50000.0
	promo := models.Promo{
		Name: "Membership 20%", PromoType: models.DiscountPercentage, DiscountValue: 20,
		MaxDiscount: &maxDiscount, ApplicableTo: "membership",
		StartDate: start, EndDate: end, PerUserLimit: 1, IsActive: true,
	}
	require.NoError(t, db.Create(&promo).Error)

	lines := []*pricing.CartLine{cartLine(models.ItemMembership, 1, 500000, 1)}
	q, err := pricing.Compute(db, pricing.Input{Lines: lines, PromoIDs: []uint{promo.ID}, Rates: taxed(10)})
	require.NoError(t, err)

	// 20% of 500000 is 100000 but the cap wins.
	assert.Equal(t, 50000.0, q.PromoDiscount)
	assert.Equal(t, []uint{promo.ID}, q.AppliedPromoIDs)
	assert.InDelta(t, 495000, q.GrandTotal, 0.001)
}

func TestQuoteExhaustedVoucherSkipped(t *testing.T) {
	db := testdb.Open(t)
	start, end := window()
	limit := 1
	voucher := models.Voucher{
		Code: "WELCOME", VoucherType: models.DiscountFixed, DiscountValue: 100000,
		UsageLimit: &limit, UsageCount: 1,
		StartDate: start, EndDate: end, IsActive: true,
	}
	require.NoError(t, db.Create(&voucher).Error)

	lines := []*pricing.CartLine{cartLine(models.ItemProduct, 1, 300000, 1)}
	q, err := pricing.Compute(db, pricing.Input{Lines: lines, VoucherCodes: []string{"WELCOME"}})
	require.NoError(t, err)

	assert.Zero(t, q.VoucherDiscount)
	assert.Empty(t, q.AppliedVoucherCodes)
	assert.Equal(t, 300000.0, q.GrandTotal)
}

func TestQuoteFixedLineDiscountCappedAtLineTotal(t *testing.T) {
	db := testdb.Open(t)
	line := cartLine(models.ItemProduct, 1, 40000, 2)
	line.DiscountType = models.DiscountFixed
	line.DiscountValue = 100000 // exceeds the 80000 line total

	q, err := pricing.Compute(db, pricing.Input{Lines: []*pricing.CartLine{line}})
	require.NoError(t, err)

	assert.Equal(t, 80000.0, line.DiscountAmount)
	assert.Zero(t, q.Subtotal)
	assert.Zero(t, q.GrandTotal)
}

func TestQuotePercentageLineAndTransactionDiscount(t *testing.T) {
	db := testdb.Open(t)
	line := cartLine(models.ItemProduct, 1, 100000, 2)
	line.DiscountType = models.DiscountPercentage
	line.DiscountValue = 10 // 20000 off

	q, err := pricing.Compute(db, pricing.Input{
		Lines:         []*pricing.CartLine{line},
		DiscountType:  models.DiscountFixed,
		DiscountValue: 30000,
	})
	require.NoError(t, err)

	assert.Equal(t, 20000.0, q.LineDiscount)
	assert.Equal(t, 180000.0, q.Subtotal)
	assert.Equal(t, 30000.0, q.TransactionDiscount)
	assert.Equal(t, 150000.0, q.GrandTotal)
}

func TestQuotePromoSkippedWhenNoLineMatches(t *testing.T) {
	db := testdb.Open(t)
	start, end := window()
	promo := models.Promo{
		Name: "PT promo", PromoType: models.DiscountPercentage, DiscountValue: 50,
		ApplicableTo: "pt", StartDate: start, EndDate: end, PerUserLimit: 1, IsActive: true,
	}
	require.NoError(t, db.Create(&promo).Error)

	lines := []*pricing.CartLine{cartLine(models.ItemProduct, 1, 100000, 1)}
	q, err := pricing.Compute(db, pricing.Input{Lines: lines, PromoIDs: []uint{promo.ID}})
	require.NoError(t, err)

	assert.Zero(t, q.PromoDiscount)
	assert.Empty(t, q.AppliedPromoIDs)
}

func TestQuotePromoSkippedBelowMinPurchase(t *testing.T) {
	db := testdb.Open(t)
	start, end := window()
	promo := models.Promo{
		Name: "Big spender", PromoType: models.DiscountFixed, DiscountValue: 50000, MinPurchase: 1000000,
		ApplicableTo: "all", StartDate: start, EndDate: end, PerUserLimit: 1, IsActive: true,
	}
	require.NoError(t, db.Create(&promo).Error)

	lines := []*pricing.CartLine{cartLine(models.ItemProduct, 1, 100000, 1)}
	q, err := pricing.Compute(db, pricing.Input{Lines: lines, PromoIDs: []uint{promo.ID}})
	require.NoError(t, err)

	assert.Zero(t, q.PromoDiscount)
}

func TestQuoteFreeItemPromoUsesCheapestMatch(t *testing.T) {
	db := testdb.Open(t)
	start, end := window()
	promo := models.Promo{
		Name: "Free drink", PromoType: models.DiscountFreeItem,
		ApplicableTo: "product", StartDate: start, EndDate: end, PerUserLimit: 1, IsActive: true,
	}
	require.NoError(t, db.Create(&promo).Error)

	lines := []*pricing.CartLine{
		cartLine(models.ItemProduct, 1, 50000, 1),
		cartLine(models.ItemProduct, 2, 15000, 2),
	}
	q, err := pricing.Compute(db, pricing.Input{Lines: lines, PromoIDs: []uint{promo.ID}})
	require.NoError(t, err)

	assert.Equal(t, 15000.0, q.PromoDiscount)
}

func TestQuoteAllowListFiltersLines(t *testing.T) {
	db := testdb.Open(t)
	start, end := window()
	promo := models.Promo{
		Name: "Item 7 only", PromoType: models.DiscountPercentage, DiscountValue: 50,
		ApplicableTo: "product", ApplicableItems: "[7]",
		StartDate: start, EndDate: end, PerUserLimit: 1, IsActive: true,
	}
	require.NoError(t, db.Create(&promo).Error)

	lines := []*pricing.CartLine{
		cartLine(models.ItemProduct, 7, 100000, 1),
		cartLine(models.ItemProduct, 8, 100000, 1),
	}
	q, err := pricing.Compute(db, pricing.Input{Lines: lines, PromoIDs: []uint{promo.ID}})
	require.NoError(t, err)

	// Only item 7's subtotal is applicable.
	assert.Equal(t, 50000.0, q.PromoDiscount)
}

func TestQuoteStackedDiscountsNeverExceedSubtotal(t *testing.T) {
	db := testdb.Open(t)
	start, end := window()
	for _, name := range []string{"Slash A", "Slash B"} {
		promo := models.Promo{
			Name: name, PromoType: models.DiscountFixed, DiscountValue: 400000,
			ApplicableTo: "all", StartDate: start, EndDate: end, PerUserLimit: 1, IsActive: true,
		}
		require.NoError(t, db.Create(&promo).Error)
	}
	var promos []models.Promo
	require.NoError(t, db.Order("id").Find(&promos).Error)

	lines := []*pricing.CartLine{cartLine(models.ItemProduct, 1, 500000, 1)}
	q, err := pricing.Compute(db, pricing.Input{
		Lines:    lines,
		PromoIDs: []uint{promos[0].ID, promos[1].ID},
		Rates:    taxed(10),
	})
	require.NoError(t, err)

	// First promo takes 400000, the second is clamped to the remaining 100000.
	assert.Equal(t, 500000.0, q.PromoDiscount)
	totalDiscounts := q.LineDiscount + q.TransactionDiscount + q.PromoDiscount + q.VoucherDiscount
	assert.LessOrEqual(t, totalDiscounts, q.Subtotal+q.LineDiscount)
	assert.GreaterOrEqual(t, q.GrandTotal, 0.0)
	assert.Zero(t, q.GrandTotal)
}

func TestQuotePerUserLimitConsultsLedger(t *testing.T) {
	db := testdb.Open(t)
	start, end := window()
	promo := models.Promo{
		Name: "Once each", PromoType: models.DiscountFixed, DiscountValue: 10000,
		ApplicableTo: "all", StartDate: start, EndDate: end, PerUserLimit: 1, IsActive: true,
	}
	require.NoError(t, db.Create(&promo).Error)

	userID := uint(42)
	require.NoError(t, db.Create(&models.DiscountUsage{
		DiscountType: "promo", DiscountID: promo.ID, UserID: &userID, TransactionID: 1, Amount: 10000, UsedAt: time.Now(),
	}).Error)

	lines := []*pricing.CartLine{cartLine(models.ItemProduct, 1, 100000, 1)}
	q, err := pricing.Compute(db, pricing.Input{UserID: &userID, Lines: lines, PromoIDs: []uint{promo.ID}})
	require.NoError(t, err)
	assert.Zero(t, q.PromoDiscount)

	// A walk-in buyer has no usage history to check against.
	q, err = pricing.Compute(db, pricing.Input{Lines: lines, PromoIDs: []uint{promo.ID}})
	require.NoError(t, err)
	assert.Equal(t, 10000.0, q.PromoDiscount)
}
