package transactions_test

import (
	"testing"
	"time"

	"gym-backoffice/internal/catalog"
	"gym-backoffice/internal/models"
	"gym-backoffice/internal/pricing"
	"gym-backoffice/internal/testdb"
	"gym-backoffice/internal/transactions"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture is the minimal world a checkout needs: a branch, a member, a staff
// account, one stocked product and one membership package.
type fixture struct {
	db      *gorm.DB
	branch  models.Branch
	member  models.User
	staff   models.User
	product models.Product
	pkg     models.MembershipPackage
}

func seed(t *testing.T, stock int) *fixture {
	t.Helper()
	f := &fixture{db: testdb.Open(t)}

	f.branch = models.Branch{Name: "Jakarta HQ", Code: "JKT", IsActive: true}
	require.NoError(t, f.db.Create(&f.branch).Error)

	f.member = models.User{Name: "Dina", Email: "dina@example.com", PasswordHash: "x", Role: "member"}
	require.NoError(t, f.db.Create(&f.member).Error)
	f.staff = models.User{Name: "Rudi", Email: "rudi@example.com", PasswordHash: "x", Role: "staff"}
	require.NoError(t, f.db.Create(&f.staff).Error)

	f.product = models.Product{Name: "Protein Shake", Price: 40000, IsActive: true}
	require.NoError(t, f.db.Create(&f.product).Error)
	require.NoError(t, f.db.Create(&models.BranchStock{
		BranchID: f.branch.ID, ProductID: f.product.ID, Stock: stock,
	}).Error)

	f.pkg = models.MembershipPackage{
		Name: "Gold Monthly", Price: 500000, PackageType: "duration", DurationDays: 30, IsActive: true,
	}
	require.NoError(t, f.db.Create(&f.pkg).Error)

	return f
}

type cartEntry struct {
	itemType string
	itemID   uint
	quantity int
}

// checkout resolves the cart, prices it and persists a pending transaction,
// mirroring what the HTTP handler does.
func (f *fixture) checkout(t *testing.T, promoIDs []uint, entries ...cartEntry) *models.Transaction {
	t.Helper()

	var lines []*pricing.CartLine
	for _, e := range entries {
		item, err := catalog.Resolve(f.db, e.itemType, e.itemID, f.branch.ID)
		require.NoError(t, err)
		lines = append(lines, &pricing.CartLine{Item: item, Quantity: e.quantity})
	}

	q, err := pricing.Compute(f.db, pricing.Input{
		UserID:   &f.member.ID,
		Lines:    lines,
		PromoIDs: promoIDs,
	})
	require.NoError(t, err)

	trx, err := transactions.Create(f.db, transactions.CreateInput{
		Branch:        &f.branch,
		UserID:        &f.member.ID,
		PaymentMethod: "qris",
	}, lines, q)
	require.NoError(t, err)
	return trx
}

func (f *fixture) stockAt(t *testing.T) int {
	t.Helper()
	var bs models.BranchStock
	require.NoError(t, f.db.Where("branch_id = ? AND product_id = ?", f.branch.ID, f.product.ID).First(&bs).Error)
	return bs.Stock
}

func (f *fixture) reload(t *testing.T, id uint) models.Transaction {
	t.Helper()
	var trx models.Transaction
	require.NoError(t, f.db.Preload("Lines").First(&trx, id).Error)
	return trx
}

func (f *fixture) activePromo(t *testing.T) models.Promo {
	t.Helper()
	now := time.Now()
	promo := models.Promo{
		Name: "Grand opening", PromoType: models.DiscountFixed, DiscountValue: 50000,
		ApplicableTo: "all", StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
		PerUserLimit: 1, IsActive: true,
	}
	require.NoError(t, f.db.Create(&promo).Error)
	return promo
}
