// Package catalog resolves sellable items (packages, products, rentals) into
// the price/quota attributes the checkout pipeline snapshots.
package catalog

import (
	"errors"

	"gym-backoffice/internal/apperr"
	"gym-backoffice/internal/models"

	"gorm.io/gorm"
)

// Item is the resolved view of one sellable thing. Side-effect free snapshot;
// everything the activator later needs is captured here.
type Item struct {
	Type  string
	ID    uint
	Name  string
	Price float64

	// product / rental
	IsRental bool
	Stock    int // branch stock, 0 when no branch row exists

	// membership
	PackageType  string
	DurationDays int
	VisitQuota   int

	// class pass / pt
	ClassCount   int
	SessionCount int
	ValidDays    int
}

// Meta converts the resolved attributes into the per-line snapshot persisted
// on the transaction line.
func (i *Item) Meta() models.LineMeta {
	return models.LineMeta{
		PackageType:  i.PackageType,
		DurationDays: i.DurationDays,
		VisitQuota:   i.VisitQuota,
		ClassCount:   i.ClassCount,
		SessionCount: i.SessionCount,
		ValidDays:    i.ValidDays,
		IsRental:     i.IsRental,
	}
}

// Resolve looks up an active item of the given type. For products it also
// reads the branch stock counter.
func Resolve(db *gorm.DB, itemType string, itemID uint, branchID uint) (*Item, error) {
	switch itemType {
	case models.ItemMembership:
		var pkg models.MembershipPackage
		if err := db.Where("id = ? AND is_active = ?", itemID, true).First(&pkg).Error; err != nil {
			return nil, notFound(err, itemType, itemID)
		}
		return &Item{
			Type: itemType, ID: pkg.ID, Name: pkg.Name, Price: pkg.Price,
			PackageType: pkg.PackageType, DurationDays: pkg.DurationDays, VisitQuota: pkg.VisitQuota,
		}, nil

	case models.ItemClassPass:
		var pkg models.ClassPackage
		if err := db.Where("id = ? AND is_active = ?", itemID, true).First(&pkg).Error; err != nil {
			return nil, notFound(err, itemType, itemID)
		}
		return &Item{
			Type: itemType, ID: pkg.ID, Name: pkg.Name, Price: pkg.Price,
			ClassCount: pkg.ClassCount, ValidDays: pkg.ValidDays,
		}, nil

	case models.ItemPTPackage:
		var pkg models.PTPackage
		if err := db.Where("id = ? AND is_active = ?", itemID, true).First(&pkg).Error; err != nil {
			return nil, notFound(err, itemType, itemID)
		}
		return &Item{
			Type: itemType, ID: pkg.ID, Name: pkg.Name, Price: pkg.Price,
			SessionCount: pkg.SessionCount, ValidDays: pkg.ValidDays,
		}, nil

	case models.ItemProduct, models.ItemRental:
		var product models.Product
		if err := db.Where("id = ? AND is_active = ?", itemID, true).First(&product).Error; err != nil {
			return nil, notFound(err, itemType, itemID)
		}
		item := &Item{
			Type: itemType, ID: product.ID, Name: product.Name, Price: product.Price,
			IsRental: product.IsRental,
		}
		if !product.IsRental {
			var bs models.BranchStock
			err := db.Where("branch_id = ? AND product_id = ?", branchID, itemID).First(&bs).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			item.Stock = bs.Stock
		}
		return item, nil

	default:
		return nil, apperr.BadRequest("INVALID_ITEM_TYPE", "Unknown item type %q", itemType)
	}
}

func notFound(err error, itemType string, itemID uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("ITEM_NOT_FOUND", "Item %s with ID %d not found", itemType, itemID)
	}
	return err
}
