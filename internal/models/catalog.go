package models

import (
	"time"
)

// Item types a transaction line can reference.
const (
	ItemMembership = "membership"
	ItemClassPass  = "class_pass"
	ItemPTPackage  = "pt_package"
	ItemProduct    = "product"
	ItemRental     = "rental"
)

// MembershipPackage - either duration based (end date) or visit based (quota).
type MembershipPackage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	PackageType  string    `gorm:"default:duration" json:"package_type"` // 'duration' or 'visit'
	DurationDays int       `json:"duration_days"`
	VisitQuota   int       `json:"visit_quota"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ClassPackage - a bundle of group class credits.
type ClassPackage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	ClassCount int       `json:"class_count"`
	ValidDays  int       `json:"valid_days"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// PTPackage - a bundle of personal training sessions.
type PTPackage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	SessionCount int       `json:"session_count"`
	ValidDays    int       `json:"valid_days"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product - retail goods and rentals. Stock lives per branch in BranchStock;
// rentals are not stock tracked.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	IsRental  bool      `gorm:"default:false" json:"is_rental"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// BranchStock - per (branch, product) inventory counter. Mutated only through
// conditional updates so stock never goes negative.
type BranchStock struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BranchID  uint `gorm:"uniqueIndex:idx_branch_product" json:"branch_id"`
	ProductID uint `gorm:"uniqueIndex:idx_branch_product" json:"product_id"`
	Stock     int  `json:"stock"`
	MinStock  int  `json:"min_stock"`
}

// StockLog - audit trail for every stock movement.
type StockLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductID     uint      `json:"product_id"`
	BranchID      uint      `json:"branch_id"`
	Type          string    `json:"type"` // 'in' or 'out'
	Quantity      int       `json:"quantity"`
	StockBefore   int       `json:"stock_before"`
	StockAfter    int       `json:"stock_after"`
	ReferenceType string    `json:"reference_type"` // 'transaction'
	ReferenceID   uint      `json:"reference_id"`
	Notes         string    `json:"notes"`
	CreatedBy     uint      `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}
