package models

import (
	"time"
)

// Entitlement statuses.
const (
	GrantActive    = "active"
	GrantExpired   = "expired"
	GrantCancelled = "cancelled"
	GrantFrozen    = "frozen"
	GrantCompleted = "completed"
)

// MembershipGrant - an activated membership period (or visit quota). Exists
// only for paid transactions.
type MembershipGrant struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"index" json:"user_id"`
	PackageID      uint       `json:"package_id"`
	TransactionID  uint       `gorm:"index" json:"transaction_id"`
	MembershipCode string     `gorm:"uniqueIndex;size:40" json:"membership_code"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`        // nil for visit-based packages
	VisitRemaining *int       `json:"visit_remaining"` // nil for duration-based packages
	Status         string     `gorm:"default:active" json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ClassPassGrant - an activated class-pass bundle.
type ClassPassGrant struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	PackageID     uint      `json:"package_id"`
	TransactionID uint      `gorm:"index" json:"transaction_id"`
	TotalClasses  int       `json:"total_classes"`
	UsedClasses   int       `json:"used_classes"`
	StartDate     time.Time `json:"start_date"`
	ExpireDate    time.Time `json:"expire_date"`
	Status        string    `gorm:"default:active" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// PTSessionGrant - an activated personal-training bundle.
type PTSessionGrant struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	PackageID     uint      `json:"package_id"`
	TransactionID uint      `gorm:"index" json:"transaction_id"`
	TrainerID     uint      `json:"trainer_id"`
	TotalSessions int       `json:"total_sessions"`
	UsedSessions  int       `json:"used_sessions"`
	StartDate     time.Time `json:"start_date"`
	ExpireDate    time.Time `json:"expire_date"`
	Status        string    `gorm:"default:active" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
