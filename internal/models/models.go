package models

import (
	"time"
)

// User - member, staff or admin. Members buy, staff approve.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex;size:100" json:"email"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Phone        string    `json:"phone"`
	Role         string    `json:"role"` // 'member', 'staff', 'admin'
	CreatedAt    time.Time `json:"created_at"`
}

// Branch - a gym location. The branch code ends up inside transaction codes.
type Branch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Code      string    `gorm:"uniqueIndex;size:10" json:"code"`
	Address   string    `json:"address"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Setting - key/value business settings (tax, service charge).
type Setting struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Key   string `gorm:"uniqueIndex;size:50;column:key" json:"key"`
	Value string `json:"value"`
}
