package models

import (
	"encoding/json"
	"time"
)

// Transaction status state machine: pending -> paid | failed, paid -> refunded.
const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusFailed   = "failed"
	StatusRefunded = "refunded"
)

// Transaction - the checkout header. Created pending by checkout; entitlements
// and stock movements only happen at approval.
type Transaction struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	TransactionCode string  `gorm:"uniqueIndex;size:40" json:"transaction_code"`
	BranchID        uint    `json:"branch_id"`
	UserID          *uint   `json:"user_id"` // registered buyer, nil for walk-in
	StaffID         *uint   `json:"staff_id"`
	CustomerName    string  `json:"customer_name"` // walk-in buyer name
	Subtotal        float64 `json:"subtotal"`      // after line discounts
	LineDiscount    float64 `json:"line_discount"`

	DiscountType    string  `json:"discount_type"` // transaction-level discount
	DiscountValue   float64 `json:"discount_value"`
	DiscountAmount  float64 `json:"discount_amount"`
	PromoDiscount   float64 `json:"promo_discount"`
	AppliedPromos   string  `json:"applied_promos"` // JSON array of promo ids
	VoucherDiscount float64 `json:"voucher_discount"`
	AppliedVouchers string  `json:"applied_vouchers"` // JSON array of voucher codes

	TaxPercentage           float64 `json:"tax_percentage"`
	TaxAmount               float64 `json:"tax_amount"`
	ServiceChargePercentage float64 `json:"service_charge_percentage"`
	ServiceChargeAmount     float64 `json:"service_charge_amount"`
	GrandTotal              float64 `json:"grand_total"`

	PaymentMethod string     `json:"payment_method"`
	Status        string     `gorm:"default:pending;index" json:"status"`
	PaidAmount    float64    `json:"paid_amount"`
	PaidAt        *time.Time `json:"paid_at"`
	ApprovedBy    *uint      `json:"approved_by"`
	ApprovedAt    *time.Time `json:"approved_at"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`

	Lines []TransactionLine `gorm:"foreignKey:TransactionID" json:"lines"`
}

// TransactionLine - one cart line frozen at checkout time. Metadata snapshots
// the catalog attributes so a later approval is unaffected by catalog edits.
type TransactionLine struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TransactionID  uint      `gorm:"index" json:"transaction_id"`
	ItemType       string    `json:"item_type"`
	ItemID         uint      `json:"item_id"`
	ItemName       string    `json:"item_name"`
	Quantity       int       `json:"quantity"`
	UnitPrice      float64   `json:"unit_price"`
	DiscountType   string    `json:"discount_type"`
	DiscountValue  float64   `json:"discount_value"`
	DiscountAmount float64   `json:"discount_amount"`
	Subtotal       float64   `json:"subtotal"`
	Metadata       string    `json:"metadata"`
	CreatedAt      time.Time `json:"created_at"`
}

// LineMeta - the catalog snapshot stored in TransactionLine.Metadata.
type LineMeta struct {
	PackageType  string `json:"package_type,omitempty"`
	DurationDays int    `json:"duration_days,omitempty"`
	VisitQuota   int    `json:"visit_quota,omitempty"`
	ClassCount   int    `json:"class_count,omitempty"`
	SessionCount int    `json:"session_count,omitempty"`
	ValidDays    int    `json:"valid_days,omitempty"`
	TrainerID    uint   `json:"trainer_id,omitempty"`
	IsRental     bool   `json:"is_rental,omitempty"`
}

func (l *TransactionLine) Meta() LineMeta {
	var m LineMeta
	if l.Metadata != "" {
		_ = json.Unmarshal([]byte(l.Metadata), &m)
	}
	return m
}

func (l *TransactionLine) SetMeta(m LineMeta) {
	raw, _ := json.Marshal(m)
	l.Metadata = string(raw)
}

// AppliedPromoIDs decodes the promo id list recorded at checkout.
func (t *Transaction) AppliedPromoIDs() []uint {
	if t.AppliedPromos == "" {
		return nil
	}
	var ids []uint
	_ = json.Unmarshal([]byte(t.AppliedPromos), &ids)
	return ids
}

// AppliedVoucherCodes decodes the voucher code list recorded at checkout.
func (t *Transaction) AppliedVoucherCodes() []string {
	if t.AppliedVouchers == "" {
		return nil
	}
	var codes []string
	_ = json.Unmarshal([]byte(t.AppliedVouchers), &codes)
	return codes
}
