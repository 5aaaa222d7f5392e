package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment types
const (
	PaymentTypeAdvance = "advance"
	PaymentTypeBalance = "balance"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment represents a payment record for a proposal, created only by the
// lifecycle orchestrator and mutated only by gateway verification or admin
// refund/manual-mark actions
type Payment struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ProposalID       uint           `gorm:"not null;index" json:"proposal_id"`
	PaymentType      string         `gorm:"not null" json:"payment_type"` // advance, balance
	Amount           int64          `gorm:"not null" json:"amount"`       // minor currency units
	Currency         string         `gorm:"not null" json:"currency"`
	Status           string         `gorm:"not null;default:'pending';index" json:"status"` // pending, completed, failed, refunded
	GatewayOrderID   string         `gorm:"uniqueIndex" json:"gateway_order_id"`
	GatewayPaymentID string         `json:"gateway_payment_id"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
