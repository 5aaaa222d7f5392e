package models

import (
	"time"

	"gorm.io/gorm"
)

// Proposal statuses
const (
	ProposalStatusSent             = "sent"
	ProposalStatusAccepted         = "accepted"
	ProposalStatusRejected         = "rejected"
	ProposalStatusChangesRequested = "changes_requested"
)

// Supported currencies
const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
)

// Proposal represents a priced, versioned offer tied to one inquiry
type Proposal struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	InquiryID uint   `gorm:"not null;index" json:"inquiry_id"` // immutable FK
	Status    string `gorm:"not null;default:'sent';index" json:"status"`
	Version   int    `gorm:"not null;default:1" json:"version"` // incremented on every resend

	Description  string        `gorm:"type:text;not null" json:"description"`
	Deliverables []Deliverable `gorm:"foreignKey:ProposalID" json:"deliverables"`

	Currency          string `gorm:"not null;default:'INR'" json:"currency"`
	TotalPrice        int64  `gorm:"not null" json:"total_price"` // minor currency units
	AdvancePercentage int    `gorm:"not null" json:"advance_percentage"`
	AdvanceAmount     int64  `gorm:"not null" json:"advance_amount"`
	BalanceAmount     int64  `gorm:"not null" json:"balance_amount"`
	RevisionsIncluded int    `gorm:"not null;default:0" json:"revisions_included"`

	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	RejectedAt *time.Time `json:"rejected_at,omitempty"`
	Feedback   *string    `gorm:"type:text" json:"feedback,omitempty"` // client-supplied on reject or revision request

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Proposal model
func (Proposal) TableName() string {
	return "proposals"
}

// Deliverable represents one line item of a proposal
type Deliverable struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	ProposalID              uint      `gorm:"not null;index" json:"proposal_id"`
	Name                    string    `gorm:"not null" json:"name"`
	Description             string    `gorm:"type:text;not null" json:"description"`
	EstimatedCompletionWeek int       `gorm:"not null" json:"estimated_completion_week"` // >= 1
	Position                int       `gorm:"not null;default:0" json:"position"`        // preserves list order
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Deliverable model
func (Deliverable) TableName() string {
	return "deliverables"
}

// ProposalEdit records every mutation of a proposal, including force-edits
type ProposalEdit struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProposalID     uint      `gorm:"not null;index" json:"proposal_id"`
	EditorID       uint      `gorm:"not null" json:"editor_id"`
	EditorName     string    `gorm:"not null" json:"editor_name"` // snapshot at write time
	Forced         bool      `gorm:"not null;default:false" json:"forced"`
	PreviousStatus string    `gorm:"not null" json:"previous_status"`
	Justification  string    `gorm:"type:text" json:"justification"` // required when forced
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for the ProposalEdit model
func (ProposalEdit) TableName() string {
	return "proposal_edits"
}
