package models

import (
	"time"

	"gorm.io/gorm"
)

// Inquiry statuses
const (
	InquiryStatusNew            = "new"
	InquiryStatusReviewing      = "reviewing"
	InquiryStatusProposalSent   = "proposal_sent"
	InquiryStatusNegotiating    = "negotiating"
	InquiryStatusAccepted       = "accepted"
	InquiryStatusProjectSetup   = "project_setup"
	InquiryStatusPaymentPending = "payment_pending"
	InquiryStatusPaid           = "paid"
	InquiryStatusConverted      = "converted"
	InquiryStatusRejected       = "rejected"
	InquiryStatusArchived       = "archived"
)

// Inquiry represents a prospective client's initial request, pre-pricing
type Inquiry struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	InquiryNumber string `gorm:"uniqueIndex;not null" json:"inquiry_number"` // immutable, assigned at creation
	Status        string `gorm:"not null;default:'new';index" json:"status"`

	// Contact snapshot, captured at submission time; editable only while status = new
	ContactName    string `gorm:"not null" json:"contact_name"`
	ContactEmail   string `gorm:"not null" json:"contact_email"`
	ContactCompany string `json:"contact_company"`
	ContactPhone   string `json:"contact_phone"`
	ProjectNotes   string `gorm:"type:text" json:"project_notes"`

	// Quiz answers
	Niche           string `json:"niche"`
	Audience        string `json:"audience"`
	Style           string `json:"style"`
	Mood            string `json:"mood"`
	DurationSeconds int    `json:"duration_seconds"`

	RecommendedVideoType string `json:"recommended_video_type"`

	ClientUserID *uint `gorm:"index" json:"client_user_id,omitempty"` // nullable, owner when the client has an account
	ClientUser   *User `gorm:"foreignKey:ClientUserID" json:"client_user,omitempty"`

	ProposalID           *uint      `gorm:"index" json:"proposal_id,omitempty"` // at most one live proposal pointer
	ConvertedToProjectID *uint      `json:"converted_to_project_id,omitempty"`
	ConvertedAt          *time.Time `json:"converted_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Inquiry model
func (Inquiry) TableName() string {
	return "inquiries"
}

// IsTerminal reports whether the inquiry can no longer transition
func (i *Inquiry) IsTerminal() bool {
	return i.Status == InquiryStatusRejected || i.Status == InquiryStatusArchived || i.Status == InquiryStatusConverted
}
