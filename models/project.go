package models

import (
	"time"

	"gorm.io/gorm"
)

// Project represents a live project created when a paid, accepted inquiry
// converts
type Project struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	InquiryID  uint           `gorm:"not null;uniqueIndex" json:"inquiry_id"`
	ProposalID uint           `gorm:"not null;index" json:"proposal_id"`
	Name       string         `gorm:"not null" json:"name"`
	Status     string         `gorm:"not null;default:'active'" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Project model
func (Project) TableName() string {
	return "projects"
}
