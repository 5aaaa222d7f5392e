package models

import (
	"time"
)

// Comment represents one entry in a proposal's discussion thread.
// Comments are append-mostly: edits are allowed only by the author and only
// while no later comment exists in the thread; deletion is unsupported to
// preserve the audit trail.
type Comment struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	ProposalID  uint         `gorm:"not null;index" json:"proposal_id"`
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	UserName    string       `gorm:"not null" json:"user_name"` // snapshot at write time, not a live join
	Content     string       `gorm:"type:text;not null" json:"content"`
	IsEdited    bool         `gorm:"not null;default:false" json:"is_edited"`
	Attachments []Attachment `gorm:"foreignKey:CommentID" json:"attachments,omitempty"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName specifies the table name for the Comment model
func (Comment) TableName() string {
	return "comments"
}

// Attachment represents a file linked to a comment. The record is created
// only after the underlying bytes are confirmed uploaded.
type Attachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CommentID  uint      `gorm:"not null;index" json:"comment_id"`
	FileName   string    `gorm:"not null" json:"file_name"`
	MimeType   string    `gorm:"not null" json:"mime_type"`
	Size       int64     `gorm:"not null" json:"size"`
	StorageKey string    `gorm:"not null" json:"storage_key"` // opaque object-storage key
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the Attachment model
func (Attachment) TableName() string {
	return "attachments"
}
