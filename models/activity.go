package models

import (
	"time"
)

// Activity is a best-effort activity-log record. Writes never block or fail
// the action that triggered them. ActorName is a snapshot at write time.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"not null;index" json:"type"`
	ActorID   uint      `gorm:"not null" json:"actor_id"`
	ActorName string    `gorm:"not null" json:"actor_name"`
	TargetID  *uint     `json:"target_id,omitempty"`
	Details   string    `gorm:"type:text" json:"details"` // JSON payload
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Activity model
func (Activity) TableName() string {
	return "activities"
}

// Notification is a persisted fire-and-forget notification for a user
type Notification struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	Type           string     `gorm:"not null" json:"type"`
	Title          string     `gorm:"not null" json:"title"`
	Message        string     `gorm:"type:text" json:"message"`
	TargetEntityID *uint      `json:"target_entity_id,omitempty"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
