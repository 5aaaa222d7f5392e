package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleClient         = "client"
	RoleTeamMember     = "team_member"
	RoleProjectManager = "project_manager"
	RoleSuperAdmin     = "super_admin"
)

// User represents a user in the system (client or staff)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Role      string         `gorm:"not null;default:'client'" json:"role"` // client, team_member, project_manager, super_admin
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user belongs to the internal team
func (u *User) IsStaff() bool {
	return u.Role == RoleTeamMember || u.Role == RoleProjectManager || u.Role == RoleSuperAdmin
}
