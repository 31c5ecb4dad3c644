package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values for User.Role. The enum is closed: nothing outside these three
// ever reaches the database (role changes go through the admin surface only).
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleModerator || role == RoleAdmin
}

type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Role     string `gorm:"size:10;default:'user';not null" json:"role"`
	Bio      string `gorm:"size:500" json:"bio,omitempty"`

	// bcrypt hash of the current confirmation code; rotated on every signup
	// request for this identity. Never serialized.
	ConfirmationCode string `gorm:"column:confirmation_code_hash;not null" json:"-"`

	// Legacy escalation flag kept from the provisioning path. Policy checks
	// must use IsAdmin(), never compare Role directly.
	IsSuperuser bool `gorm:"default:false;not null" json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

// IsAdmin is the single admin predicate: explicit admin role or the legacy
// superuser flag, treated as equivalent everywhere.
func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin || user.IsSuperuser
}

func (user *User) IsModerator() bool {
	return user.Role == RoleModerator
}

func (User) TableName() string {
	return "users"
}
