package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User role constants
const (
	RoleAdmin        = "admin"
	RoleAttorney     = "attorney"
	RoleLegalManager = "legal_manager"
	RoleStaff        = "staff"
	RoleViewer       = "viewer"
)

type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name       string  `gorm:"not null" json:"name"`
	Email      string  `gorm:"uniqueIndex;not null" json:"email"`
	Password   string  `gorm:"not null" json:"-"`
	Role       string  `gorm:"not null;default:staff" json:"role"` // admin, attorney, legal_manager, staff, viewer
	HourlyRate float64 `gorm:"not null;default:0" json:"hourly_rate"`
	Phone      string  `json:"phone,omitempty"`
}

// ValidRoles maps every accepted role value
var ValidRoles = map[string]bool{
	RoleAdmin:        true,
	RoleAttorney:     true,
	RoleLegalManager: true,
	RoleStaff:        true,
	RoleViewer:       true,
}

// IsValidRole reports whether role is one of the fixed role values
func IsValidRole(role string) bool {
	return ValidRoles[role]
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
