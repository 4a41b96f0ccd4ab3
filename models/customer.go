package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer status constants
const (
	CustomerStatusActive   = "Active"
	CustomerStatusInactive = "Inactive"
	CustomerStatusProspect = "Prospect"
	CustomerStatusFormer   = "Former Client"
)

// Customer represents a client of the practice
type Customer struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// CustomerID is the human-readable token generated at creation (CUST-...)
	CustomerID    string `gorm:"uniqueIndex;not null" json:"customer_id"`
	Name          string `gorm:"not null" json:"name"`
	ContactPerson string `gorm:"not null" json:"contact_person"`
	ContactNumber string `gorm:"not null" json:"contact_number"`
	Email         string `gorm:"not null;index" json:"email"`
	Industry      string `json:"industry,omitempty"`
	Status        string `gorm:"not null;default:Prospect;index" json:"status"` // Active, Inactive, Prospect, Former Client
	Address       string `json:"address,omitempty"`

	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	CreatedBy        *string    `gorm:"type:uuid" json:"created_by,omitempty"`

	// Relationships
	Cases       []Case       `gorm:"foreignKey:CustomerID;references:ID" json:"cases,omitempty"`
	Engagements []Engagement `gorm:"foreignKey:CustomerID;references:ID" json:"engagements,omitempty"`
}

// ValidCustomerStatuses maps accepted customer status values
var ValidCustomerStatuses = map[string]bool{
	CustomerStatusActive:   true,
	CustomerStatusInactive: true,
	CustomerStatusProspect: true,
	CustomerStatusFormer:   true,
}

// IsValidCustomerStatus reports whether status is an accepted value
func IsValidCustomerStatus(status string) bool {
	return ValidCustomerStatuses[status]
}

// BeforeCreate hook to generate UUID and set registration date
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.RegistrationDate == nil {
		now := time.Now()
		c.RegistrationDate = &now
	}
	return nil
}

// TableName specifies the table name for Customer model
func (Customer) TableName() string {
	return "customers"
}
