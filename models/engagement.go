package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Engagement status constants
const (
	EngagementStatusActive    = "active"
	EngagementStatusOnHold    = "on_hold"
	EngagementStatusCompleted = "completed"
	EngagementStatusCancelled = "cancelled"
)

// Engagement groups related cases for a customer under one billing arrangement
type Engagement struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CustomerID string    `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	Title          string  `gorm:"not null" json:"title"`
	Description    string  `gorm:"type:text" json:"description,omitempty"`
	EngagementType string  `gorm:"not null;index" json:"engagement_type"`
	Status         string  `gorm:"not null;default:active;index" json:"status"`
	EstimatedHours float64 `json:"estimated_hours,omitempty"`
	HourlyRate     float64 `json:"hourly_rate,omitempty"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	AssignedToID *string `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	AssignedTo   *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CreatedBy    *string `gorm:"type:uuid" json:"created_by,omitempty"`

	// Relationships
	Cases    []Case    `gorm:"foreignKey:EngagementID" json:"cases,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:EngagementID" json:"invoices,omitempty"`
}

// BeforeCreate hook to generate UUID
func (e *Engagement) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Engagement model
func (Engagement) TableName() string {
	return "engagements"
}
