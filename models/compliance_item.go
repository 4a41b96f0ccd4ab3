package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Compliance status constants
const (
	ComplianceStatusPending    = "pending"
	ComplianceStatusInProgress = "in_progress"
	ComplianceStatusCompleted  = "completed"
)

// Compliance priority constants, ordered critical > high > medium > low
const (
	CompliancePriorityCritical = "critical"
	CompliancePriorityHigh     = "high"
	CompliancePriorityMedium   = "medium"
	CompliancePriorityLow      = "low"
)

// ComplianceItem tracks a regulatory or procedural obligation on a case
type ComplianceItem struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   *Case  `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	Title          string `gorm:"not null" json:"title"`
	Description    string `gorm:"type:text" json:"description,omitempty"`
	ComplianceType string `gorm:"not null;index" json:"compliance_type"`
	Status         string `gorm:"not null;default:pending;index" json:"status"`   // pending, in_progress, completed
	Priority       string `gorm:"not null;default:medium;index" json:"priority"`  // critical, high, medium, low
	Requirements   string `gorm:"type:text" json:"requirements,omitempty"`

	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	AssignedToID *string `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	AssignedTo   *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CreatedBy    *string `gorm:"type:uuid" json:"created_by,omitempty"`
}

// CompliancePriorityRank returns the sort rank of a priority value (critical first)
func CompliancePriorityRank(priority string) int {
	switch priority {
	case CompliancePriorityCritical:
		return 1
	case CompliancePriorityHigh:
		return 2
	case CompliancePriorityMedium:
		return 3
	case CompliancePriorityLow:
		return 4
	}
	return 5
}

// BeforeCreate hook to generate UUID
func (ci *ComplianceItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == "" {
		ci.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ComplianceItem model
func (ComplianceItem) TableName() string {
	return "compliance_items"
}
