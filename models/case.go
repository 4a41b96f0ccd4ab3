package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case status constants
const (
	CaseStatusNew        = "New"
	CaseStatusOpen       = "Open"
	CaseStatusInProgress = "In Progress"
	CaseStatusOnHold     = "On Hold"
	CaseStatusClosed     = "Closed"
)

// Case priority constants
const (
	CasePriorityHigh   = "High"
	CasePriorityMedium = "Medium"
	CasePriorityLow    = "Low"
)

// Case represents a legal case owned by exactly one customer
type Case struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// CaseNumber is the human-readable token generated at creation
	CaseNumber string `gorm:"uniqueIndex;not null" json:"case_number"`
	Title      string `gorm:"not null" json:"title"`
	CaseType   string `gorm:"not null;index" json:"case_type"`
	Status     string `gorm:"not null;default:New;index" json:"status"`
	Priority   string `gorm:"not null;default:Medium;index" json:"priority"` // High, Medium, Low

	// Ownership
	CustomerID string    `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	// Optional grouping under an engagement
	EngagementID *string     `gorm:"type:uuid;index" json:"engagement_id,omitempty"`
	Engagement   *Engagement `gorm:"foreignKey:EngagementID" json:"engagement,omitempty"`

	// Assignment
	AssignedAttorneyID *string `gorm:"type:uuid;index" json:"assigned_attorney_id,omitempty"`
	AssignedAttorney   *User   `gorm:"foreignKey:AssignedAttorneyID" json:"assigned_attorney,omitempty"`

	CourtName      string     `json:"court_name,omitempty"`
	FilingDate     *time.Time `gorm:"index" json:"filing_date,omitempty"`
	HearingDate    *time.Time `json:"hearing_date,omitempty"`
	Description    string     `gorm:"type:text" json:"description,omitempty"`
	EstimatedValue *float64   `json:"estimated_value,omitempty"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`

	CreatedBy *string `gorm:"type:uuid" json:"created_by,omitempty"`

	// Relationships
	TimeEntries     []TimeEntry      `gorm:"foreignKey:CaseID" json:"time_entries,omitempty"`
	ComplianceItems []ComplianceItem `gorm:"foreignKey:CaseID" json:"compliance_items,omitempty"`
	Documents       []Document       `gorm:"foreignKey:CaseID" json:"documents,omitempty"`
}

// BeforeCreate hook to generate UUID and default the filing date
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.FilingDate == nil {
		now := time.Now()
		c.FilingDate = &now
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}
