package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeEntry records work performed on a case. BillableAmount is derived:
// hours times rate when billable, zero otherwise. A nil InvoiceID means
// the entry has not been billed yet.
type TimeEntry struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   *Case  `gorm:"foreignKey:CaseID" json:"case,omitempty"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Date        time.Time `gorm:"not null;index" json:"date"`
	Hours       float64   `gorm:"not null" json:"hours"` // 0 < hours <= 24
	Description string    `gorm:"type:text;not null" json:"description"`
	TaskType    string    `json:"task_type,omitempty"`

	Billable       bool    `gorm:"not null;default:true" json:"billable"`
	HourlyRate     float64 `gorm:"not null;default:0" json:"hourly_rate"`
	BillableAmount float64 `gorm:"not null;default:0" json:"billable_amount"`

	InvoiceID *string  `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	Invoice   *Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
}

// ComputeBillableAmount derives the billable amount from hours, rate and the
// billable flag. Non-billable entries always carry a zero amount.
func (te *TimeEntry) ComputeBillableAmount() {
	if te.Billable {
		te.BillableAmount = te.Hours * te.HourlyRate
	} else {
		te.BillableAmount = 0
	}
}

// IsInvoiced reports whether the entry is attached to an invoice
func (te *TimeEntry) IsInvoiced() bool {
	return te.InvoiceID != nil && *te.InvoiceID != ""
}

// BeforeCreate hook to generate UUID
func (te *TimeEntry) BeforeCreate(tx *gorm.DB) error {
	if te.ID == "" {
		te.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for TimeEntry model
func (TimeEntry) TableName() string {
	return "time_entries"
}
