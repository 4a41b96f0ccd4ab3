package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice status constants
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// InvoiceNumberPrefix is the fixed prefix of generated invoice numbers
const InvoiceNumberPrefix = "INV-"

// Invoice aggregates billable time for a customer. Paid invoices can never be
// deleted; deleting any other invoice detaches its time entries first.
type Invoice struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CustomerID string    `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	EngagementID *string     `gorm:"type:uuid;index" json:"engagement_id,omitempty"`
	Engagement   *Engagement `gorm:"foreignKey:EngagementID" json:"engagement,omitempty"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null" json:"invoice_number"` // INV-00001 scheme
	InvoiceDate   time.Time `gorm:"not null;index" json:"invoice_date"`
	DueDate       *time.Time `json:"due_date,omitempty"`

	LineItems      string  `gorm:"type:text" json:"line_items,omitempty"` // JSON encoded
	Subtotal       float64 `gorm:"not null;default:0" json:"subtotal"`
	TaxRate        float64 `gorm:"not null;default:0" json:"tax_rate"`
	TaxAmount      float64 `gorm:"not null;default:0" json:"tax_amount"`
	DiscountAmount float64 `gorm:"not null;default:0" json:"discount_amount"`
	TotalAmount    float64 `gorm:"not null" json:"total_amount"`
	Notes          string  `gorm:"type:text" json:"notes,omitempty"`
	Terms          string  `gorm:"type:text" json:"terms,omitempty"`

	Status string     `gorm:"not null;default:draft;index" json:"status"` // draft, sent, paid, overdue, cancelled
	SentAt *time.Time `json:"sent_at,omitempty"`
	PaidAt *time.Time `json:"paid_at,omitempty"`

	CreatedBy *string `gorm:"type:uuid" json:"created_by,omitempty"`

	// TimeEntries aggregated by this invoice (nullable back-reference)
	TimeEntries []TimeEntry `gorm:"foreignKey:InvoiceID" json:"time_entries,omitempty"`
}

// ValidInvoiceStatuses maps accepted invoice status values
var ValidInvoiceStatuses = map[string]bool{
	InvoiceStatusDraft:     true,
	InvoiceStatusSent:      true,
	InvoiceStatusPaid:      true,
	InvoiceStatusOverdue:   true,
	InvoiceStatusCancelled: true,
}

// IsValidInvoiceStatus reports whether status is an accepted value
func IsValidInvoiceStatus(status string) bool {
	return ValidInvoiceStatuses[status]
}

// BeforeCreate hook to generate UUID and default the invoice date
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.InvoiceDate.IsZero() {
		i.InvoiceDate = time.Now()
	}
	return nil
}

// TableName specifies the table name for Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceSequence is the single-row counter backing invoice number generation.
// The row is seeded from the highest existing INV- suffix and incremented with
// one atomic UPDATE inside the creating transaction, so two concurrent creates
// can never observe the same number.
type InvoiceSequence struct {
	ID         int   `gorm:"primarykey" json:"id"`
	LastNumber int64 `gorm:"not null" json:"last_number"`
}

// TableName specifies the table name for InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
