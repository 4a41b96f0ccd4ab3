package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action verbs written by mutating handlers
const (
	AuditUserRegistered   = "USER_REGISTERED"
	AuditUserUpdated      = "USER_UPDATED"
	AuditUserDeleted      = "USER_DELETED"
	AuditCustomerCreated  = "CUSTOMER_CREATED"
	AuditCustomerUpdated  = "CUSTOMER_UPDATED"
	AuditCustomerDeleted  = "CUSTOMER_DELETED"
	AuditCaseCreated      = "CASE_CREATED"
	AuditCaseUpdated      = "CASE_UPDATED"
	AuditCaseDeleted      = "CASE_DELETED"
	AuditEngagementCreated = "ENGAGEMENT_CREATED"
	AuditEngagementUpdated = "ENGAGEMENT_UPDATED"
	AuditEngagementDeleted = "ENGAGEMENT_DELETED"
	AuditDocumentCreated  = "DOCUMENT_CREATED"
	AuditDocumentUpdated  = "DOCUMENT_UPDATED"
	AuditDocumentDeleted  = "DOCUMENT_DELETED"
	AuditComplianceCreated = "COMPLIANCE_CREATED"
	AuditComplianceUpdated = "COMPLIANCE_UPDATED"
	AuditComplianceDeleted = "COMPLIANCE_DELETED"
	AuditTimeEntryCreated = "TIME_ENTRY_CREATED"
	AuditTimeEntryUpdated = "TIME_ENTRY_UPDATED"
	AuditTimeEntryDeleted = "TIME_ENTRY_DELETED"
	AuditInvoiceCreated   = "INVOICE_CREATED"
	AuditInvoiceUpdated   = "INVOICE_UPDATED"
	AuditInvoiceDeleted   = "INVOICE_DELETED"
)

// AuditLog is an append-only record of who changed what entity and when.
// Rows are written in the same transaction as the mutation they describe.
type AuditLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_audit_created_at" json:"created_at"`

	UserID *string `gorm:"type:uuid;index:idx_audit_user" json:"user_id,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Action     string `gorm:"not null;index:idx_audit_action" json:"action"`
	EntityType string `gorm:"not null;index:idx_audit_entity" json:"entity_type"`
	EntityID   string `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Details    string `gorm:"type:text" json:"details,omitempty"` // JSON encoded snapshot

	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// BeforeCreate generates the UUID
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of audit logs (immutability)
func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound
}

// BeforeDelete prevents deletion of audit logs (immutability)
func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
