package services

import (
	"encoding/json"
	"time"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"gorm.io/gorm"
)

// AuditContext carries request metadata into audit records
type AuditContext struct {
	UserID    string
	IPAddress string
	UserAgent string
}

// RecordAudit inserts one audit-log row on the given transaction handle.
// It is called inside the same transaction as the mutation it describes, so
// the audit record commits or rolls back together with the change.
func RecordAudit(tx *gorm.DB, ctx AuditContext, action, entityType, entityID string, details interface{}) error {
	var detailsJSON string
	if details != nil {
		if bytes, err := json.Marshal(details); err == nil {
			detailsJSON = string(bytes)
		}
	}

	auditLog := models.AuditLog{
		UserID:     ptrIfNotEmpty(ctx.UserID),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    detailsJSON,
		IPAddress:  ctx.IPAddress,
		UserAgent:  ctx.UserAgent,
	}

	return tx.Create(&auditLog).Error
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// AuditLogFilters contains filter options for audit log queries
type AuditLogFilters struct {
	UserID     string
	EntityType string
	EntityID   string
	Action     string
	DateFrom   time.Time
	DateTo     time.Time
}

// GetAuditLogs retrieves paginated audit logs, newest first
func GetAuditLogs(db *gorm.DB, filters AuditLogFilters, limit, offset int) ([]models.AuditLog, int64, error) {
	query := db.Model(&models.AuditLog{})

	// Apply filters
	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.EntityType != "" {
		query = query.Where("entity_type = ?", filters.EntityType)
	}
	if filters.EntityID != "" {
		query = query.Where("entity_id = ?", filters.EntityID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filters.DateTo)
	}

	// Count total
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	err := query.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error

	return logs, total, err
}

// GetEntityAuditHistory retrieves the audit history for a specific entity
func GetEntityAuditHistory(db *gorm.DB, entityType, entityID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
