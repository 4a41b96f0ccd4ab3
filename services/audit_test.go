package services

import (
	"fmt"
	"testing"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestRecordAudit(t *testing.T) {
	database := setupServiceTestDB(t)
	auditCtx := AuditContext{IPAddress: "127.0.0.1", UserAgent: "test-agent"}

	t.Run("Commits with the mutation", func(t *testing.T) {
		customer := models.Customer{
			CustomerID:    GenerateCustomerID(),
			Name:          "Audited Client",
			ContactPerson: "Kim Doyle",
			ContactNumber: "+1-555-0101",
			Email:         "kim@example.com",
			Status:        models.CustomerStatusActive,
		}

		err := database.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&customer).Error; err != nil {
				return err
			}
			return RecordAudit(tx, auditCtx, models.AuditCustomerCreated, "customer", customer.ID,
				map[string]interface{}{"name": customer.Name})
		})
		assert.NoError(t, err)

		var logs []models.AuditLog
		assert.NoError(t, database.Find(&logs, "entity_id = ?", customer.ID).Error)
		assert.Len(t, logs, 1)
		assert.Equal(t, models.AuditCustomerCreated, logs[0].Action)
		assert.Equal(t, "127.0.0.1", logs[0].IPAddress)
		assert.Contains(t, logs[0].Details, "Audited Client")
	})

	t.Run("Rolls back with the mutation", func(t *testing.T) {
		customer := models.Customer{
			CustomerID:    GenerateCustomerID(),
			Name:          "Phantom Client",
			ContactPerson: "Nobody",
			ContactNumber: "+1-555-0102",
			Email:         "phantom@example.com",
			Status:        models.CustomerStatusActive,
		}

		err := database.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&customer).Error; err != nil {
				return err
			}
			if err := RecordAudit(tx, auditCtx, models.AuditCustomerCreated, "customer", customer.ID, nil); err != nil {
				return err
			}
			return fmt.Errorf("forced rollback")
		})
		assert.Error(t, err)

		var customerCount, logCount int64
		assert.NoError(t, database.Model(&models.Customer{}).
			Where("id = ?", customer.ID).Count(&customerCount).Error)
		assert.NoError(t, database.Model(&models.AuditLog{}).
			Where("entity_id = ?", customer.ID).Count(&logCount).Error)
		assert.Equal(t, int64(0), customerCount)
		assert.Equal(t, int64(0), logCount)
	})
}

func TestAuditLogImmutability(t *testing.T) {
	database := setupServiceTestDB(t)

	log := models.AuditLog{
		Action:     models.AuditCaseCreated,
		EntityType: "case",
		EntityID:   "case-1",
	}
	assert.NoError(t, database.Create(&log).Error)

	t.Run("Updates rejected", func(t *testing.T) {
		log.Action = models.AuditCaseDeleted
		err := database.Save(&log).Error
		assert.Error(t, err)

		var stored models.AuditLog
		assert.NoError(t, database.First(&stored, "id = ?", log.ID).Error)
		assert.Equal(t, models.AuditCaseCreated, stored.Action)
	})

	t.Run("Deletes rejected", func(t *testing.T) {
		err := database.Delete(&models.AuditLog{}, "id = ?", log.ID).Error
		assert.Error(t, err)

		var count int64
		assert.NoError(t, database.Model(&models.AuditLog{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestGetAuditLogsFilters(t *testing.T) {
	database := setupServiceTestDB(t)

	for i := 0; i < 3; i++ {
		assert.NoError(t, database.Create(&models.AuditLog{
			Action:     models.AuditCaseCreated,
			EntityType: "case",
			EntityID:   fmt.Sprintf("case-%d", i),
		}).Error)
	}
	assert.NoError(t, database.Create(&models.AuditLog{
		Action:     models.AuditInvoiceCreated,
		EntityType: "invoice",
		EntityID:   "invoice-1",
	}).Error)

	logs, total, err := GetAuditLogs(database, AuditLogFilters{EntityType: "case"}, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 3)

	logs, total, err = GetAuditLogs(database, AuditLogFilters{}, 2, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, logs, 2)

	history, err := GetEntityAuditHistory(database, "invoice", "invoice-1")
	assert.NoError(t, err)
	assert.Len(t, history, 1)
}
