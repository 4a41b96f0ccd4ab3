package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/stretchr/testify/assert"
)

func TestGetComplianceItemsPriorityOrdering(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	customer := createTestCustomer(t)
	caseRecord := createTestCase(t, customer.ID)

	for _, priority := range []string{
		models.CompliancePriorityLow,
		models.CompliancePriorityCritical,
		models.CompliancePriorityMedium,
		models.CompliancePriorityHigh,
	} {
		item := &models.ComplianceItem{
			CaseID:         caseRecord.ID,
			Title:          priority + " filing",
			ComplianceType: "filing",
			Status:         models.ComplianceStatusPending,
			Priority:       priority,
		}
		assert.NoError(t, database.Create(item).Error)
	}

	_, c, rec := setupEcho(http.MethodGet, "/api/compliance", nil)
	withUser(c, admin)

	assert.NoError(t, GetComplianceItems(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data  []models.ComplianceItem `json:"data"`
		Stats ComplianceStats         `json:"stats"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 4)
	assert.Equal(t, models.CompliancePriorityCritical, envelope.Data[0].Priority)
	assert.Equal(t, models.CompliancePriorityHigh, envelope.Data[1].Priority)
	assert.Equal(t, models.CompliancePriorityMedium, envelope.Data[2].Priority)
	assert.Equal(t, models.CompliancePriorityLow, envelope.Data[3].Priority)
	assert.Equal(t, int64(4), envelope.Stats.Pending)
}

func TestGetComplianceItemsOverdueFilter(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	customer := createTestCustomer(t)
	caseRecord := createTestCase(t, customer.ID)

	past := time.Now().AddDate(0, 0, -3)
	future := time.Now().AddDate(0, 0, 3)

	overdue := &models.ComplianceItem{
		CaseID: caseRecord.ID, Title: "Late filing", ComplianceType: "filing",
		Status: models.ComplianceStatusPending, Priority: models.CompliancePriorityHigh,
		DueDate: &past,
	}
	upcoming := &models.ComplianceItem{
		CaseID: caseRecord.ID, Title: "Upcoming filing", ComplianceType: "filing",
		Status: models.ComplianceStatusPending, Priority: models.CompliancePriorityMedium,
		DueDate: &future,
	}
	completedLate := &models.ComplianceItem{
		CaseID: caseRecord.ID, Title: "Done filing", ComplianceType: "filing",
		Status: models.ComplianceStatusCompleted, Priority: models.CompliancePriorityLow,
		DueDate: &past,
	}
	assert.NoError(t, database.Create(overdue).Error)
	assert.NoError(t, database.Create(upcoming).Error)
	assert.NoError(t, database.Create(completedLate).Error)

	t.Run("Overdue excludes completed and future items", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/compliance?dueDate=overdue", nil)
		withUser(c, admin)

		assert.NoError(t, GetComplianceItems(c))
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, 1, *envelope.Count)
	})

	t.Run("Upcoming window", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/compliance?dueDate=upcoming", nil)
		withUser(c, admin)

		assert.NoError(t, GetComplianceItems(c))
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, 1, *envelope.Count)
	})
}

func TestUpdateComplianceItemCompletionStamp(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	customer := createTestCustomer(t)
	caseRecord := createTestCase(t, customer.ID)

	item := &models.ComplianceItem{
		CaseID: caseRecord.ID, Title: "Annual report", ComplianceType: "report",
		Status: models.ComplianceStatusPending, Priority: models.CompliancePriorityMedium,
	}
	assert.NoError(t, database.Create(item).Error)

	body := jsonBody(t, map[string]interface{}{"status": models.ComplianceStatusCompleted})
	_, c, rec := setupEcho(http.MethodPatch, "/api/compliance/"+item.ID, body)
	c.SetParamNames("id")
	c.SetParamValues(item.ID)
	withUser(c, admin)

	assert.NoError(t, UpdateComplianceItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stored models.ComplianceItem
	assert.NoError(t, database.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, models.ComplianceStatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)
	assert.Equal(t, int64(1), countAuditRows(t, models.AuditComplianceUpdated))
}
