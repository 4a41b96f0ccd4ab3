package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/stretchr/testify/assert"
)

func TestGetEngagementsAggregates(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	attorney := createTestUser(t, models.RoleAttorney)
	customer := createTestCustomer(t)

	engagement := &models.Engagement{
		CustomerID:     customer.ID,
		Title:          "General Counsel Retainer",
		EngagementType: "retainer",
		Status:         models.EngagementStatusActive,
	}
	assert.NoError(t, database.Create(engagement).Error)

	caseRecord := createTestCase(t, customer.ID)
	caseRecord.EngagementID = &engagement.ID
	assert.NoError(t, database.Save(caseRecord).Error)

	createTestTimeEntry(t, caseRecord.ID, attorney.ID, 2, 100, true)
	createTestTimeEntry(t, caseRecord.ID, attorney.ID, 3, 100, false)

	_, c, rec := setupEcho(http.MethodGet, "/api/engagements", nil)
	withUser(c, admin)

	assert.NoError(t, GetEngagements(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []EngagementSummary `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 1)
	assert.Equal(t, int64(1), envelope.Data[0].CaseCount)
	assert.Equal(t, 5.0, envelope.Data[0].TotalHours)
	assert.Equal(t, 200.0, envelope.Data[0].TotalBilled)
}

func TestCreateEngagement(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	customer := createTestCustomer(t)

	t.Run("Valid creation", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{
			"client_id":       customer.ID,
			"title":           "Regulatory Review",
			"engagement_type": "project",
			"estimated_hours": 40,
			"hourly_rate":     250,
		})
		_, c, rec := setupEcho(http.MethodPost, "/api/engagements", body)
		withUser(c, admin)

		assert.NoError(t, CreateEngagement(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var stored models.Engagement
		assert.NoError(t, database.First(&stored, "title = ?", "Regulatory Review").Error)
		assert.Equal(t, models.EngagementStatusActive, stored.Status)
		assert.Equal(t, int64(1), countAuditRows(t, models.AuditEngagementCreated))
	})

	t.Run("Unknown customer rejected", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{
			"client_id":       "no-such-customer",
			"title":           "Orphan",
			"engagement_type": "project",
		})
		_, c, rec := setupEcho(http.MethodPost, "/api/engagements", body)
		withUser(c, admin)

		assert.NoError(t, CreateEngagement(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetEngagementsByClient(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	mine := createTestCustomer(t)
	other := createTestCustomer(t)

	for _, customerID := range []string{mine.ID, mine.ID, other.ID} {
		engagement := &models.Engagement{
			CustomerID:     customerID,
			Title:          "Engagement",
			EngagementType: "retainer",
			Status:         models.EngagementStatusActive,
		}
		assert.NoError(t, database.Create(engagement).Error)
	}

	_, c, rec := setupEcho(http.MethodGet, "/api/engagements/client/"+mine.ID, nil)
	c.SetParamNames("clientId")
	c.SetParamValues(mine.ID)
	withUser(c, admin)

	assert.NoError(t, GetEngagementsByClient(c))
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, 2, *envelope.Count)
}
