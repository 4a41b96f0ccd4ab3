package handlers

import (
	"net/http"
	"testing"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateTimeEntryHoursBounds(t *testing.T) {
	database := setupTestDB(t)
	attorney := createTestUser(t, models.RoleAttorney)
	customer := createTestCustomer(t)
	caseRecord := createTestCase(t, customer.ID)

	createEntry := func(hours float64) int {
		body := jsonBody(t, map[string]interface{}{
			"case_id":     caseRecord.ID,
			"description": "Reviewed filings",
			"hours":       hours,
		})
		_, c, rec := setupEcho(http.MethodPost, "/api/time-entries", body)
		withUser(c, attorney)
		assert.NoError(t, CreateTimeEntry(c))
		return rec.Code
	}

	t.Run("Zero hours rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, createEntry(0))
	})

	t.Run("Over a day rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, createEntry(25))
	})

	t.Run("Exactly a full day accepted", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, createEntry(24))

		var stored models.TimeEntry
		assert.NoError(t, database.First(&stored, "hours = ?", 24.0).Error)
		assert.Equal(t, 24.0, stored.Hours)
	})
}

func TestCreateTimeEntryBillableAmount(t *testing.T) {
	database := setupTestDB(t)
	attorney := createTestUser(t, models.RoleAttorney)
	customer := createTestCustomer(t)
	caseRecord := createTestCase(t, customer.ID)

	t.Run("Rate defaults to the user's rate", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{
			"case_id":     caseRecord.ID,
			"description": "Client call",
			"hours":       2,
		})
		_, c, rec := setupEcho(http.MethodPost, "/api/time-entries", body)
		withUser(c, attorney)

		assert.NoError(t, CreateTimeEntry(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var stored models.TimeEntry
		assert.NoError(t, database.Order("created_at DESC").First(&stored).Error)
		assert.Equal(t, attorney.HourlyRate, stored.HourlyRate)
		assert.Equal(t, 2*attorney.HourlyRate, stored.BillableAmount)
	})

	t.Run("Non-billable entries always carry a zero amount", func(t *testing.T) {
		billable := false
		body := jsonBody(t, map[string]interface{}{
			"case_id":     caseRecord.ID,
			"description": "Internal admin",
			"hours":       3,
			"billable":    billable,
			"hourly_rate": 400,
		})
		_, c, rec := setupEcho(http.MethodPost, "/api/time-entries", body)
		withUser(c, attorney)

		assert.NoError(t, CreateTimeEntry(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var stored models.TimeEntry
		assert.NoError(t, database.First(&stored, "billable = ?", false).Error)
		assert.Equal(t, 0.0, stored.BillableAmount)
		assert.Equal(t, 400.0, stored.HourlyRate)
	})
}

func TestUpdateTimeEntryInvoicedIsImmutable(t *testing.T) {
	database := setupTestDB(t)
	attorney := createTestUser(t, models.RoleAttorney)
	customer := createTestCustomer(t)
	caseRecord := createTestCase(t, customer.ID)
	entry := createTestTimeEntry(t, caseRecord.ID, attorney.ID, 4, 200, true)

	invoice := &models.Invoice{
		CustomerID:    customer.ID,
		InvoiceNumber: "INV-00042",
		TotalAmount:   800,
		Status:        models.InvoiceStatusSent,
	}
	assert.NoError(t, database.Create(invoice).Error)
	assert.NoError(t, database.Model(entry).Update("invoice_id", invoice.ID).Error)

	t.Run("Patch rejected", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{"hours": 5})
		_, c, rec := setupEcho(http.MethodPatch, "/api/time-entries/"+entry.ID, body)
		c.SetParamNames("id")
		c.SetParamValues(entry.ID)
		withUser(c, attorney)

		assert.NoError(t, UpdateTimeEntry(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Delete rejected", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodDelete, "/api/time-entries/"+entry.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(entry.ID)
		withUser(c, attorney)

		assert.NoError(t, DeleteTimeEntry(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGetUnbilledTimeEntriesGrouping(t *testing.T) {
	setupTestDB(t)
	attorney := createTestUser(t, models.RoleAttorney)
	customer := createTestCustomer(t)
	caseRecord := createTestCase(t, customer.ID)

	createTestTimeEntry(t, caseRecord.ID, attorney.ID, 2, 100, true)
	createTestTimeEntry(t, caseRecord.ID, attorney.ID, 3, 100, true)
	createTestTimeEntry(t, caseRecord.ID, attorney.ID, 1, 100, false) // excluded

	_, c, rec := setupEcho(http.MethodGet, "/api/time-entries/unbilled?groupBy=client", nil)
	withUser(c, attorney)

	assert.NoError(t, GetUnbilledTimeEntries(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, 2, *envelope.Count)
	assert.NotNil(t, envelope.Grouped)
}
