package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/stretchr/testify/assert"
)

func TestGetCaseAnalytics(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	customer := createTestCustomer(t)

	createTestCase(t, customer.ID)
	createTestCase(t, customer.ID)
	closed := createTestCase(t, customer.ID)
	closed.Status = models.CaseStatusClosed
	assert.NoError(t, database.Save(closed).Error)

	_, c, rec := setupEcho(http.MethodGet, "/api/analytics/cases", nil)
	withUser(c, admin)

	assert.NoError(t, GetCaseAnalytics(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool          `json:"success"`
		Data    CaseAnalytics `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	assert.Equal(t, int64(3), envelope.Data.Overview.TotalCases)
	assert.Equal(t, int64(2), envelope.Data.Overview.OpenCases)
	assert.Equal(t, int64(1), envelope.Data.Overview.ClosedCases)

	// The status breakdown must account for every case
	var byStatus int64
	for _, bucket := range envelope.Data.ByStatus {
		byStatus += bucket.Count
	}
	assert.Equal(t, envelope.Data.Overview.TotalCases, byStatus)

	assert.Len(t, envelope.Data.ByClient, 1)
	assert.Equal(t, customer.ID, envelope.Data.ByClient[0].ClientID)
	assert.Equal(t, int64(3), envelope.Data.ByClient[0].Count)
	assert.Len(t, envelope.Data.CasePerformance, 3)
}

func TestGetCaseAnalyticsDateRange(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	customer := createTestCustomer(t)

	createTestCase(t, customer.ID)
	old := createTestCase(t, customer.ID)
	past := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	old.FilingDate = &past
	assert.NoError(t, database.Save(old).Error)

	_, c, rec := setupEcho(http.MethodGet, "/api/analytics/cases?startDate=2020-01-01", nil)
	withUser(c, admin)

	assert.NoError(t, GetCaseAnalytics(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data CaseAnalytics `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	assert.Equal(t, int64(1), envelope.Data.Overview.TotalCases)
	var byStatus int64
	for _, bucket := range envelope.Data.ByStatus {
		byStatus += bucket.Count
	}
	assert.Equal(t, envelope.Data.Overview.TotalCases, byStatus)
}

func TestGetDashboardAnalytics(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	attorney := createTestUser(t, models.RoleAttorney)
	customer := createTestCustomer(t)
	caseRecord := createTestCase(t, customer.ID)

	createTestTimeEntry(t, caseRecord.ID, attorney.ID, 2, 100, true)
	invoice := &models.Invoice{
		CustomerID:    customer.ID,
		InvoiceNumber: "INV-00001",
		TotalAmount:   500,
		Status:        models.InvoiceStatusPaid,
	}
	assert.NoError(t, database.Create(invoice).Error)

	_, c, rec := setupEcho(http.MethodGet, "/api/analytics/dashboard", nil)
	withUser(c, admin)

	assert.NoError(t, GetDashboardAnalytics(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool               `json:"success"`
		Data    DashboardAnalytics `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	assert.Equal(t, int64(1), envelope.Data.Cases.Total)
	assert.Equal(t, int64(1), envelope.Data.Customers.Total)
	assert.Equal(t, int64(1), envelope.Data.Customers.Active)
	assert.Equal(t, 500.0, envelope.Data.Billing.TotalBilled)
	assert.Equal(t, 500.0, envelope.Data.Billing.TotalPaid)
	assert.Equal(t, 200.0, envelope.Data.Billing.UnbilledAmount)
	assert.Equal(t, 2.0, envelope.Data.Billing.UnbilledHours)
	assert.Len(t, envelope.Data.RecentCases, 1)
}
