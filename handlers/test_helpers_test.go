package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/config"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/middleware"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/services"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	if services.Storage == nil {
		services.Storage = services.NewLocalStorage(t.TempDir())
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Engagement{},
		&models.Case{},
		&models.Document{},
		&models.ComplianceItem{},
		&models.TimeEntry{},
		&models.Invoice{},
		&models.InvoiceSequence{},
		&models.AuditLog{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set(middleware.ContextKeyConfig, &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

func jsonBody(t *testing.T, payload interface{}) io.Reader {
	bytes, err := json.Marshal(payload)
	assert.NoError(t, err)
	return strings.NewReader(string(bytes))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	var envelope Envelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func createTestUser(t *testing.T, role string) *models.User {
	hashed, err := services.HashPassword("test-password-123")
	assert.NoError(t, err)

	user := &models.User{
		Name:       "Test " + role,
		Email:      "test-" + role + "-" + uuid.New().String()[:8] + "@example.com",
		Password:   hashed,
		Role:       role,
		HourlyRate: 150,
	}
	assert.NoError(t, db.DB.Create(user).Error)
	return user
}

func createTestCustomer(t *testing.T) *models.Customer {
	customer := &models.Customer{
		CustomerID:    services.GenerateCustomerID(),
		Name:          "Acme Holdings " + uuid.New().String()[:8],
		ContactPerson: "Jordan Reyes",
		ContactNumber: "+1-555-0100",
		Email:         "contact-" + uuid.New().String()[:8] + "@acme.example",
		Status:        models.CustomerStatusActive,
	}
	assert.NoError(t, db.DB.Create(customer).Error)
	return customer
}

func createTestCase(t *testing.T, customerID string) *models.Case {
	caseRecord := &models.Case{
		CaseNumber: services.GenerateCaseNumber(),
		Title:      "Contract Dispute " + uuid.New().String()[:8],
		CaseType:   "Litigation",
		Status:     models.CaseStatusOpen,
		Priority:   models.CasePriorityMedium,
		CustomerID: customerID,
	}
	assert.NoError(t, db.DB.Create(caseRecord).Error)
	return caseRecord
}

func createTestTimeEntry(t *testing.T, caseID, userID string, hours, rate float64, billable bool) *models.TimeEntry {
	entry := &models.TimeEntry{
		CaseID:      caseID,
		UserID:      userID,
		Date:        time.Now(),
		Hours:       hours,
		Description: "Drafted motion",
		Billable:    billable,
		HourlyRate:  rate,
	}
	entry.ComputeBillableAmount()
	assert.NoError(t, db.DB.Create(entry).Error)
	return entry
}

func withUser(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

func countAuditRows(t *testing.T, action string) int64 {
	var count int64
	assert.NoError(t, db.DB.Model(&models.AuditLog{}).Where("action = ?", action).Count(&count).Error)
	return count
}
