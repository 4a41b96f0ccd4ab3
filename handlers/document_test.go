package handlers

import (
	"net/http"
	"testing"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateDocument(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	customer := createTestCustomer(t)
	caseRecord := createTestCase(t, customer.ID)

	t.Run("Requires at least one reference", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{
			"title":     "Unattached memo",
			"file_name": "memo.pdf",
			"file_path": "documents/memo.pdf",
		})
		_, c, rec := setupEcho(http.MethodPost, "/api/documents", body)
		withUser(c, admin)

		assert.NoError(t, CreateDocument(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Case-attached metadata registration", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{
			"title":     "Signed contract",
			"case_id":   caseRecord.ID,
			"file_name": "contract.pdf",
			"file_path": "documents/contract.pdf",
			"category":  "contracts",
		})
		_, c, rec := setupEcho(http.MethodPost, "/api/documents", body)
		withUser(c, admin)

		assert.NoError(t, CreateDocument(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var stored models.Document
		assert.NoError(t, database.First(&stored, "title = ?", "Signed contract").Error)
		assert.NotNil(t, stored.CaseID)
		assert.Equal(t, caseRecord.ID, *stored.CaseID)
		assert.Equal(t, admin.ID, *stored.UploadedByID)
		assert.Equal(t, int64(1), countAuditRows(t, models.AuditDocumentCreated))
	})

	t.Run("Unknown case rejected", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{
			"title":     "Bad reference",
			"case_id":   "no-such-case",
			"file_name": "x.pdf",
			"file_path": "documents/x.pdf",
		})
		_, c, rec := setupEcho(http.MethodPost, "/api/documents", body)
		withUser(c, admin)

		assert.NoError(t, CreateDocument(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetDocumentCountsAccess(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	customer := createTestCustomer(t)

	document := &models.Document{
		CustomerID: &customer.ID,
		Title:      "Engagement letter",
		FileName:   "letter.pdf",
		FilePath:   "documents/letter.pdf",
	}
	assert.NoError(t, database.Create(document).Error)

	for i := 0; i < 2; i++ {
		_, c, rec := setupEcho(http.MethodGet, "/api/documents/"+document.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(document.ID)
		withUser(c, admin)

		assert.NoError(t, GetDocument(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	var stored models.Document
	assert.NoError(t, database.First(&stored, "id = ?", document.ID).Error)
	assert.Equal(t, 2, stored.DownloadCount)
}

func TestDeleteDocumentSoftDelete(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	customer := createTestCustomer(t)

	document := &models.Document{
		CustomerID: &customer.ID,
		Title:      "Old filing",
		FileName:   "old.pdf",
		FilePath:   "documents/old.pdf",
	}
	assert.NoError(t, database.Create(document).Error)

	_, c, rec := setupEcho(http.MethodDelete, "/api/documents/"+document.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(document.ID)
	withUser(c, admin)

	assert.NoError(t, DeleteDocument(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var gone models.Document
	assert.Error(t, database.First(&gone, "id = ?", document.ID).Error)
	assert.NoError(t, database.Unscoped().First(&gone, "id = ?", document.ID).Error)
	assert.Equal(t, int64(1), countAuditRows(t, models.AuditDocumentDeleted))
}
