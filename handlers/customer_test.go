package handlers

import (
	"net/http"
	"testing"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateCustomer(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)

	t.Run("Valid creation writes customer and audit row together", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{
			"name":           "Northwind Legal Clients",
			"contact_person": "Ada Park",
			"contact_number": "+1-555-0177",
			"email":          "ada@northwind.example",
		})
		_, c, rec := setupEcho(http.MethodPost, "/api/customers", body)
		withUser(c, admin)

		err := CreateCustomer(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.True(t, envelope.Success)

		var stored models.Customer
		assert.NoError(t, database.First(&stored, "email = ?", "ada@northwind.example").Error)
		assert.Equal(t, models.CustomerStatusProspect, stored.Status)
		assert.Contains(t, stored.CustomerID, "CUST-")
		assert.Equal(t, int64(1), countAuditRows(t, models.AuditCustomerCreated))
	})

	t.Run("Missing required fields rejected", func(t *testing.T) {
		body := jsonBody(t, map[string]interface{}{"name": "No Contact"})
		_, c, rec := setupEcho(http.MethodPost, "/api/customers", body)
		withUser(c, admin)

		err := CreateCustomer(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, int64(1), countAuditRows(t, models.AuditCustomerCreated))
	})
}

func TestGetCustomersFiltering(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)

	createTestCustomer(t)
	prospect := createTestCustomer(t)
	prospect.Status = models.CustomerStatusProspect
	assert.NoError(t, database.Save(prospect).Error)

	t.Run("No filters returns everything", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/customers", nil)
		withUser(c, admin)

		assert.NoError(t, GetCustomers(c))
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, 2, *envelope.Count)
	})

	t.Run("Each added filter narrows the set", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/customers?status=Active", nil)
		withUser(c, admin)

		assert.NoError(t, GetCustomers(c))
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, 1, *envelope.Count)

		_, c2, rec2 := setupEcho(http.MethodGet,
			"/api/customers?status=Active&search=no-such-customer", nil)
		withUser(c2, admin)

		assert.NoError(t, GetCustomers(c2))
		envelope2 := decodeEnvelope(t, rec2)
		assert.Equal(t, 0, *envelope2.Count)
	})
}

func TestDeleteCustomerSoftDelete(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, models.RoleAdmin)
	customer := createTestCustomer(t)

	_, c, rec := setupEcho(http.MethodDelete, "/api/customers/"+customer.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(customer.ID)
	withUser(c, admin)

	assert.NoError(t, DeleteCustomer(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Excluded from default reads
	var found models.Customer
	err := database.First(&found, "id = ?", customer.ID).Error
	assert.Error(t, err)

	// Still present unscoped
	assert.NoError(t, database.Unscoped().First(&found, "id = ?", customer.ID).Error)
	assert.True(t, found.DeletedAt.Valid)
	assert.Equal(t, int64(1), countAuditRows(t, models.AuditCustomerDeleted))
}
