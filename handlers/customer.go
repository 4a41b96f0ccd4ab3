package handlers

import (
	"net/http"
	"time"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/middleware"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/services"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// customerFilteredQuery applies the recognized customer list filters as
// parameterized predicates. Both the row query and any companion query are
// built from this function so their predicates always match.
func customerFilteredQuery(c echo.Context) *gorm.DB {
	query := db.DB.Model(&models.Customer{})

	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"name LIKE ? OR email LIKE ? OR contact_person LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	return query
}

// GetCustomers returns customers matching the optional filters, newest first
func GetCustomers(c echo.Context) error {
	var customers []models.Customer
	if err := customerFilteredQuery(c).
		Order("created_at DESC").
		Find(&customers).Error; err != nil {
		return respondServerError(c, "Failed to fetch customers", err)
	}

	return respondList(c, http.StatusOK, customers, nil, nil, len(customers))
}

// GetCustomer returns a single customer by id
func GetCustomer(c echo.Context) error {
	var customer models.Customer
	if err := db.DB.First(&customer, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Customer not found")
	}

	return respondData(c, http.StatusOK, customer)
}

// CreateCustomerRequest is the payload for customer creation
type CreateCustomerRequest struct {
	Name             string `json:"name"`
	ContactPerson    string `json:"contact_person"`
	ContactNumber    string `json:"contact_number"`
	Email            string `json:"email"`
	Industry         string `json:"industry"`
	Status           string `json:"status"`
	Address          string `json:"address"`
	RegistrationDate string `json:"registration_date"`
}

// Validate enforces the customer creation field rules
func (r CreateCustomerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.ContactPerson, validation.Required),
		validation.Field(&r.ContactNumber, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// CreateCustomer creates a customer and its audit record in one transaction
func CreateCustomer(c echo.Context) error {
	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	status := req.Status
	if status == "" {
		status = models.CustomerStatusProspect
	} else if !models.IsValidCustomerStatus(status) {
		return respondError(c, http.StatusBadRequest, "Invalid customer status")
	}

	currentUser := middleware.GetCurrentUser(c)
	customer := models.Customer{
		CustomerID:    services.GenerateCustomerID(),
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Industry:      req.Industry,
		Status:        status,
		Address:       req.Address,
		CreatedBy:     &currentUser.ID,
	}
	if date, ok := parseDateParam(req.RegistrationDate); ok {
		customer.RegistrationDate = &date
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditCustomerCreated, "customer", customer.ID,
			map[string]interface{}{"customer_id": customer.CustomerID, "name": customer.Name})
	})
	if err != nil {
		return respondServerError(c, "Failed to create customer", err)
	}

	return respondData(c, http.StatusCreated, customer)
}

// UpdateCustomerRequest is the typed field set accepted by PATCH
type UpdateCustomerRequest struct {
	Name             *string `json:"name"`
	ContactPerson    *string `json:"contact_person"`
	ContactNumber    *string `json:"contact_number"`
	Email            *string `json:"email"`
	Industry         *string `json:"industry"`
	Status           *string `json:"status"`
	Address          *string `json:"address"`
	RegistrationDate *string `json:"registration_date"`
}

// UpdateCustomer applies the supplied fields and audits the change atomically
func UpdateCustomer(c echo.Context) error {
	var customer models.Customer
	if err := db.DB.First(&customer, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Customer not found")
	}

	var req UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		customer.Name = *req.Name
		changes["name"] = *req.Name
	}
	if req.ContactPerson != nil {
		customer.ContactPerson = *req.ContactPerson
		changes["contact_person"] = *req.ContactPerson
	}
	if req.ContactNumber != nil {
		customer.ContactNumber = *req.ContactNumber
		changes["contact_number"] = *req.ContactNumber
	}
	if req.Email != nil {
		customer.Email = *req.Email
		changes["email"] = *req.Email
	}
	if req.Industry != nil {
		customer.Industry = *req.Industry
		changes["industry"] = *req.Industry
	}
	if req.Status != nil {
		if !models.IsValidCustomerStatus(*req.Status) {
			return respondError(c, http.StatusBadRequest, "Invalid customer status")
		}
		customer.Status = *req.Status
		changes["status"] = *req.Status
	}
	if req.Address != nil {
		customer.Address = *req.Address
		changes["address"] = *req.Address
	}
	if req.RegistrationDate != nil {
		if date, ok := parseDateParam(*req.RegistrationDate); ok {
			customer.RegistrationDate = &date
			changes["registration_date"] = *req.RegistrationDate
		}
	}

	if len(changes) == 0 {
		return respondError(c, http.StatusBadRequest, "No valid fields to update")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&customer).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditCustomerUpdated, "customer", customer.ID, changes)
	})
	if err != nil {
		return respondServerError(c, "Failed to update customer", err)
	}

	return respondMessage(c, http.StatusOK, customer, "Customer updated successfully")
}

// DeleteCustomer soft-deletes a customer and audits the deletion atomically
func DeleteCustomer(c echo.Context) error {
	var customer models.Customer
	if err := db.DB.First(&customer, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Customer not found")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&customer).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditCustomerDeleted, "customer", customer.ID,
			map[string]interface{}{"soft_delete": true, "deleted_at": time.Now()})
	})
	if err != nil {
		return respondServerError(c, "Failed to delete customer", err)
	}

	return c.JSON(http.StatusOK, Envelope{Success: true, Message: "Customer deleted successfully"})
}
