package handlers

import (
	"net/http"
	"time"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/middleware"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/services"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// caseFilteredQuery applies the recognized case list filters as
// parameterized predicates
func caseFilteredQuery(c echo.Context) *gorm.DB {
	query := db.DB.Model(&models.Case{})

	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR case_number LIKE ?", pattern, pattern)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.QueryParam("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if customerID := c.QueryParam("customerId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if assignedTo := c.QueryParam("assignedTo"); assignedTo != "" {
		query = query.Where("assigned_attorney_id = ?", assignedTo)
	}
	query = applyDateRange(query, "filing_date", c.QueryParam("startDate"), c.QueryParam("endDate"))

	return query
}

// GetCases returns cases matching the optional filters, newest first
func GetCases(c echo.Context) error {
	var cases []models.Case
	if err := caseFilteredQuery(c).
		Preload("Customer").
		Preload("AssignedAttorney").
		Order("created_at DESC").
		Find(&cases).Error; err != nil {
		return respondServerError(c, "Failed to fetch cases", err)
	}

	return respondList(c, http.StatusOK, cases, nil, nil, len(cases))
}

// GetCase returns a single case with its immediate references
func GetCase(c echo.Context) error {
	var caseRecord models.Case
	if err := db.DB.
		Preload("Customer").
		Preload("AssignedAttorney").
		Preload("Engagement").
		First(&caseRecord, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Case not found")
	}

	return respondData(c, http.StatusOK, caseRecord)
}

// GetCasesByAttorney returns the live cases assigned to one attorney
func GetCasesByAttorney(c echo.Context) error {
	var cases []models.Case
	if err := db.DB.
		Preload("Customer").
		Where("assigned_attorney_id = ?", c.Param("userId")).
		Order("created_at DESC").
		Find(&cases).Error; err != nil {
		return respondServerError(c, "Failed to fetch cases", err)
	}

	return respondList(c, http.StatusOK, cases, nil, nil, len(cases))
}

// CreateCaseRequest is the payload for case creation
type CreateCaseRequest struct {
	Title            string   `json:"title"`
	CustomerID       string   `json:"customer_id"`
	CaseType         string   `json:"case_type"`
	Status           string   `json:"status"`
	Priority         string   `json:"priority"`
	EngagementID     *string  `json:"engagement_id"`
	AssignedAttorney *string  `json:"assigned_attorney"`
	CourtName        string   `json:"court_name"`
	FilingDate       string   `json:"filing_date"`
	HearingDate      string   `json:"hearing_date"`
	Description      string   `json:"description"`
	EstimatedValue   *float64 `json:"estimated_value"`
}

// Validate enforces the case creation field rules
func (r CreateCaseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.CustomerID, validation.Required),
		validation.Field(&r.CaseType, validation.Required),
	)
}

// CreateCase creates a case and its audit record in one transaction
func CreateCase(c echo.Context) error {
	var req CreateCaseRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	// The owning customer must be a live row
	var customer models.Customer
	if err := db.DB.First(&customer, "id = ?", req.CustomerID).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Customer not found")
	}

	status := req.Status
	if status == "" {
		status = models.CaseStatusNew
	}
	priority := req.Priority
	if priority == "" {
		priority = models.CasePriorityMedium
	}

	currentUser := middleware.GetCurrentUser(c)
	caseRecord := models.Case{
		CaseNumber:         services.GenerateCaseNumber(),
		Title:              req.Title,
		CustomerID:         req.CustomerID,
		CaseType:           req.CaseType,
		Status:             status,
		Priority:           priority,
		EngagementID:       req.EngagementID,
		AssignedAttorneyID: req.AssignedAttorney,
		CourtName:          req.CourtName,
		Description:        req.Description,
		EstimatedValue:     req.EstimatedValue,
		CreatedBy:          &currentUser.ID,
	}
	if date, ok := parseDateParam(req.FilingDate); ok {
		caseRecord.FilingDate = &date
	}
	if date, ok := parseDateParam(req.HearingDate); ok {
		caseRecord.HearingDate = &date
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&caseRecord).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditCaseCreated, "case", caseRecord.ID,
			map[string]interface{}{"case_number": caseRecord.CaseNumber, "title": caseRecord.Title, "customer_id": caseRecord.CustomerID})
	})
	if err != nil {
		return respondServerError(c, "Failed to create case", err)
	}

	return respondData(c, http.StatusCreated, caseRecord)
}

// UpdateCaseRequest is the typed field set accepted by PATCH
type UpdateCaseRequest struct {
	Title            *string  `json:"title"`
	CaseType         *string  `json:"case_type"`
	Status           *string  `json:"status"`
	Priority         *string  `json:"priority"`
	EngagementID     *string  `json:"engagement_id"`
	AssignedAttorney *string  `json:"assigned_attorney"`
	CourtName        *string  `json:"court_name"`
	FilingDate       *string  `json:"filing_date"`
	HearingDate      *string  `json:"hearing_date"`
	Description      *string  `json:"description"`
	EstimatedValue   *float64 `json:"estimated_value"`
}

// UpdateCase applies the supplied fields and audits the change atomically.
// Moving a case to Closed stamps closed_at.
func UpdateCase(c echo.Context) error {
	var caseRecord models.Case
	if err := db.DB.First(&caseRecord, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Case not found")
	}

	var req UpdateCaseRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	changes := map[string]interface{}{}
	if req.Title != nil {
		caseRecord.Title = *req.Title
		changes["title"] = *req.Title
	}
	if req.CaseType != nil {
		caseRecord.CaseType = *req.CaseType
		changes["case_type"] = *req.CaseType
	}
	if req.Status != nil {
		caseRecord.Status = *req.Status
		changes["status"] = *req.Status
		if *req.Status == models.CaseStatusClosed && caseRecord.ClosedAt == nil {
			now := time.Now()
			caseRecord.ClosedAt = &now
		}
	}
	if req.Priority != nil {
		caseRecord.Priority = *req.Priority
		changes["priority"] = *req.Priority
	}
	if req.EngagementID != nil {
		caseRecord.EngagementID = req.EngagementID
		changes["engagement_id"] = *req.EngagementID
	}
	if req.AssignedAttorney != nil {
		caseRecord.AssignedAttorneyID = req.AssignedAttorney
		changes["assigned_attorney"] = *req.AssignedAttorney
	}
	if req.CourtName != nil {
		caseRecord.CourtName = *req.CourtName
		changes["court_name"] = *req.CourtName
	}
	if req.FilingDate != nil {
		if date, ok := parseDateParam(*req.FilingDate); ok {
			caseRecord.FilingDate = &date
			changes["filing_date"] = *req.FilingDate
		}
	}
	if req.HearingDate != nil {
		if date, ok := parseDateParam(*req.HearingDate); ok {
			caseRecord.HearingDate = &date
			changes["hearing_date"] = *req.HearingDate
		}
	}
	if req.Description != nil {
		caseRecord.Description = *req.Description
		changes["description"] = *req.Description
	}
	if req.EstimatedValue != nil {
		caseRecord.EstimatedValue = req.EstimatedValue
		changes["estimated_value"] = *req.EstimatedValue
	}

	if len(changes) == 0 {
		return respondError(c, http.StatusBadRequest, "No valid fields to update")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&caseRecord).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditCaseUpdated, "case", caseRecord.ID, changes)
	})
	if err != nil {
		return respondServerError(c, "Failed to update case", err)
	}

	return respondMessage(c, http.StatusOK, caseRecord, "Case updated successfully")
}

// DeleteCase soft-deletes a case and audits the deletion atomically
func DeleteCase(c echo.Context) error {
	var caseRecord models.Case
	if err := db.DB.First(&caseRecord, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Case not found")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&caseRecord).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditCaseDeleted, "case", caseRecord.ID,
			map[string]interface{}{"soft_delete": true, "case_number": caseRecord.CaseNumber})
	})
	if err != nil {
		return respondServerError(c, "Failed to delete case", err)
	}

	return c.JSON(http.StatusOK, Envelope{Success: true, Message: "Case deleted successfully"})
}
