package handlers

import (
	"net/http"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/middleware"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/services"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// EngagementSummary augments an engagement row with case and billing totals
type EngagementSummary struct {
	models.Engagement
	CaseCount   int64   `json:"case_count"`
	TotalHours  float64 `json:"total_hours"`
	TotalBilled float64 `json:"total_billed"`
}

// engagementFilteredQuery applies the recognized engagement list filters
func engagementFilteredQuery(c echo.Context) *gorm.DB {
	query := db.DB.Model(&models.Engagement{})

	if customerID := c.QueryParam("clientId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	return query
}

// summarizeEngagements attaches case counts and billing totals to each row
func summarizeEngagements(engagements []models.Engagement) ([]EngagementSummary, error) {
	summaries := make([]EngagementSummary, 0, len(engagements))
	for _, engagement := range engagements {
		summary := EngagementSummary{Engagement: engagement}

		if err := db.DB.Model(&models.Case{}).
			Where("engagement_id = ?", engagement.ID).
			Count(&summary.CaseCount).Error; err != nil {
			return nil, err
		}

		row := struct {
			TotalHours  float64
			TotalBilled float64
		}{}
		if err := db.DB.Model(&models.TimeEntry{}).
			Select("COALESCE(SUM(hours), 0) as total_hours, COALESCE(SUM(billable_amount), 0) as total_billed").
			Where("case_id IN (?)", db.DB.Model(&models.Case{}).Select("id").Where("engagement_id = ?", engagement.ID)).
			Scan(&row).Error; err != nil {
			return nil, err
		}
		summary.TotalHours = row.TotalHours
		summary.TotalBilled = row.TotalBilled

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetEngagements returns engagements with aggregate totals, newest first
func GetEngagements(c echo.Context) error {
	var engagements []models.Engagement
	if err := engagementFilteredQuery(c).
		Preload("Customer").
		Preload("AssignedTo").
		Order("created_at DESC").
		Find(&engagements).Error; err != nil {
		return respondServerError(c, "Failed to fetch engagements", err)
	}

	summaries, err := summarizeEngagements(engagements)
	if err != nil {
		return respondServerError(c, "Failed to fetch engagements", err)
	}

	return respondList(c, http.StatusOK, summaries, nil, nil, len(summaries))
}

// GetEngagement returns a single engagement with its cases
func GetEngagement(c echo.Context) error {
	var engagement models.Engagement
	if err := db.DB.
		Preload("Customer").
		Preload("AssignedTo").
		Preload("Cases").
		First(&engagement, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Engagement not found")
	}

	return respondData(c, http.StatusOK, engagement)
}

// GetEngagementsByClient returns the live engagements of one customer
func GetEngagementsByClient(c echo.Context) error {
	var engagements []models.Engagement
	if err := db.DB.
		Where("customer_id = ?", c.Param("clientId")).
		Order("created_at DESC").
		Find(&engagements).Error; err != nil {
		return respondServerError(c, "Failed to fetch engagements", err)
	}

	summaries, err := summarizeEngagements(engagements)
	if err != nil {
		return respondServerError(c, "Failed to fetch engagements", err)
	}

	return respondList(c, http.StatusOK, summaries, nil, nil, len(summaries))
}

// CreateEngagementRequest is the payload for engagement creation
type CreateEngagementRequest struct {
	CustomerID     string  `json:"client_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	EngagementType string  `json:"engagement_type"`
	Status         string  `json:"status"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	EstimatedHours float64 `json:"estimated_hours"`
	HourlyRate     float64 `json:"hourly_rate"`
	AssignedTo     *string `json:"assigned_to"`
}

// Validate enforces the engagement creation field rules
func (r CreateEngagementRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CustomerID, validation.Required),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.EngagementType, validation.Required),
	)
}

// CreateEngagement creates an engagement and its audit record atomically
func CreateEngagement(c echo.Context) error {
	var req CreateEngagementRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	var customer models.Customer
	if err := db.DB.First(&customer, "id = ?", req.CustomerID).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Customer not found")
	}

	status := req.Status
	if status == "" {
		status = models.EngagementStatusActive
	}

	currentUser := middleware.GetCurrentUser(c)
	engagement := models.Engagement{
		CustomerID:     req.CustomerID,
		Title:          req.Title,
		Description:    req.Description,
		EngagementType: req.EngagementType,
		Status:         status,
		EstimatedHours: req.EstimatedHours,
		HourlyRate:     req.HourlyRate,
		AssignedToID:   req.AssignedTo,
		CreatedBy:      &currentUser.ID,
	}
	if date, ok := parseDateParam(req.StartDate); ok {
		engagement.StartDate = &date
	}
	if date, ok := parseDateParam(req.EndDate); ok {
		engagement.EndDate = &date
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&engagement).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditEngagementCreated, "engagement", engagement.ID,
			map[string]interface{}{"title": engagement.Title, "engagement_type": engagement.EngagementType})
	})
	if err != nil {
		return respondServerError(c, "Failed to create engagement", err)
	}

	return respondData(c, http.StatusCreated, engagement)
}

// UpdateEngagementRequest is the typed field set accepted by PATCH
type UpdateEngagementRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	EngagementType *string  `json:"engagement_type"`
	Status         *string  `json:"status"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
	HourlyRate     *float64 `json:"hourly_rate"`
	AssignedTo     *string  `json:"assigned_to"`
}

// UpdateEngagement applies the supplied fields and audits atomically
func UpdateEngagement(c echo.Context) error {
	var engagement models.Engagement
	if err := db.DB.First(&engagement, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Engagement not found")
	}

	var req UpdateEngagementRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	changes := map[string]interface{}{}
	if req.Title != nil {
		engagement.Title = *req.Title
		changes["title"] = *req.Title
	}
	if req.Description != nil {
		engagement.Description = *req.Description
		changes["description"] = *req.Description
	}
	if req.EngagementType != nil {
		engagement.EngagementType = *req.EngagementType
		changes["engagement_type"] = *req.EngagementType
	}
	if req.Status != nil {
		engagement.Status = *req.Status
		changes["status"] = *req.Status
	}
	if req.StartDate != nil {
		if date, ok := parseDateParam(*req.StartDate); ok {
			engagement.StartDate = &date
			changes["start_date"] = *req.StartDate
		}
	}
	if req.EndDate != nil {
		if date, ok := parseDateParam(*req.EndDate); ok {
			engagement.EndDate = &date
			changes["end_date"] = *req.EndDate
		}
	}
	if req.EstimatedHours != nil {
		engagement.EstimatedHours = *req.EstimatedHours
		changes["estimated_hours"] = *req.EstimatedHours
	}
	if req.HourlyRate != nil {
		engagement.HourlyRate = *req.HourlyRate
		changes["hourly_rate"] = *req.HourlyRate
	}
	if req.AssignedTo != nil {
		engagement.AssignedToID = req.AssignedTo
		changes["assigned_to"] = *req.AssignedTo
	}

	if len(changes) == 0 {
		return respondError(c, http.StatusBadRequest, "No valid fields to update")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&engagement).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditEngagementUpdated, "engagement", engagement.ID, changes)
	})
	if err != nil {
		return respondServerError(c, "Failed to update engagement", err)
	}

	return respondMessage(c, http.StatusOK, engagement, "Engagement updated successfully")
}

// DeleteEngagement soft-deletes an engagement and audits atomically
func DeleteEngagement(c echo.Context) error {
	var engagement models.Engagement
	if err := db.DB.First(&engagement, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Engagement not found")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&engagement).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditEngagementDeleted, "engagement", engagement.ID,
			map[string]interface{}{"soft_delete": true, "title": engagement.Title})
	})
	if err != nil {
		return respondServerError(c, "Failed to delete engagement", err)
	}

	return c.JSON(http.StatusOK, Envelope{Success: true, Message: "Engagement deleted successfully"})
}
