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

// compliancePriorityOrder sorts critical before high before medium before low
const compliancePriorityOrder = "CASE priority WHEN 'critical' THEN 1 WHEN 'high' THEN 2 WHEN 'medium' THEN 3 WHEN 'low' THEN 4 ELSE 5 END"

// ComplianceStats summarizes the filtered compliance set
type ComplianceStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Overdue    int64 `json:"overdue"`
}

// complianceFilteredQuery applies the recognized compliance list filters
func complianceFilteredQuery(c echo.Context) *gorm.DB {
	query := db.DB.Model(&models.ComplianceItem{})

	if caseID := c.QueryParam("caseId"); caseID != "" {
		query = query.Where("case_id = ?", caseID)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.QueryParam("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if complianceType := c.QueryParam("type"); complianceType != "" {
		query = query.Where("compliance_type = ?", complianceType)
	}
	if assignedTo := c.QueryParam("assignedTo"); assignedTo != "" {
		query = query.Where("assigned_to_id = ?", assignedTo)
	}

	// Deadline window shortcuts. "overdue" means past due and unfinished,
	// "upcoming" means due within the next seven days.
	switch c.QueryParam("dueDate") {
	case "overdue":
		query = query.Where("due_date < ? AND status != ?", time.Now(), models.ComplianceStatusCompleted)
	case "upcoming":
		now := time.Now()
		query = query.Where("due_date >= ? AND due_date < ? AND status != ?",
			now, now.AddDate(0, 0, 7), models.ComplianceStatusCompleted)
	}

	return query
}

// complianceStats computes the stats companion over the same filter set
func complianceStats(c echo.Context) (*ComplianceStats, error) {
	stats := &ComplianceStats{}

	type countRow struct {
		Status string
		N      int64
	}
	var rows []countRow
	if err := complianceFilteredQuery(c).
		Select("status, COUNT(*) as n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.Total += row.N
		switch row.Status {
		case models.ComplianceStatusPending:
			stats.Pending = row.N
		case models.ComplianceStatusInProgress:
			stats.InProgress = row.N
		case models.ComplianceStatusCompleted:
			stats.Completed = row.N
		}
	}

	if err := complianceFilteredQuery(c).
		Where("due_date < ? AND status != ?", time.Now(), models.ComplianceStatusCompleted).
		Count(&stats.Overdue).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// GetComplianceItems returns compliance items ordered by priority then due date
func GetComplianceItems(c echo.Context) error {
	var items []models.ComplianceItem
	if err := complianceFilteredQuery(c).
		Preload("Case").
		Preload("AssignedTo").
		Order(compliancePriorityOrder).
		Order("due_date ASC").
		Find(&items).Error; err != nil {
		return respondServerError(c, "Failed to fetch compliance items", err)
	}

	stats, err := complianceStats(c)
	if err != nil {
		return respondServerError(c, "Failed to fetch compliance items", err)
	}

	return respondList(c, http.StatusOK, items, stats, nil, len(items))
}

// GetComplianceItem returns a single compliance item
func GetComplianceItem(c echo.Context) error {
	var item models.ComplianceItem
	if err := db.DB.
		Preload("Case").
		Preload("AssignedTo").
		First(&item, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Compliance item not found")
	}

	return respondData(c, http.StatusOK, item)
}

// GetComplianceByCase returns the compliance items of one case
func GetComplianceByCase(c echo.Context) error {
	var items []models.ComplianceItem
	if err := db.DB.
		Where("case_id = ?", c.Param("caseId")).
		Preload("AssignedTo").
		Order(compliancePriorityOrder).
		Order("due_date ASC").
		Find(&items).Error; err != nil {
		return respondServerError(c, "Failed to fetch compliance items", err)
	}

	return respondList(c, http.StatusOK, items, nil, nil, len(items))
}

// CreateComplianceRequest is the payload for compliance item creation
type CreateComplianceRequest struct {
	CaseID         string  `json:"case_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	ComplianceType string  `json:"compliance_type"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	Requirements   string  `json:"requirements"`
	DueDate        string  `json:"due_date"`
	AssignedTo     *string `json:"assigned_to"`
}

// Validate enforces the compliance creation field rules
func (r CreateComplianceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CaseID, validation.Required),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.ComplianceType, validation.Required),
	)
}

// CreateComplianceItem creates a compliance item and audits atomically
func CreateComplianceItem(c echo.Context) error {
	var req CreateComplianceRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	var caseRecord models.Case
	if err := db.DB.First(&caseRecord, "id = ?", req.CaseID).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Case not found")
	}

	status := req.Status
	if status == "" {
		status = models.ComplianceStatusPending
	}
	priority := req.Priority
	if priority == "" {
		priority = models.CompliancePriorityMedium
	}

	currentUser := middleware.GetCurrentUser(c)
	item := models.ComplianceItem{
		CaseID:         req.CaseID,
		Title:          req.Title,
		Description:    req.Description,
		ComplianceType: req.ComplianceType,
		Status:         status,
		Priority:       priority,
		Requirements:   req.Requirements,
		AssignedToID:   req.AssignedTo,
		CreatedBy:      &currentUser.ID,
	}
	if date, ok := parseDateParam(req.DueDate); ok {
		item.DueDate = &date
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditComplianceCreated, "compliance_item", item.ID,
			map[string]interface{}{"title": item.Title, "case_id": item.CaseID, "priority": item.Priority})
	})
	if err != nil {
		return respondServerError(c, "Failed to create compliance item", err)
	}

	return respondData(c, http.StatusCreated, item)
}

// UpdateComplianceRequest is the typed field set accepted by PATCH
type UpdateComplianceRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	ComplianceType *string `json:"compliance_type"`
	Status         *string `json:"status"`
	Priority       *string `json:"priority"`
	Requirements   *string `json:"requirements"`
	DueDate        *string `json:"due_date"`
	AssignedTo     *string `json:"assigned_to"`
}

// UpdateComplianceItem applies the supplied fields and audits atomically.
// Moving the status to completed stamps completed_at; moving it away clears
// the stamp.
func UpdateComplianceItem(c echo.Context) error {
	var item models.ComplianceItem
	if err := db.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Compliance item not found")
	}

	var req UpdateComplianceRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	changes := map[string]interface{}{}
	if req.Title != nil {
		item.Title = *req.Title
		changes["title"] = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
		changes["description"] = *req.Description
	}
	if req.ComplianceType != nil {
		item.ComplianceType = *req.ComplianceType
		changes["compliance_type"] = *req.ComplianceType
	}
	if req.Status != nil {
		item.Status = *req.Status
		changes["status"] = *req.Status
		if *req.Status == models.ComplianceStatusCompleted && item.CompletedAt == nil {
			now := time.Now()
			item.CompletedAt = &now
		} else if *req.Status != models.ComplianceStatusCompleted {
			item.CompletedAt = nil
		}
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
		changes["priority"] = *req.Priority
	}
	if req.Requirements != nil {
		item.Requirements = *req.Requirements
		changes["requirements"] = *req.Requirements
	}
	if req.DueDate != nil {
		if date, ok := parseDateParam(*req.DueDate); ok {
			item.DueDate = &date
			changes["due_date"] = *req.DueDate
		}
	}
	if req.AssignedTo != nil {
		item.AssignedToID = req.AssignedTo
		changes["assigned_to"] = *req.AssignedTo
	}

	if len(changes) == 0 {
		return respondError(c, http.StatusBadRequest, "No valid fields to update")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditComplianceUpdated, "compliance_item", item.ID, changes)
	})
	if err != nil {
		return respondServerError(c, "Failed to update compliance item", err)
	}

	return respondMessage(c, http.StatusOK, item, "Compliance item updated successfully")
}

// DeleteComplianceItem soft-deletes a compliance item and audits atomically
func DeleteComplianceItem(c echo.Context) error {
	var item models.ComplianceItem
	if err := db.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Compliance item not found")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditComplianceDeleted, "compliance_item", item.ID,
			map[string]interface{}{"soft_delete": true, "title": item.Title})
	})
	if err != nil {
		return respondServerError(c, "Failed to delete compliance item", err)
	}

	return c.JSON(http.StatusOK, Envelope{Success: true, Message: "Compliance item deleted successfully"})
}
