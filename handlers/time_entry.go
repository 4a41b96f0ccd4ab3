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

// TimeEntryStats summarizes the filtered time entry set
type TimeEntryStats struct {
	TotalHours     float64 `json:"total_hours"`
	BillableHours  float64 `json:"billable_hours"`
	BillableAmount float64 `json:"billable_amount"`
	UnbilledAmount float64 `json:"unbilled_amount"`
	EntryCount     int64   `json:"entry_count"`
}

// timeEntryFilteredQuery applies the recognized time entry list filters
func timeEntryFilteredQuery(c echo.Context) *gorm.DB {
	query := db.DB.Model(&models.TimeEntry{})

	if caseID := c.QueryParam("caseId"); caseID != "" {
		query = query.Where("case_id = ?", caseID)
	}
	if userID := c.QueryParam("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if billable := c.QueryParam("billable"); billable != "" {
		query = query.Where("billable = ?", billable == "true")
	}
	if invoiced := c.QueryParam("invoiced"); invoiced != "" {
		if invoiced == "true" {
			query = query.Where("invoice_id IS NOT NULL")
		} else {
			query = query.Where("invoice_id IS NULL")
		}
	}
	query = applyDateRange(query, "date", c.QueryParam("startDate"), c.QueryParam("endDate"))

	return query
}

// timeEntryStats computes the stats companion over the same filter set
func timeEntryStats(c echo.Context) (*TimeEntryStats, error) {
	stats := &TimeEntryStats{}
	err := timeEntryFilteredQuery(c).
		Select(`COALESCE(SUM(hours), 0) as total_hours,
			COALESCE(SUM(CASE WHEN billable THEN hours ELSE 0 END), 0) as billable_hours,
			COALESCE(SUM(billable_amount), 0) as billable_amount,
			COALESCE(SUM(CASE WHEN invoice_id IS NULL THEN billable_amount ELSE 0 END), 0) as unbilled_amount,
			COUNT(*) as entry_count`).
		Scan(stats).Error
	return stats, err
}

// GetTimeEntries returns time entries matching the query filters with totals
func GetTimeEntries(c echo.Context) error {
	var entries []models.TimeEntry
	if err := timeEntryFilteredQuery(c).
		Preload("Case").
		Preload("User").
		Order("date DESC").
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return respondServerError(c, "Failed to fetch time entries", err)
	}

	stats, err := timeEntryStats(c)
	if err != nil {
		return respondServerError(c, "Failed to fetch time entries", err)
	}

	return respondList(c, http.StatusOK, entries, stats, nil, len(entries))
}

// GetTimeEntry returns a single time entry
func GetTimeEntry(c echo.Context) error {
	var entry models.TimeEntry
	if err := db.DB.
		Preload("Case").
		Preload("User").
		Preload("Invoice").
		First(&entry, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Time entry not found")
	}

	return respondData(c, http.StatusOK, entry)
}

// GetTimeEntriesByCase returns the time entries of one case with totals
func GetTimeEntriesByCase(c echo.Context) error {
	var entries []models.TimeEntry
	if err := db.DB.
		Where("case_id = ?", c.Param("caseId")).
		Preload("User").
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return respondServerError(c, "Failed to fetch time entries", err)
	}

	stats := &TimeEntryStats{EntryCount: int64(len(entries))}
	for _, entry := range entries {
		stats.TotalHours += entry.Hours
		if entry.Billable {
			stats.BillableHours += entry.Hours
		}
		stats.BillableAmount += entry.BillableAmount
		if !entry.IsInvoiced() {
			stats.UnbilledAmount += entry.BillableAmount
		}
	}

	return respondList(c, http.StatusOK, entries, stats, nil, len(entries))
}

// UnbilledGroup is one bucket of unbilled billable time
type UnbilledGroup struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Hours  float64 `json:"hours"`
	Amount float64 `json:"amount"`
	Count  int64   `json:"count"`
}

// GetUnbilledTimeEntries returns billable entries not yet on an invoice,
// optionally grouped by client, case or user.
func GetUnbilledTimeEntries(c echo.Context) error {
	baseQuery := func() *gorm.DB {
		return db.DB.Model(&models.TimeEntry{}).
			Where("billable = ?", true).
			Where("invoice_id IS NULL")
	}

	var entries []models.TimeEntry
	if err := baseQuery().
		Preload("Case").
		Preload("Case.Customer").
		Preload("User").
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return respondServerError(c, "Failed to fetch unbilled time entries", err)
	}

	stats := &TimeEntryStats{EntryCount: int64(len(entries))}
	for _, entry := range entries {
		stats.TotalHours += entry.Hours
		stats.BillableHours += entry.Hours
		stats.BillableAmount += entry.BillableAmount
		stats.UnbilledAmount += entry.BillableAmount
	}

	var grouped []UnbilledGroup
	switch c.QueryParam("groupBy") {
	case "client":
		if err := baseQuery().
			Joins("JOIN cases ON cases.id = time_entries.case_id").
			Joins("JOIN customers ON customers.id = cases.customer_id").
			Select(`customers.id as key, customers.name as label,
				COALESCE(SUM(time_entries.hours), 0) as hours,
				COALESCE(SUM(time_entries.billable_amount), 0) as amount,
				COUNT(*) as count`).
			Group("customers.id, customers.name").
			Order("amount DESC").
			Scan(&grouped).Error; err != nil {
			return respondServerError(c, "Failed to fetch unbilled time entries", err)
		}
	case "case":
		if err := baseQuery().
			Joins("JOIN cases ON cases.id = time_entries.case_id").
			Select(`cases.id as key, cases.title as label,
				COALESCE(SUM(time_entries.hours), 0) as hours,
				COALESCE(SUM(time_entries.billable_amount), 0) as amount,
				COUNT(*) as count`).
			Group("cases.id, cases.title").
			Order("amount DESC").
			Scan(&grouped).Error; err != nil {
			return respondServerError(c, "Failed to fetch unbilled time entries", err)
		}
	case "user":
		if err := baseQuery().
			Joins("JOIN users ON users.id = time_entries.user_id").
			Select(`users.id as key, users.name as label,
				COALESCE(SUM(time_entries.hours), 0) as hours,
				COALESCE(SUM(time_entries.billable_amount), 0) as amount,
				COUNT(*) as count`).
			Group("users.id, users.name").
			Order("amount DESC").
			Scan(&grouped).Error; err != nil {
			return respondServerError(c, "Failed to fetch unbilled time entries", err)
		}
	}

	var groupedPayload interface{}
	if grouped != nil {
		groupedPayload = grouped
	}
	return respondList(c, http.StatusOK, entries, stats, groupedPayload, len(entries))
}

// CreateTimeEntryRequest is the payload for time entry creation
type CreateTimeEntryRequest struct {
	CaseID      string   `json:"case_id"`
	UserID      string   `json:"user_id"`
	Date        string   `json:"date"`
	Hours       float64  `json:"hours"`
	Description string   `json:"description"`
	TaskType    string   `json:"task_type"`
	Billable    *bool    `json:"billable"`
	HourlyRate  *float64 `json:"hourly_rate"`
}

// Validate enforces the time entry field rules, including the working-day
// hours bound.
func (r CreateTimeEntryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CaseID, validation.Required),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Hours, validation.Required, validation.Min(0.0).Exclusive(), validation.Max(24.0)),
	)
}

// CreateTimeEntry records worked time and audits atomically. The hourly rate
// defaults to the entering user's rate; the billable amount is always derived
// server-side.
func CreateTimeEntry(c echo.Context) error {
	var req CreateTimeEntryRequest
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

	currentUser := middleware.GetCurrentUser(c)
	userID := req.UserID
	if userID == "" {
		userID = currentUser.ID
	}
	var entryUser models.User
	if err := db.DB.First(&entryUser, "id = ?", userID).Error; err != nil {
		return respondError(c, http.StatusNotFound, "User not found")
	}

	billable := true
	if req.Billable != nil {
		billable = *req.Billable
	}
	rate := entryUser.HourlyRate
	if req.HourlyRate != nil {
		rate = *req.HourlyRate
	}

	entry := models.TimeEntry{
		CaseID:      req.CaseID,
		UserID:      userID,
		Hours:       req.Hours,
		Description: req.Description,
		TaskType:    req.TaskType,
		Billable:    billable,
		HourlyRate:  rate,
	}
	if date, ok := parseDateParam(req.Date); ok {
		entry.Date = date
	} else {
		entry.Date = time.Now()
	}
	entry.ComputeBillableAmount()

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditTimeEntryCreated, "time_entry", entry.ID,
			map[string]interface{}{"case_id": entry.CaseID, "hours": entry.Hours, "billable": entry.Billable})
	})
	if err != nil {
		return respondServerError(c, "Failed to create time entry", err)
	}

	return respondData(c, http.StatusCreated, entry)
}

// UpdateTimeEntryRequest is the typed field set accepted by PATCH
type UpdateTimeEntryRequest struct {
	Date        *string  `json:"date"`
	Hours       *float64 `json:"hours"`
	Description *string  `json:"description"`
	TaskType    *string  `json:"task_type"`
	Billable    *bool    `json:"billable"`
	HourlyRate  *float64 `json:"hourly_rate"`
}

// UpdateTimeEntry applies the supplied fields and audits atomically. Entries
// already attached to an invoice are immutable.
func UpdateTimeEntry(c echo.Context) error {
	var entry models.TimeEntry
	if err := db.DB.First(&entry, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Time entry not found")
	}
	if entry.IsInvoiced() {
		return respondError(c, http.StatusConflict, "Cannot modify an invoiced time entry")
	}

	var req UpdateTimeEntryRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Hours != nil && (*req.Hours <= 0 || *req.Hours > 24) {
		return respondError(c, http.StatusBadRequest, "hours must be greater than 0 and at most 24")
	}

	changes := map[string]interface{}{}
	if req.Date != nil {
		if date, ok := parseDateParam(*req.Date); ok {
			entry.Date = date
			changes["date"] = *req.Date
		}
	}
	if req.Hours != nil {
		entry.Hours = *req.Hours
		changes["hours"] = *req.Hours
	}
	if req.Description != nil {
		entry.Description = *req.Description
		changes["description"] = *req.Description
	}
	if req.TaskType != nil {
		entry.TaskType = *req.TaskType
		changes["task_type"] = *req.TaskType
	}
	if req.Billable != nil {
		entry.Billable = *req.Billable
		changes["billable"] = *req.Billable
	}
	if req.HourlyRate != nil {
		entry.HourlyRate = *req.HourlyRate
		changes["hourly_rate"] = *req.HourlyRate
	}

	if len(changes) == 0 {
		return respondError(c, http.StatusBadRequest, "No valid fields to update")
	}

	entry.ComputeBillableAmount()

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditTimeEntryUpdated, "time_entry", entry.ID, changes)
	})
	if err != nil {
		return respondServerError(c, "Failed to update time entry", err)
	}

	return respondMessage(c, http.StatusOK, entry, "Time entry updated successfully")
}

// DeleteTimeEntry soft-deletes a time entry and audits atomically. Invoiced
// entries cannot be deleted.
func DeleteTimeEntry(c echo.Context) error {
	var entry models.TimeEntry
	if err := db.DB.First(&entry, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Time entry not found")
	}
	if entry.IsInvoiced() {
		return respondError(c, http.StatusConflict, "Cannot delete an invoiced time entry")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entry).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditTimeEntryDeleted, "time_entry", entry.ID,
			map[string]interface{}{"soft_delete": true, "case_id": entry.CaseID, "hours": entry.Hours})
	})
	if err != nil {
		return respondServerError(c, "Failed to delete time entry", err)
	}

	return c.JSON(http.StatusOK, Envelope{Success: true, Message: "Time entry deleted successfully"})
}
