package handlers

import (
	"net/http"
	"strconv"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/services"
	"github.com/labstack/echo/v4"
)

// GetAuditLogs returns the audit trail, newest first, with pagination
func GetAuditLogs(c echo.Context) error {
	filters := services.AuditLogFilters{
		UserID:     c.QueryParam("userId"),
		EntityType: c.QueryParam("entityType"),
		EntityID:   c.QueryParam("entityId"),
		Action:     c.QueryParam("action"),
	}
	if from, ok := parseDateParam(c.QueryParam("startDate")); ok {
		filters.DateFrom = from
	}
	if to, ok := parseDateParam(c.QueryParam("endDate")); ok {
		filters.DateTo = to.AddDate(0, 0, 1)
	}

	limit := 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}

	logs, total, err := services.GetAuditLogs(db.DB, filters, limit, offset)
	if err != nil {
		return respondServerError(c, "Failed to fetch audit logs", err)
	}

	count := int(total)
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: logs, Count: &count})
}

// GetEntityAuditHistory returns the full audit trail of one entity
func GetEntityAuditHistory(c echo.Context) error {
	logs, err := services.GetEntityAuditHistory(db.DB, c.Param("entityType"), c.Param("entityId"))
	if err != nil {
		return respondServerError(c, "Failed to fetch audit history", err)
	}

	return respondList(c, http.StatusOK, logs, nil, nil, len(logs))
}
