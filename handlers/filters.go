package handlers

import (
	"time"

	"gorm.io/gorm"
)

// parseDateParam parses a YYYY-MM-DD query value
func parseDateParam(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// applyDateRange adds inclusive startDate/endDate predicates on the named
// column. The end bound covers the entire day. Values are always bound as
// parameters, never interpolated.
func applyDateRange(query *gorm.DB, column, startDate, endDate string) *gorm.DB {
	if start, ok := parseDateParam(startDate); ok {
		query = query.Where(column+" >= ?", start)
	}
	if end, ok := parseDateParam(endDate); ok {
		// Add 24 hours to include the entire day
		query = query.Where(column+" < ?", end.Add(24*time.Hour))
	}
	return query
}
