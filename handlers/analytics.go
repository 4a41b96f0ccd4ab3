package handlers

import (
	"net/http"
	"time"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// CountBucket is one label/count pair in a grouped aggregate
type CountBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// MonthBucket is one month of the filing trend
type MonthBucket struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

// ClientBucket is a per-client case count
type ClientBucket struct {
	ClientID string `json:"client_id"`
	Label    string `json:"label"`
	Count    int64  `json:"count"`
}

// CasePerformance is one case in the revenue ranking
type CasePerformance struct {
	CaseID     string  `json:"case_id"`
	CaseNumber string  `json:"case_number"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	Hours      float64 `json:"hours"`
	Revenue    float64 `json:"revenue"`
}

// CaseAnalytics is the payload of the case analytics endpoint
type CaseAnalytics struct {
	Overview struct {
		TotalCases          int64   `json:"total_cases"`
		OpenCases           int64   `json:"open_cases"`
		ClosedCases         int64   `json:"closed_cases"`
		TotalEstimatedValue float64 `json:"total_estimated_value"`
		AvgResolutionDays   float64 `json:"avg_resolution_days"`
	} `json:"overview"`
	ByStatus        []CountBucket     `json:"by_status"`
	ByPriority      []CountBucket     `json:"by_priority"`
	ByType          []CountBucket     `json:"by_type"`
	ByClient        []ClientBucket    `json:"by_client"`
	MonthlyTrend    []MonthBucket     `json:"monthly_trend"`
	CasePerformance []CasePerformance `json:"case_performance"`
	TimeToClose     struct {
		AvgDays float64 `json:"avg_days"`
		MinDays float64 `json:"min_days"`
		MaxDays float64 `json:"max_days"`
	} `json:"time_to_close"`
}

// GetCaseAnalytics aggregates case metrics. Every sub-query shares the same
// optional filing-date range; they run concurrently and any failure fails
// the whole request.
func GetCaseAnalytics(c echo.Context) error {
	startDate := c.QueryParam("startDate")
	endDate := c.QueryParam("endDate")

	// Fresh chain per sub-query; gorm chains are not safe to share.
	ranged := func(column string) *gorm.DB {
		return applyDateRange(db.DB.Model(&models.Case{}), column, startDate, endDate)
	}

	var payload CaseAnalytics
	g, _ := errgroup.WithContext(c.Request().Context())

	g.Go(func() error {
		return ranged("filing_date").Count(&payload.Overview.TotalCases).Error
	})
	g.Go(func() error {
		return ranged("filing_date").
			Where("status != ?", models.CaseStatusClosed).
			Count(&payload.Overview.OpenCases).Error
	})
	g.Go(func() error {
		return ranged("filing_date").
			Where("status = ?", models.CaseStatusClosed).
			Count(&payload.Overview.ClosedCases).Error
	})
	g.Go(func() error {
		return ranged("filing_date").
			Select("COALESCE(SUM(estimated_value), 0)").
			Scan(&payload.Overview.TotalEstimatedValue).Error
	})
	g.Go(func() error {
		// Resolution time only exists for closed cases with both stamps
		return ranged("filing_date").
			Select("COALESCE(AVG(julianday(closed_at) - julianday(filing_date)), 0)").
			Where("closed_at IS NOT NULL AND filing_date IS NOT NULL").
			Scan(&payload.Overview.AvgResolutionDays).Error
	})
	g.Go(func() error {
		return ranged("filing_date").
			Select("status as label, COUNT(*) as count").
			Group("status").
			Scan(&payload.ByStatus).Error
	})
	g.Go(func() error {
		return ranged("filing_date").
			Select("priority as label, COUNT(*) as count").
			Group("priority").
			Scan(&payload.ByPriority).Error
	})
	g.Go(func() error {
		return ranged("filing_date").
			Select("case_type as label, COUNT(*) as count").
			Group("case_type").
			Scan(&payload.ByType).Error
	})
	g.Go(func() error {
		return ranged("cases.filing_date").
			Select("cases.customer_id as client_id, customers.name as label, COUNT(*) as count").
			Joins("JOIN customers ON customers.id = cases.customer_id").
			Group("cases.customer_id, customers.name").
			Order("count DESC").
			Limit(20).
			Scan(&payload.ByClient).Error
	})
	g.Go(func() error {
		return ranged("filing_date").
			Select("strftime('%Y-%m', filing_date) as month, COUNT(*) as count").
			Where("filing_date >= ?", time.Now().AddDate(-1, 0, 0)).
			Group("month").
			Order("month ASC").
			Scan(&payload.MonthlyTrend).Error
	})
	g.Go(func() error {
		return ranged("cases.filing_date").
			Select(`cases.id as case_id, cases.case_number, cases.title, cases.status,
				COALESCE(SUM(time_entries.hours), 0) as hours,
				COALESCE(SUM(time_entries.billable_amount), 0) as revenue`).
			Joins("LEFT JOIN time_entries ON time_entries.case_id = cases.id AND time_entries.deleted_at IS NULL").
			Group("cases.id, cases.case_number, cases.title, cases.status").
			Order("revenue DESC").
			Limit(50).
			Scan(&payload.CasePerformance).Error
	})
	g.Go(func() error {
		return ranged("filing_date").
			Select(`COALESCE(AVG(julianday(closed_at) - julianday(filing_date)), 0) as avg_days,
				COALESCE(MIN(julianday(closed_at) - julianday(filing_date)), 0) as min_days,
				COALESCE(MAX(julianday(closed_at) - julianday(filing_date)), 0) as max_days`).
			Where("closed_at IS NOT NULL AND filing_date IS NOT NULL").
			Scan(&payload.TimeToClose).Error
	})

	if err := g.Wait(); err != nil {
		return respondServerError(c, "Failed to compute case analytics", err)
	}

	return respondData(c, http.StatusOK, payload)
}

// DashboardAnalytics is the payload of the practice dashboard endpoint
type DashboardAnalytics struct {
	Cases struct {
		Total  int64 `json:"total"`
		Open   int64 `json:"open"`
		Closed int64 `json:"closed"`
	} `json:"cases"`
	Customers struct {
		Total  int64 `json:"total"`
		Active int64 `json:"active"`
	} `json:"customers"`
	Billing struct {
		TotalBilled    float64 `json:"total_billed"`
		TotalPaid      float64 `json:"total_paid"`
		Outstanding    float64 `json:"outstanding"`
		UnbilledAmount float64 `json:"unbilled_amount"`
		UnbilledHours  float64 `json:"unbilled_hours"`
	} `json:"billing"`
	Compliance struct {
		Pending int64 `json:"pending"`
		Overdue int64 `json:"overdue"`
	} `json:"compliance"`
	RecentCases      []models.Case     `json:"recent_cases"`
	UpcomingHearings []models.Case     `json:"upcoming_hearings"`
	RecentActivity   []models.AuditLog `json:"recent_activity"`
}

// GetDashboardAnalytics aggregates the practice-wide dashboard. The
// sub-queries run concurrently and any failure fails the whole request.
func GetDashboardAnalytics(c echo.Context) error {
	var payload DashboardAnalytics
	g, _ := errgroup.WithContext(c.Request().Context())

	g.Go(func() error {
		return db.DB.Model(&models.Case{}).Count(&payload.Cases.Total).Error
	})
	g.Go(func() error {
		return db.DB.Model(&models.Case{}).
			Where("status != ?", models.CaseStatusClosed).
			Count(&payload.Cases.Open).Error
	})
	g.Go(func() error {
		return db.DB.Model(&models.Case{}).
			Where("status = ?", models.CaseStatusClosed).
			Count(&payload.Cases.Closed).Error
	})
	g.Go(func() error {
		return db.DB.Model(&models.Customer{}).Count(&payload.Customers.Total).Error
	})
	g.Go(func() error {
		return db.DB.Model(&models.Customer{}).
			Where("status = ?", models.CustomerStatusActive).
			Count(&payload.Customers.Active).Error
	})
	g.Go(func() error {
		row := struct {
			TotalBilled float64
			TotalPaid   float64
			Outstanding float64
		}{}
		err := db.DB.Model(&models.Invoice{}).
			Select(`COALESCE(SUM(total_amount), 0) as total_billed,
				COALESCE(SUM(CASE WHEN status = 'paid' THEN total_amount ELSE 0 END), 0) as total_paid,
				COALESCE(SUM(CASE WHEN status IN ('sent', 'overdue') THEN total_amount ELSE 0 END), 0) as outstanding`).
			Scan(&row).Error
		payload.Billing.TotalBilled = row.TotalBilled
		payload.Billing.TotalPaid = row.TotalPaid
		payload.Billing.Outstanding = row.Outstanding
		return err
	})
	g.Go(func() error {
		row := struct {
			Amount float64
			Hours  float64
		}{}
		err := db.DB.Model(&models.TimeEntry{}).
			Select("COALESCE(SUM(billable_amount), 0) as amount, COALESCE(SUM(hours), 0) as hours").
			Where("billable = ? AND invoice_id IS NULL", true).
			Scan(&row).Error
		payload.Billing.UnbilledAmount = row.Amount
		payload.Billing.UnbilledHours = row.Hours
		return err
	})
	g.Go(func() error {
		return db.DB.Model(&models.ComplianceItem{}).
			Where("status = ?", models.ComplianceStatusPending).
			Count(&payload.Compliance.Pending).Error
	})
	g.Go(func() error {
		return db.DB.Model(&models.ComplianceItem{}).
			Where("due_date < ? AND status != ?", time.Now(), models.ComplianceStatusCompleted).
			Count(&payload.Compliance.Overdue).Error
	})
	g.Go(func() error {
		return db.DB.
			Preload("Customer").
			Order("created_at DESC").
			Limit(5).
			Find(&payload.RecentCases).Error
	})
	g.Go(func() error {
		return db.DB.
			Preload("Customer").
			Where("hearing_date >= ?", time.Now()).
			Order("hearing_date ASC").
			Limit(5).
			Find(&payload.UpcomingHearings).Error
	})
	g.Go(func() error {
		return db.DB.
			Preload("User").
			Order("created_at DESC").
			Limit(10).
			Find(&payload.RecentActivity).Error
	})

	if err := g.Wait(); err != nil {
		return respondServerError(c, "Failed to compute dashboard analytics", err)
	}

	return respondData(c, http.StatusOK, payload)
}
