package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportReport streams an XLSX workbook of the requested report. The same
// query filters as the corresponding list endpoints apply.
func ExportReport(c echo.Context) error {
	reportType := c.QueryParam("type")

	f := excelize.NewFile()
	defer f.Close()

	var err error
	switch reportType {
	case "cases":
		err = exportCases(c, f)
	case "time-entries":
		err = exportTimeEntries(c, f)
	default:
		return respondError(c, http.StatusBadRequest, "Invalid report type")
	}
	if err != nil {
		return respondServerError(c, "Failed to export report", err)
	}

	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s_report_%s.xlsx"`, reportType, time.Now().Format("20060102_150405")))

	_, err = f.WriteTo(c.Response().Writer)
	return err
}

// writeHeaderRow writes and bolds the first row of a sheet
func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}

func exportCases(c echo.Context, f *excelize.File) error {
	const sheet = "Cases"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Case Number", "Title", "Type", "Status", "Priority",
		"Client", "Assigned Attorney", "Filing Date", "Hearing Date",
		"Estimated Value", "Court",
	}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return err
	}

	query := caseFilteredQuery(c).
		Preload("Customer").
		Preload("AssignedAttorney").
		Order("created_at DESC")

	var cases []models.Case
	row := 2
	result := query.FindInBatches(&cases, 100, func(tx *gorm.DB, batch int) error {
		for _, caseRecord := range cases {
			customer := ""
			if caseRecord.Customer != nil {
				customer = caseRecord.Customer.Name
			}
			attorney := ""
			if caseRecord.AssignedAttorney != nil {
				attorney = caseRecord.AssignedAttorney.Name
			}
			filingDate := ""
			if caseRecord.FilingDate != nil {
				filingDate = caseRecord.FilingDate.Format("2006-01-02")
			}
			hearingDate := ""
			if caseRecord.HearingDate != nil {
				hearingDate = caseRecord.HearingDate.Format("2006-01-02")
			}
			estimatedValue := ""
			if caseRecord.EstimatedValue != nil {
				estimatedValue = fmt.Sprintf("%.2f", *caseRecord.EstimatedValue)
			}

			values := []interface{}{
				caseRecord.CaseNumber, caseRecord.Title, caseRecord.CaseType,
				caseRecord.Status, caseRecord.Priority, customer, attorney,
				filingDate, hearingDate, estimatedValue, caseRecord.CourtName,
			}
			if err := writeRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
		return nil
	})

	f.SetColWidth(sheet, "A", "K", 20)
	return result.Error
}

func exportTimeEntries(c echo.Context, f *excelize.File) error {
	const sheet = "Time Entries"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Date", "Case", "User", "Description", "Task Type",
		"Hours", "Billable", "Hourly Rate", "Billable Amount", "Invoiced",
	}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return err
	}

	query := timeEntryFilteredQuery(c).
		Preload("Case").
		Preload("User").
		Order("date DESC")

	var entries []models.TimeEntry
	row := 2
	result := query.FindInBatches(&entries, 100, func(tx *gorm.DB, batch int) error {
		for _, entry := range entries {
			caseTitle := ""
			if entry.Case != nil {
				caseTitle = entry.Case.Title
			}
			userName := ""
			if entry.User != nil {
				userName = entry.User.Name
			}

			values := []interface{}{
				entry.Date.Format("2006-01-02"), caseTitle, userName,
				entry.Description, entry.TaskType, entry.Hours,
				entry.Billable, entry.HourlyRate, entry.BillableAmount,
				entry.IsInvoiced(),
			}
			if err := writeRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
		return nil
	})

	f.SetColWidth(sheet, "A", "J", 18)
	return result.Error
}

// writeRow writes one data row starting at column A
func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
