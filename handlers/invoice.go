package handlers

import (
	"net/http"
	"time"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/config"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/middleware"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/services"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// InvoiceStats summarizes the filtered invoice set
type InvoiceStats struct {
	TotalAmount       float64 `json:"total_amount"`
	PaidAmount        float64 `json:"paid_amount"`
	OutstandingAmount float64 `json:"outstanding_amount"`
	DraftCount        int64   `json:"draft_count"`
	SentCount         int64   `json:"sent_count"`
	PaidCount         int64   `json:"paid_count"`
	OverdueCount      int64   `json:"overdue_count"`
}

// invoiceFilteredQuery applies the recognized invoice list filters
func invoiceFilteredQuery(c echo.Context) *gorm.DB {
	query := db.DB.Model(&models.Invoice{})

	if customerID := c.QueryParam("clientId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("invoice_number LIKE ?", pattern)
	}
	query = applyDateRange(query, "invoice_date", c.QueryParam("startDate"), c.QueryParam("endDate"))

	return query
}

// invoiceStats computes the stats companion over the same filter set
func invoiceStats(c echo.Context) (*InvoiceStats, error) {
	stats := &InvoiceStats{}
	err := invoiceFilteredQuery(c).
		Select(`COALESCE(SUM(total_amount), 0) as total_amount,
			COALESCE(SUM(CASE WHEN status = 'paid' THEN total_amount ELSE 0 END), 0) as paid_amount,
			COALESCE(SUM(CASE WHEN status IN ('sent', 'overdue') THEN total_amount ELSE 0 END), 0) as outstanding_amount,
			COALESCE(SUM(CASE WHEN status = 'draft' THEN 1 ELSE 0 END), 0) as draft_count,
			COALESCE(SUM(CASE WHEN status = 'sent' THEN 1 ELSE 0 END), 0) as sent_count,
			COALESCE(SUM(CASE WHEN status = 'paid' THEN 1 ELSE 0 END), 0) as paid_count,
			COALESCE(SUM(CASE WHEN status = 'overdue' THEN 1 ELSE 0 END), 0) as overdue_count`).
		Scan(stats).Error
	return stats, err
}

// GetInvoices returns invoices matching the query filters with stats
func GetInvoices(c echo.Context) error {
	var invoices []models.Invoice
	if err := invoiceFilteredQuery(c).
		Preload("Customer").
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		return respondServerError(c, "Failed to fetch invoices", err)
	}

	stats, err := invoiceStats(c)
	if err != nil {
		return respondServerError(c, "Failed to fetch invoices", err)
	}

	return respondList(c, http.StatusOK, invoices, stats, nil, len(invoices))
}

// GetInvoice returns a single invoice with its time entries
func GetInvoice(c echo.Context) error {
	var invoice models.Invoice
	if err := db.DB.
		Preload("Customer").
		Preload("Engagement").
		Preload("TimeEntries").
		Preload("TimeEntries.User").
		First(&invoice, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Invoice not found")
	}

	return respondData(c, http.StatusOK, invoice)
}

// CreateInvoiceRequest is the payload for invoice creation
type CreateInvoiceRequest struct {
	CustomerID     string   `json:"client_id"`
	EngagementID   *string  `json:"engagement_id"`
	DueDate        string   `json:"due_date"`
	LineItems      string   `json:"line_items"`
	Subtotal       float64  `json:"subtotal"`
	TaxRate        float64  `json:"tax_rate"`
	DiscountAmount float64  `json:"discount_amount"`
	Notes          string   `json:"notes"`
	Terms          string   `json:"terms"`
	TimeEntryIDs   []string `json:"time_entry_ids"`
}

// Validate enforces the invoice creation field rules
func (r CreateInvoiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CustomerID, validation.Required),
	)
}

// CreateInvoice creates an invoice in one transaction: the number is drawn
// from the atomic sequence, any referenced time entries are attached and
// rolled into the subtotal, and the audit record is written. Any failure
// rolls the whole thing back, sequence advance included.
func CreateInvoice(c echo.Context) error {
	var req CreateInvoiceRequest
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

	currentUser := middleware.GetCurrentUser(c)
	invoice := models.Invoice{
		CustomerID:     req.CustomerID,
		EngagementID:   req.EngagementID,
		LineItems:      req.LineItems,
		Subtotal:       req.Subtotal,
		TaxRate:        req.TaxRate,
		DiscountAmount: req.DiscountAmount,
		Notes:          req.Notes,
		Terms:          req.Terms,
		Status:         models.InvoiceStatusDraft,
		CreatedBy:      &currentUser.ID,
	}
	if date, ok := parseDateParam(req.DueDate); ok {
		invoice.DueDate = &date
	}

	var conflict string
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		number, err := services.NextInvoiceNumber(tx)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number

		var entries []models.TimeEntry
		if len(req.TimeEntryIDs) > 0 {
			if err := tx.Where("id IN ?", req.TimeEntryIDs).Find(&entries).Error; err != nil {
				return err
			}
			for _, entry := range entries {
				if entry.IsInvoiced() {
					conflict = "Time entry " + entry.ID + " is already invoiced"
					return gorm.ErrInvalidData
				}
				if !entry.Billable {
					conflict = "Time entry " + entry.ID + " is not billable"
					return gorm.ErrInvalidData
				}
				invoice.Subtotal += entry.BillableAmount
			}
		}

		invoice.TaxAmount = invoice.Subtotal * invoice.TaxRate / 100
		invoice.TotalAmount = invoice.Subtotal + invoice.TaxAmount - invoice.DiscountAmount

		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		if len(entries) > 0 {
			ids := make([]string, 0, len(entries))
			for _, entry := range entries {
				ids = append(ids, entry.ID)
			}
			if err := tx.Model(&models.TimeEntry{}).
				Where("id IN ?", ids).
				Update("invoice_id", invoice.ID).Error; err != nil {
				return err
			}
		}

		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditInvoiceCreated, "invoice", invoice.ID,
			map[string]interface{}{"invoice_number": invoice.InvoiceNumber, "total_amount": invoice.TotalAmount})
	})
	if err != nil {
		if conflict != "" {
			return respondError(c, http.StatusConflict, conflict)
		}
		return respondServerError(c, "Failed to create invoice", err)
	}

	return respondData(c, http.StatusCreated, invoice)
}

// UpdateInvoiceRequest is the typed field set accepted by PATCH
type UpdateInvoiceRequest struct {
	Status         *string  `json:"status"`
	DueDate        *string  `json:"due_date"`
	LineItems      *string  `json:"line_items"`
	Subtotal       *float64 `json:"subtotal"`
	TaxRate        *float64 `json:"tax_rate"`
	DiscountAmount *float64 `json:"discount_amount"`
	Notes          *string  `json:"notes"`
	Terms          *string  `json:"terms"`
}

// UpdateInvoice applies the supplied fields and audits atomically. Moving to
// "sent" stamps sent_at and notifies the customer; moving to "paid" stamps
// paid_at.
func UpdateInvoice(c echo.Context) error {
	var invoice models.Invoice
	if err := db.DB.Preload("Customer").First(&invoice, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Invoice not found")
	}

	var req UpdateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Status != nil && !models.IsValidInvoiceStatus(*req.Status) {
		return respondError(c, http.StatusBadRequest, "Invalid invoice status")
	}

	notifySent := false
	changes := map[string]interface{}{}
	if req.Status != nil && *req.Status != invoice.Status {
		changes["status"] = *req.Status
		now := time.Now()
		switch *req.Status {
		case models.InvoiceStatusSent:
			invoice.SentAt = &now
			notifySent = true
		case models.InvoiceStatusPaid:
			invoice.PaidAt = &now
		}
		invoice.Status = *req.Status
	}
	if req.DueDate != nil {
		if date, ok := parseDateParam(*req.DueDate); ok {
			invoice.DueDate = &date
			changes["due_date"] = *req.DueDate
		}
	}
	if req.LineItems != nil {
		invoice.LineItems = *req.LineItems
		changes["line_items"] = true
	}
	if req.Subtotal != nil {
		invoice.Subtotal = *req.Subtotal
		changes["subtotal"] = *req.Subtotal
	}
	if req.TaxRate != nil {
		invoice.TaxRate = *req.TaxRate
		changes["tax_rate"] = *req.TaxRate
	}
	if req.DiscountAmount != nil {
		invoice.DiscountAmount = *req.DiscountAmount
		changes["discount_amount"] = *req.DiscountAmount
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
		changes["notes"] = *req.Notes
	}
	if req.Terms != nil {
		invoice.Terms = *req.Terms
		changes["terms"] = *req.Terms
	}

	if len(changes) == 0 {
		return respondError(c, http.StatusBadRequest, "No valid fields to update")
	}

	if req.Subtotal != nil || req.TaxRate != nil || req.DiscountAmount != nil {
		invoice.TaxAmount = invoice.Subtotal * invoice.TaxRate / 100
		invoice.TotalAmount = invoice.Subtotal + invoice.TaxAmount - invoice.DiscountAmount
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&invoice).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditInvoiceUpdated, "invoice", invoice.ID, changes)
	})
	if err != nil {
		return respondServerError(c, "Failed to update invoice", err)
	}

	if notifySent && invoice.Customer != nil && invoice.Customer.Email != "" {
		if cfg, ok := c.Get(middleware.ContextKeyConfig).(*config.Config); ok {
			services.SendEmailAsync(cfg, services.BuildInvoiceSentEmail(&invoice, invoice.Customer))
		}
	}

	return respondMessage(c, http.StatusOK, invoice, "Invoice updated successfully")
}

// DeleteInvoice soft-deletes an invoice and audits atomically. Paid invoices
// are never deleted. Attached time entries are detached first so they return
// to the unbilled pool.
func DeleteInvoice(c echo.Context) error {
	var invoice models.Invoice
	if err := db.DB.First(&invoice, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Invoice not found")
	}
	if invoice.Status == models.InvoiceStatusPaid {
		return respondError(c, http.StatusConflict, "Cannot delete a paid invoice")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TimeEntry{}).
			Where("invoice_id = ?", invoice.ID).
			Update("invoice_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&invoice).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditInvoiceDeleted, "invoice", invoice.ID,
			map[string]interface{}{"soft_delete": true, "invoice_number": invoice.InvoiceNumber})
	})
	if err != nil {
		return respondServerError(c, "Failed to delete invoice", err)
	}

	return c.JSON(http.StatusOK, Envelope{Success: true, Message: "Invoice deleted successfully"})
}
