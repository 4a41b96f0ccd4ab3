package handlers

import (
	"net/http"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/db"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/middleware"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/services"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// documentFilteredQuery applies the recognized document list filters
func documentFilteredQuery(c echo.Context) *gorm.DB {
	query := db.DB.Model(&models.Document{})

	if caseID := c.QueryParam("caseId"); caseID != "" {
		query = query.Where("case_id = ?", caseID)
	}
	if customerID := c.QueryParam("clientId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if category := c.QueryParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR file_name LIKE ? OR description LIKE ?", pattern, pattern, pattern)
	}
	if confidential := c.QueryParam("confidential"); confidential != "" {
		query = query.Where("is_confidential = ?", confidential == "true")
	}

	return query
}

// GetDocuments returns documents matching the query filters, newest first
func GetDocuments(c echo.Context) error {
	var documents []models.Document
	if err := documentFilteredQuery(c).
		Preload("Case").
		Preload("Customer").
		Preload("UploadedBy").
		Order("created_at DESC").
		Find(&documents).Error; err != nil {
		return respondServerError(c, "Failed to fetch documents", err)
	}

	return respondList(c, http.StatusOK, documents, nil, nil, len(documents))
}

// GetDocument returns a single document and counts the access
func GetDocument(c echo.Context) error {
	var document models.Document
	if err := db.DB.
		Preload("Case").
		Preload("Customer").
		Preload("UploadedBy").
		First(&document, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Document not found")
	}

	if err := db.DB.Model(&document).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
		return respondServerError(c, "Failed to fetch document", err)
	}
	document.DownloadCount++

	return respondData(c, http.StatusOK, document)
}

// DownloadDocument streams the stored file for a document
func DownloadDocument(c echo.Context) error {
	var document models.Document
	if err := db.DB.First(&document, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Document not found")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), document.FilePath)
	if err != nil {
		return respondServerError(c, "Failed to download document", err)
	}
	defer reader.Close()

	if err := db.DB.Model(&document).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
		return respondServerError(c, "Failed to download document", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+document.FileName+`"`)
	return c.Stream(http.StatusOK, contentType, reader)
}

// CreateDocumentRequest is the metadata payload accompanying an upload
type CreateDocumentRequest struct {
	CaseID         *string `json:"case_id" form:"case_id"`
	CustomerID     *string `json:"client_id" form:"client_id"`
	Title          string  `json:"title" form:"title"`
	Description    string  `json:"description" form:"description"`
	FileName       string  `json:"file_name" form:"file_name"`
	FilePath       string  `json:"file_path" form:"file_path"`
	FileType       string  `json:"file_type" form:"file_type"`
	FileSize       int64   `json:"file_size" form:"file_size"`
	Category       string  `json:"category" form:"category"`
	Tags           string  `json:"tags" form:"tags"`
	IsConfidential bool    `json:"is_confidential" form:"is_confidential"`
}

// Validate enforces the document creation field rules
func (r CreateDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
	)
}

// CreateDocument records document metadata and stores the file when one was
// uploaded. A document must reference a case, a customer, or both.
func CreateDocument(c echo.Context) error {
	var req CreateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	hasCase := req.CaseID != nil && *req.CaseID != ""
	hasCustomer := req.CustomerID != nil && *req.CustomerID != ""
	if !hasCase && !hasCustomer {
		return respondError(c, http.StatusBadRequest, "Document must reference a case or a client")
	}

	if hasCase {
		var caseRecord models.Case
		if err := db.DB.First(&caseRecord, "id = ?", *req.CaseID).Error; err != nil {
			return respondError(c, http.StatusNotFound, "Case not found")
		}
	}
	if hasCustomer {
		var customer models.Customer
		if err := db.DB.First(&customer, "id = ?", *req.CustomerID).Error; err != nil {
			return respondError(c, http.StatusNotFound, "Customer not found")
		}
	}

	currentUser := middleware.GetCurrentUser(c)
	document := models.Document{
		Title:          req.Title,
		Description:    req.Description,
		FileName:       req.FileName,
		FilePath:       req.FilePath,
		FileType:       req.FileType,
		FileSize:       req.FileSize,
		Category:       req.Category,
		Tags:           req.Tags,
		IsConfidential: req.IsConfidential,
		UploadedByID:   &currentUser.ID,
	}
	if hasCase {
		document.CaseID = req.CaseID
	}
	if hasCustomer {
		document.CustomerID = req.CustomerID
	}

	// Multipart uploads carry the file itself; JSON creates only register
	// metadata for a file stored elsewhere.
	file, fileErr := c.FormFile("file")
	if fileErr == nil && file != nil {
		document.ID = uuid.New().String()
		key := services.DocumentKey(document.ID, file.Filename)
		stored, err := services.Storage.Upload(c.Request().Context(), file, key)
		if err != nil {
			return respondServerError(c, "Failed to store document file", err)
		}
		document.FileName = stored.FileName
		document.FilePath = stored.Key
		document.FileType = stored.MimeType
		document.FileSize = stored.FileSize
	}

	if document.FileName == "" || document.FilePath == "" {
		return respondError(c, http.StatusBadRequest, "file_name and file_path are required")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&document).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditDocumentCreated, "document", document.ID,
			map[string]interface{}{"title": document.Title, "file_name": document.FileName})
	})
	if err != nil {
		return respondServerError(c, "Failed to create document", err)
	}

	return respondData(c, http.StatusCreated, document)
}

// UpdateDocumentRequest is the typed field set accepted by PATCH
type UpdateDocumentRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Category       *string `json:"category"`
	Tags           *string `json:"tags"`
	IsConfidential *bool   `json:"is_confidential"`
}

// UpdateDocument applies metadata changes and audits atomically
func UpdateDocument(c echo.Context) error {
	var document models.Document
	if err := db.DB.First(&document, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Document not found")
	}

	var req UpdateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	changes := map[string]interface{}{}
	if req.Title != nil {
		document.Title = *req.Title
		changes["title"] = *req.Title
	}
	if req.Description != nil {
		document.Description = *req.Description
		changes["description"] = *req.Description
	}
	if req.Category != nil {
		document.Category = *req.Category
		changes["category"] = *req.Category
	}
	if req.Tags != nil {
		document.Tags = *req.Tags
		changes["tags"] = *req.Tags
	}
	if req.IsConfidential != nil {
		document.IsConfidential = *req.IsConfidential
		changes["is_confidential"] = *req.IsConfidential
	}

	if len(changes) == 0 {
		return respondError(c, http.StatusBadRequest, "No valid fields to update")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&document).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditDocumentUpdated, "document", document.ID, changes)
	})
	if err != nil {
		return respondServerError(c, "Failed to update document", err)
	}

	return respondMessage(c, http.StatusOK, document, "Document updated successfully")
}

// DeleteDocument soft-deletes a document and audits atomically. The stored
// file is left in place so the record can be restored.
func DeleteDocument(c echo.Context) error {
	var document models.Document
	if err := db.DB.First(&document, "id = ?", c.Param("id")).Error; err != nil {
		return respondError(c, http.StatusNotFound, "Document not found")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&document).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, middleware.GetAuditContext(c), models.AuditDocumentDeleted, "document", document.ID,
			map[string]interface{}{"soft_delete": true, "title": document.Title, "file_name": document.FileName})
	})
	if err != nil {
		return respondServerError(c, "Failed to delete document", err)
	}

	return c.JSON(http.StatusOK, Envelope{Success: true, Message: "Document deleted successfully"})
}
