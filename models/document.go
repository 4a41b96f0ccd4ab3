package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document represents file metadata attached to a case and/or customer.
// At least one of CaseID or CustomerID must be set; this is enforced at the
// handler layer since sqlite check constraints are not portable across
// the deployments we target.
type Document struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CaseID     *string   `gorm:"type:uuid;index" json:"case_id,omitempty"`
	Case       *Case     `gorm:"foreignKey:CaseID" json:"case,omitempty"`
	CustomerID *string   `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	FileName    string `gorm:"not null" json:"file_name"`
	FilePath    string `gorm:"not null" json:"file_path"`
	FileType    string `json:"file_type,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
	Category    string `gorm:"index" json:"category,omitempty"`
	Tags        string `gorm:"type:text" json:"tags,omitempty"` // JSON encoded list

	IsConfidential bool `gorm:"not null;default:false" json:"is_confidential"`
	DownloadCount  int  `gorm:"not null;default:0" json:"download_count"`

	UploadedByID *string `gorm:"type:uuid" json:"uploaded_by_id,omitempty"`
	UploadedBy   *User   `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Document model
func (Document) TableName() string {
	return "documents"
}
