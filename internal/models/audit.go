package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	AuditSaved           = "saved"
	AuditValidationError = "validation_error"
	AuditStorageError    = "storage_error"
	AuditDeleted         = "deleted"
)

// StorageAudit is one row per storage outcome. It lives in Postgres so the
// trail survives deletes in the document store.
type StorageAudit struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ResumeID  string `gorm:"column:resume_id;type:text;index" json:"resume_id"`
	RequestID string `gorm:"column:request_id;type:text" json:"request_id"`
	Outcome   string `gorm:"column:outcome;type:text;index" json:"outcome"`
	Code      string `gorm:"column:code;type:text" json:"code,omitempty"`

	Fields pq.StringArray `gorm:"column:fields;type:text[]" json:"fields"`

	// free-form context, ex: {"score": 72, "mimeType": "application/pdf"}
	Detail datatypes.JSON `gorm:"column:detail;type:jsonb" json:"detail"`

	ProcessingMS int64     `gorm:"column:processing_ms;type:bigint" json:"processing_ms"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (StorageAudit) TableName() string { return "storage_audits" }
