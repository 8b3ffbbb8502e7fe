package postgres

import (
	"context"

	"github.com/yoockh/roastcv/internal/models"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Insert(ctx context.Context, a *models.StorageAudit) error
	ListByResume(ctx context.Context, resumeID string, limit int) ([]models.StorageAudit, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Insert(ctx context.Context, a *models.StorageAudit) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *auditRepo) ListByResume(ctx context.Context, resumeID string, limit int) ([]models.StorageAudit, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []models.StorageAudit
	err := r.db.WithContext(ctx).
		Where("resume_id = ?", resumeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
