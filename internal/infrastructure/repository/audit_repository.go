package repository

import (
	"context"

	"github.com/sangkips/spareshop-api/internal/domain/entity"
	domainRepo "github.com/sangkips/spareshop-api/internal/domain/repository"
	"gorm.io/gorm"
)

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit log repository
func NewAuditRepository(db *gorm.DB) domainRepo.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditRepository) List(ctx context.Context, params *domainRepo.AuditFilterParams) ([]entity.AuditLog, int64, error) {
	var logs []entity.AuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.AuditLog{})
	if params.ModelName != "" {
		query = query.Where("model_name = ?", params.ModelName)
	}
	if params.ObjectID != "" {
		query = query.Where("object_id = ?", params.ObjectID)
	}
	if params.Action != "" {
		query = query.Where("action = ?", params.Action)
	}
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination = ensurePagination(params.Pagination)
	err := query.Scopes(Paginate(params.Pagination)).
		Order("created_at DESC").
		Find(&logs).Error

	return logs, total, err
}
