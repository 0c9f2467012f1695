package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/pkg/pagination"
)

// AuditRepository stores the audit trail
type AuditRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	List(ctx context.Context, params *AuditFilterParams) ([]entity.AuditLog, int64, error)
}

// AuditFilterParams contains filtering parameters for audit queries
type AuditFilterParams struct {
	Pagination *pagination.PaginationParams
	ModelName  string
	ObjectID   string
	Action     string
	UserID     *uuid.UUID
}
