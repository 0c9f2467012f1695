package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/pkg/pagination"
)

// recordAudit appends an audit row in the caller's unit of work so the trail
// commits or rolls back with the change it describes.
func recordAudit(ctx context.Context, repos *repository.Repositories, action, model string, objectID, userID uuid.UUID, details map[string]interface{}) error {
	log := &entity.AuditLog{
		Action:    action,
		ModelName: model,
		ObjectID:  objectID.String(),
		UserID:    userID,
	}
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		log.Details = string(raw)
	}
	return repos.Audit.Create(ctx, log)
}

// AuditService exposes the audit trail
type AuditService struct {
	auditRepo repository.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repository.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// ListAuditLogs lists audit rows newest first
func (s *AuditService) ListAuditLogs(ctx context.Context, params *repository.AuditFilterParams) (*pagination.PaginatedResult[entity.AuditLog], error) {
	params.Pagination = pageParams(params.Pagination)
	logs, total, err := s.auditRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(logs, pag), nil
}

// pageParams substitutes defaults for missing pagination
func pageParams(p *pagination.PaginationParams) *pagination.PaginationParams {
	if p == nil {
		return pagination.DefaultPagination()
	}
	p.Validate()
	return p
}
