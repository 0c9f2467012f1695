package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/pkg/pagination"
)

// ReconciliationRepository defines the interface for stock count operations
type ReconciliationRepository interface {
	Create(ctx context.Context, recon *entity.Reconciliation) error
	// GetByID loads the reconciliation with its items and their products
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Reconciliation, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reconciliation, error)
	// Update writes the header row only
	Update(ctx context.Context, recon *entity.Reconciliation) error
	// UpsertItem replaces any earlier count of the same product
	UpsertItem(ctx context.Context, item *entity.ReconciliationItem) error
	ListItems(ctx context.Context, reconciliationID uuid.UUID) ([]entity.ReconciliationItem, error)
	MarkItemCorrected(ctx context.Context, itemID, movementID uuid.UUID) error
	List(ctx context.Context, params *ReconciliationFilterParams) ([]entity.Reconciliation, int64, error)
	CountByStatus(ctx context.Context, status enum.ReconciliationStatus) (int64, error)
}

// ReconciliationFilterParams contains filtering parameters for reconciliation queries
type ReconciliationFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.ReconciliationStatus
	Type       *enum.ReconciliationType
}
