package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/pkg/pagination"
)

// MovementRepository is the append-only inventory movement log
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	List(ctx context.Context, params *MovementFilterParams) ([]entity.InventoryMovement, int64, error)
	// SumDeltas replays the log for one product
	SumDeltas(ctx context.Context, productID uuid.UUID) (int, error)
}

// MovementFilterParams contains filtering parameters for movement queries
type MovementFilterParams struct {
	Pagination   *pagination.PaginationParams
	ProductID    *uuid.UUID
	MovementType *enum.MovementType
	PerformedBy  *uuid.UUID
	Reference    string
	StartDate    *time.Time
	EndDate      *time.Time
}
