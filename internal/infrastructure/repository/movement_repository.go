package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	domainRepo "github.com/sangkips/spareshop-api/internal/domain/repository"
	"gorm.io/gorm"
)

type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository creates a new inventory movement repository
func NewMovementRepository(db *gorm.DB) domainRepo.MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	return translateError(r.db.WithContext(ctx).Create(movement).Error)
}

func (r *movementRepository) List(ctx context.Context, params *domainRepo.MovementFilterParams) ([]entity.InventoryMovement, int64, error) {
	var movements []entity.InventoryMovement
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.InventoryMovement{})

	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}
	if params.MovementType != nil {
		query = query.Where("movement_type = ?", *params.MovementType)
	}
	if params.PerformedBy != nil {
		query = query.Where("performed_by = ?", *params.PerformedBy)
	}
	if params.Reference != "" {
		query = query.Where("reference = ?", params.Reference)
	}
	query = query.Scopes(DateRange("created_at", params.StartDate, params.EndDate))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination = ensurePagination(params.Pagination)
	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Product").
		Order("created_at DESC, id DESC").
		Find(&movements).Error

	return movements, total, err
}

func (r *movementRepository) SumDeltas(ctx context.Context, productID uuid.UUID) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).Model(&entity.InventoryMovement{}).
		Select("COALESCE(SUM(quantity_delta), 0)").
		Where("product_id = ?", productID).
		Scan(&sum).Error
	return sum, err
}
