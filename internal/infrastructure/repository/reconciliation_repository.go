package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	domainRepo "github.com/sangkips/spareshop-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reconciliationRepository struct {
	db *gorm.DB
}

// NewReconciliationRepository creates a new reconciliation repository
func NewReconciliationRepository(db *gorm.DB) domainRepo.ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

func (r *reconciliationRepository) Create(ctx context.Context, recon *entity.Reconciliation) error {
	return translateError(r.db.WithContext(ctx).Create(recon).Error)
}

func (r *reconciliationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Reconciliation, error) {
	var recon entity.Reconciliation
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Product").
		First(&recon, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &recon, err
}

func (r *reconciliationRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reconciliation, error) {
	var recon entity.Reconciliation
	err := r.db.WithContext(ctx).
		Scopes(ForUpdate()).
		First(&recon, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &recon, translateError(err)
}

func (r *reconciliationRepository) Update(ctx context.Context, recon *entity.Reconciliation) error {
	err := r.db.WithContext(ctx).Model(recon).
		Select("status", "completed_at", "approved_by", "approved_at", "total_discrepancies", "rejection_reason", "notes").
		Updates(recon).Error
	return translateError(err)
}

// UpsertItem relies on the (reconciliation_id, product_id) unique index
func (r *reconciliationRepository) UpsertItem(ctx context.Context, item *entity.ReconciliationItem) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "reconciliation_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"system_count", "physical_count", "variance", "has_discrepancy", "discrepancy_reason", "updated_at",
			}),
		}).
		Create(item).Error
	return translateError(err)
}

func (r *reconciliationRepository) ListItems(ctx context.Context, reconciliationID uuid.UUID) ([]entity.ReconciliationItem, error) {
	var items []entity.ReconciliationItem
	err := r.db.WithContext(ctx).
		Where("reconciliation_id = ?", reconciliationID).
		Order("product_id ASC").
		Find(&items).Error
	return items, err
}

func (r *reconciliationRepository) MarkItemCorrected(ctx context.Context, itemID, movementID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.ReconciliationItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"correction_applied":     true,
			"adjustment_movement_id": movementID,
		}).Error
}

func (r *reconciliationRepository) List(ctx context.Context, params *domainRepo.ReconciliationFilterParams) ([]entity.Reconciliation, int64, error) {
	var recons []entity.Reconciliation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Reconciliation{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Type != nil {
		query = query.Where("reconciliation_type = ?", *params.Type)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination = ensurePagination(params.Pagination)
	err := query.Scopes(Paginate(params.Pagination)).
		Order("reconciliation_date DESC").
		Find(&recons).Error

	return recons, total, err
}

func (r *reconciliationRepository) CountByStatus(ctx context.Context, status enum.ReconciliationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Reconciliation{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
