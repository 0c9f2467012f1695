package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/pkg/apperror"
	"github.com/sangkips/spareshop-api/pkg/pagination"
	"github.com/sangkips/spareshop-api/pkg/utils"
	"go.uber.org/zap"
)

// ReconciliationService runs physical stock counts through owner approval
type ReconciliationService struct {
	repos  *repository.Repositories
	uow    repository.UnitOfWork
	logger *zap.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(repos *repository.Repositories, uow repository.UnitOfWork, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{
		repos:  repos,
		uow:    uow,
		logger: logger,
	}
}

// StartReconciliationInput represents the start reconciliation input
type StartReconciliationInput struct {
	UserID uuid.UUID
	Type   enum.ReconciliationType
	Notes  *string
}

// Start opens a new count in progress
func (s *ReconciliationService) Start(ctx context.Context, input *StartReconciliationInput) (*entity.Reconciliation, error) {
	recon := &entity.Reconciliation{
		ReconciliationDate: time.Now().UTC(),
		ReconciliationType: input.Type,
		Status:             enum.ReconciliationInProgress,
		PerformedBy:        input.UserID,
		Notes:              input.Notes,
	}

	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Reconciliations.Create(ctx, recon); err != nil {
			return err
		}
		return recordAudit(ctx, repos, entity.AuditActionCreate, "reconciliation", recon.ID, input.UserID, map[string]interface{}{
			"type": input.Type.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return recon, nil
}

// AddCountInput represents one physical count
type AddCountInput struct {
	ReconciliationID  uuid.UUID
	ProductID         uuid.UUID
	PhysicalCount     int
	DiscrepancyReason *string
}

// AddCount records the physical count of a product against its current
// system stock. Counting the same product again replaces the earlier count.
func (s *ReconciliationService) AddCount(ctx context.Context, input *AddCountInput) (*entity.ReconciliationItem, error) {
	if input.PhysicalCount < 0 {
		return nil, apperror.NewFieldError("physical_count", "must not be negative")
	}

	item := &entity.ReconciliationItem{
		ReconciliationID:  input.ReconciliationID,
		ProductID:         input.ProductID,
		DiscrepancyReason: input.DiscrepancyReason,
	}
	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		recon, err := lockReconciliation(ctx, repos, input.ReconciliationID)
		if err != nil {
			return err
		}
		if recon.Status != enum.ReconciliationInProgress {
			return apperror.NewInvalidStateError("reconciliation", recon.Status.String(), "add counts to")
		}

		product, err := repos.Products.GetByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}
		if err := requireActive(product); err != nil {
			return err
		}

		item.SetCounts(product.QuantityInStock, input.PhysicalCount)
		if err := repos.Reconciliations.UpsertItem(ctx, item); err != nil {
			return err
		}
		item.Product = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Complete closes counting and tallies discrepancies
func (s *ReconciliationService) Complete(ctx context.Context, userID, id uuid.UUID) (*entity.Reconciliation, error) {
	var recon *entity.Reconciliation
	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		recon, err = lockReconciliation(ctx, repos, id)
		if err != nil {
			return err
		}
		if !recon.Status.CanTransitionTo(enum.ReconciliationCompleted) {
			return apperror.NewInvalidStateError("reconciliation", recon.Status.String(), "complete")
		}

		items, err := repos.Reconciliations.ListItems(ctx, id)
		if err != nil {
			return err
		}
		discrepancies := 0
		for _, item := range items {
			if item.HasDiscrepancy {
				discrepancies++
			}
		}

		now := time.Now().UTC()
		recon.Status = enum.ReconciliationCompleted
		recon.CompletedAt = &now
		recon.TotalDiscrepancies = discrepancies
		recon.Items = items
		if err := repos.Reconciliations.Update(ctx, recon); err != nil {
			return err
		}
		return recordAudit(ctx, repos, entity.AuditActionUpdate, "reconciliation", recon.ID, userID, map[string]interface{}{
			"status":        recon.Status.String(),
			"items":         len(items),
			"discrepancies": discrepancies,
		})
	})
	if err != nil {
		return nil, err
	}
	return recon, nil
}

// Approve applies one adjustment movement per discrepancy. The correction
// is the variance recorded at count time, so sales made between the count
// and the approval are preserved. If any correction would drive stock
// negative the whole approval fails.
func (s *ReconciliationService) Approve(ctx context.Context, userID, id uuid.UUID) (*entity.Reconciliation, error) {
	var recon *entity.Reconciliation
	adjusted := 0
	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		recon, err = lockReconciliation(ctx, repos, id)
		if err != nil {
			return err
		}
		if !recon.Status.CanTransitionTo(enum.ReconciliationApproved) {
			return apperror.NewInvalidStateError("reconciliation", recon.Status.String(), "approve")
		}

		items, err := repos.Reconciliations.ListItems(ctx, id)
		if err != nil {
			return err
		}

		var ids []uuid.UUID
		for _, item := range items {
			if item.HasDiscrepancy && !item.CorrectionApplied {
				ids = append(ids, item.ProductID)
			}
		}
		products, err := lockProducts(ctx, repos, utils.DedupeIDs(ids))
		if err != nil {
			return err
		}

		reason := "Reconciliation " + recon.Reference()
		for i := range items {
			item := &items[i]
			if !item.HasDiscrepancy || item.CorrectionApplied {
				continue
			}
			movement, err := applyStockChange(ctx, repos, stockChange{
				Product:   products[item.ProductID],
				Type:      enum.MovementTypeAdjustment,
				Delta:     item.Variance,
				From:      entity.LocationShop,
				To:        entity.LocationShop,
				Reference: recon.Reference(),
				Actor:     userID,
				Notes:     &reason,
			})
			if err != nil {
				return err
			}
			if err := repos.Reconciliations.MarkItemCorrected(ctx, item.ID, movement.ID); err != nil {
				return err
			}
			item.CorrectionApplied = true
			item.AdjustmentMovementID = &movement.ID
			adjusted++
		}

		now := time.Now().UTC()
		recon.Status = enum.ReconciliationApproved
		recon.ApprovedBy = &userID
		recon.ApprovedAt = &now
		recon.Items = items
		if err := repos.Reconciliations.Update(ctx, recon); err != nil {
			return err
		}
		return recordAudit(ctx, repos, entity.AuditActionApprove, "reconciliation", recon.ID, userID, map[string]interface{}{
			"adjustments": adjusted,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reconciliation approved",
		zap.String("reconciliation_id", id.String()),
		zap.Int("adjustments", adjusted),
	)
	return recon, nil
}

// Reject closes a completed count without touching stock
func (s *ReconciliationService) Reject(ctx context.Context, userID, id uuid.UUID, reason string) (*entity.Reconciliation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.NewFieldError("reason", "is required")
	}

	var recon *entity.Reconciliation
	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		recon, err = lockReconciliation(ctx, repos, id)
		if err != nil {
			return err
		}
		if !recon.Status.CanTransitionTo(enum.ReconciliationRejected) {
			return apperror.NewInvalidStateError("reconciliation", recon.Status.String(), "reject")
		}

		now := time.Now().UTC()
		recon.Status = enum.ReconciliationRejected
		recon.ApprovedBy = &userID
		recon.ApprovedAt = &now
		recon.RejectionReason = &reason
		if err := repos.Reconciliations.Update(ctx, recon); err != nil {
			return err
		}
		return recordAudit(ctx, repos, entity.AuditActionReject, "reconciliation", recon.ID, userID, map[string]interface{}{
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}
	return recon, nil
}

// Get retrieves a reconciliation with its items
func (s *ReconciliationService) Get(ctx context.Context, id uuid.UUID) (*entity.Reconciliation, error) {
	recon, err := s.repos.Reconciliations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recon == nil {
		return nil, apperror.NewNotFoundError("Reconciliation")
	}
	return recon, nil
}

// List lists reconciliations newest first
func (s *ReconciliationService) List(ctx context.Context, params *repository.ReconciliationFilterParams) (*pagination.PaginatedResult[entity.Reconciliation], error) {
	params.Pagination = pageParams(params.Pagination)
	recons, total, err := s.repos.Reconciliations.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(recons, pag), nil
}

func lockReconciliation(ctx context.Context, repos *repository.Repositories, id uuid.UUID) (*entity.Reconciliation, error) {
	recon, err := repos.Reconciliations.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if recon == nil {
		return nil, apperror.NewNotFoundError("Reconciliation")
	}
	return recon, nil
}
