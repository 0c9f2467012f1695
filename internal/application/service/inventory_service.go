package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/pkg/apperror"
	"github.com/sangkips/spareshop-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService handles the product catalog and the movement log
type InventoryService struct {
	repos  *repository.Repositories
	uow    repository.UnitOfWork
	logger *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(repos *repository.Repositories, uow repository.UnitOfWork, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		repos:  repos,
		uow:    uow,
		logger: logger,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID       uuid.UUID
	SKU          string
	Barcode      *string
	Name         string
	Description  *string
	CategoryID   *uuid.UUID
	Brand        string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	ReorderLevel *int
	// InitialStock is recorded as a purchase movement
	InitialStock int
}

// CreateProduct creates a new product
func (s *InventoryService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if err := validatePrices(input.CostPrice, input.SellingPrice); err != nil {
		return nil, err
	}
	if input.InitialStock < 0 {
		return nil, apperror.NewFieldError("initial_stock", "must not be negative")
	}

	sku := strings.TrimSpace(input.SKU)
	existing, err := s.repos.Products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product SKU already exists")
	}

	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	reorderLevel := entity.DefaultReorderLevel
	if input.ReorderLevel != nil {
		reorderLevel = *input.ReorderLevel
	}

	product := &entity.Product{
		SKU:          sku,
		Barcode:      input.Barcode,
		Name:         input.Name,
		Description:  input.Description,
		CategoryID:   input.CategoryID,
		Brand:        input.Brand,
		CostPrice:    input.CostPrice,
		SellingPrice: input.SellingPrice,
		ReorderLevel: reorderLevel,
		IsActive:     true,
		CreatedBy:    input.UserID,
	}

	err = s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		if input.InitialStock > 0 {
			if _, err := applyStockChange(ctx, repos, stockChange{
				Product:   product,
				Type:      enum.MovementTypePurchase,
				Delta:     input.InitialStock,
				From:      entity.LocationSupplier,
				To:        entity.LocationShop,
				Reference: "INITIAL-" + product.SKU,
				Actor:     input.UserID,
			}); err != nil {
				return err
			}
		}
		return recordAudit(ctx, repos, entity.AuditActionCreate, "product", product.ID, input.UserID, map[string]interface{}{
			"sku":           product.SKU,
			"initial_stock": input.InitialStock,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.String("product_id", product.ID.String()), zap.String("sku", product.SKU))
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *InventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *InventoryService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	params.Pagination = pageParams(params.Pagination)
	products, total, err := s.repos.Products.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// GetLowStock returns active products at or below their reorder level
func (s *InventoryService) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	return s.repos.Products.GetLowStock(ctx)
}

// UpdateProductInput represents the update product input. Nil fields are left unchanged.
type UpdateProductInput struct {
	UserID       uuid.UUID
	ID           uuid.UUID
	Barcode      *string
	Name         *string
	Description  *string
	CategoryID   *uuid.UUID
	Brand        *string
	CostPrice    *decimal.Decimal
	SellingPrice *decimal.Decimal
	ReorderLevel *int
}

// UpdateProduct updates catalog fields. Quantities only change through movements.
func (s *InventoryService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Barcode != nil {
		product.Barcode = input.Barcode
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.CostPrice != nil {
		product.CostPrice = *input.CostPrice
	}
	if input.SellingPrice != nil {
		product.SellingPrice = *input.SellingPrice
	}
	if input.ReorderLevel != nil {
		if *input.ReorderLevel < 0 {
			return nil, apperror.NewFieldError("reorder_level", "must not be negative")
		}
		product.ReorderLevel = *input.ReorderLevel
	}
	if err := validatePrices(product.CostPrice, product.SellingPrice); err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		return recordAudit(ctx, repos, entity.AuditActionUpdate, "product", product.ID, input.UserID, nil)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// DeactivateProduct hides a product from sale. Products are never deleted
// because movements reference them.
func (s *InventoryService) DeactivateProduct(ctx context.Context, userID, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return nil
	}
	product.IsActive = false

	return s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		return recordAudit(ctx, repos, entity.AuditActionUpdate, "product", product.ID, userID, map[string]interface{}{
			"is_active": false,
		})
	})
}

// RecordMovementInput represents a manual movement such as a supplier delivery
type RecordMovementInput struct {
	UserID        uuid.UUID
	ProductID     uuid.UUID
	MovementType  enum.MovementType
	QuantityDelta int
	Reference     string
	Notes         *string
}

// RecordMovement records a supplier delivery and updates the cached stock
// counter. Every other movement type has a dedicated operation: sales need a
// transaction and adjustments need the owner.
func (s *InventoryService) RecordMovement(ctx context.Context, input *RecordMovementInput) (*entity.InventoryMovement, error) {
	if input.MovementType != enum.MovementTypePurchase {
		return nil, apperror.NewFieldError("movement_type", "use the dedicated endpoint for "+input.MovementType.String())
	}
	if input.QuantityDelta <= 0 {
		return nil, apperror.NewFieldError("quantity_delta", "purchase must add stock")
	}

	from, to := movementLocations(input.MovementType)

	var movement *entity.InventoryMovement
	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		product, err := repos.Products.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}
		if err := requireActive(product); err != nil {
			return err
		}

		movement, err = applyStockChange(ctx, repos, stockChange{
			Product:   product,
			Type:      input.MovementType,
			Delta:     input.QuantityDelta,
			From:      from,
			To:        to,
			Reference: input.Reference,
			Actor:     input.UserID,
			Notes:     input.Notes,
		})
		if err != nil {
			return err
		}

		return recordAudit(ctx, repos, entity.AuditActionCreate, "inventory_movement", movement.ID, input.UserID, map[string]interface{}{
			"product_id":     product.ID,
			"movement_type":  input.MovementType.String(),
			"quantity_delta": input.QuantityDelta,
			"reference":      input.Reference,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("movement recorded",
		zap.String("product_id", input.ProductID.String()),
		zap.Stringer("type", input.MovementType),
		zap.Int("delta", input.QuantityDelta),
	)
	return movement, nil
}

// AdjustStockInput represents an owner stock correction
type AdjustStockInput struct {
	UserID        uuid.UUID
	ProductID     uuid.UUID
	QuantityDelta int
	Reason        string
}

// AdjustStockResult is the outcome of an adjustment
type AdjustStockResult struct {
	Movement    *entity.InventoryMovement `json:"movement"`
	NewQuantity int                       `json:"new_quantity"`
}

// AdjustStock applies an administrative correction. Adjustments can never
// drive stock below zero.
func (s *InventoryService) AdjustStock(ctx context.Context, input *AdjustStockInput) (*AdjustStockResult, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, apperror.NewFieldError("reason", "is required")
	}

	result := &AdjustStockResult{}
	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		product, err := repos.Products.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}
		if err := requireActive(product); err != nil {
			return err
		}

		reason := input.Reason
		movement, err := applyStockChange(ctx, repos, stockChange{
			Product: product,
			Type:    enum.MovementTypeAdjustment,
			Delta:   input.QuantityDelta,
			From:    entity.LocationShop,
			To:      entity.LocationShop,
			Actor:   input.UserID,
			Notes:   &reason,
		})
		if err != nil {
			return err
		}
		result.Movement = movement
		result.NewQuantity = product.QuantityInStock

		return recordAudit(ctx, repos, entity.AuditActionAdjust, "product", product.ID, input.UserID, map[string]interface{}{
			"quantity_delta": input.QuantityDelta,
			"reason":         input.Reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("product_id", input.ProductID.String()),
		zap.Int("delta", input.QuantityDelta),
		zap.Int("new_quantity", result.NewQuantity),
	)
	return result, nil
}

// ListMovements lists movements newest first
func (s *InventoryService) ListMovements(ctx context.Context, params *repository.MovementFilterParams) (*pagination.PaginatedResult[entity.InventoryMovement], error) {
	params.Pagination = pageParams(params.Pagination)
	movements, total, err := s.repos.Movements.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(movements, pag), nil
}

// StockVerification compares the cached counter with a replay of the log
type StockVerification struct {
	ProductID    uuid.UUID `json:"product_id"`
	CachedStock  int       `json:"cached_stock"`
	LedgerStock  int       `json:"ledger_stock"`
	IsConsistent bool      `json:"is_consistent"`
}

// VerifyStock replays the movement log for one product
func (s *InventoryService) VerifyStock(ctx context.Context, productID uuid.UUID) (*StockVerification, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	sum, err := s.repos.Movements.SumDeltas(ctx, productID)
	if err != nil {
		return nil, err
	}

	v := &StockVerification{
		ProductID:    productID,
		CachedStock:  product.QuantityInStock,
		LedgerStock:  sum,
		IsConsistent: sum == product.QuantityInStock,
	}
	if !v.IsConsistent {
		s.logger.Warn("stock counter drifted from movement log",
			zap.String("product_id", productID.String()),
			zap.Int("cached", v.CachedStock),
			zap.Int("ledger", v.LedgerStock),
		)
	}
	return v, nil
}

func (s *InventoryService) ensureCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil || !category.IsActive {
		return apperror.NewFieldError("category_id", "category does not exist")
	}
	return nil
}

func validatePrices(cost, selling decimal.Decimal) error {
	if cost.IsNegative() {
		return apperror.NewFieldError("cost_price", "must not be negative")
	}
	if selling.IsNegative() {
		return apperror.NewFieldError("selling_price", "must not be negative")
	}
	return nil
}
