package repository

//go:generate mockgen -source=product_repository.go -destination=mock/product_repository_mock.go -package=mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate loads the product and holds a row lock until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDsForUpdate locks several products in ascending id order so concurrent callers cannot deadlock.
	GetByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	// Update saves catalog fields only. Quantities are never written here.
	Update(ctx context.Context, product *entity.Product) error
	// ApplyStockDelta moves the cached shop and field counters. Callers must
	// write the matching movement in the same transaction.
	ApplyStockDelta(ctx context.Context, id uuid.UUID, stockDelta, fieldDelta int) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	GetLowStock(ctx context.Context) ([]entity.Product, error)
	Summary(ctx context.Context) (*InventorySummary, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination      *pagination.PaginationParams
	Search          string
	CategoryID      *uuid.UUID
	LowStock        bool
	IncludeInactive bool
	SortBy          string
	SortOrder       string
}

// InventorySummary aggregates the active catalog for the dashboard
type InventorySummary struct {
	ActiveProducts int64
	LowStock       int64
	UnitsInStock   int64
	UnitsInField   int64
	StockValue     decimal.Decimal
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error)
}
