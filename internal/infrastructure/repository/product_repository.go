package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	domainRepo "github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return translateError(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ForUpdate()).
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, translateError(err)
}

// GetByIDsForUpdate locks rows in ascending id order. Missing ids are simply
// absent from the result.
func (r *productRepository) GetByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ForUpdate()).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	return products, translateError(err)
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	err := r.db.WithContext(ctx).Model(product).
		Select("sku", "barcode", "name", "description", "category_id", "brand",
			"cost_price", "selling_price", "reorder_level", "is_active").
		Updates(product).Error
	return translateError(err)
}

// ApplyStockDelta shifts both counters in one statement. The CHECK
// constraint on quantity_in_stock rejects a negative result.
func (r *productRepository) ApplyStockDelta(ctx context.Context, id uuid.UUID, stockDelta, fieldDelta int) error {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity_in_stock": gorm.Expr("quantity_in_stock + ?", stockDelta),
			"quantity_in_field": gorm.Expr("quantity_in_field + ?", fieldDelta),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var productSortColumns = map[string]string{
	"name":              "name",
	"sku":               "sku",
	"quantity_in_stock": "quantity_in_stock",
	"selling_price":     "selling_price",
	"created_at":        "created_at",
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})

	if !params.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ? OR brand ILIKE ? OR barcode = ?",
			like, like, like, params.Search)
	}

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.LowStock {
		query = query.Where("quantity_in_stock <= reorder_level")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "name"
	if col, ok := productSortColumns[params.SortBy]; ok {
		sortBy = col
	}
	sortOrder := "ASC"
	if params.SortOrder == "desc" || params.SortOrder == "DESC" {
		sortOrder = "DESC"
	}

	params.Pagination = ensurePagination(params.Pagination)
	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Category").
		Order(sortBy + " " + sortOrder).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND quantity_in_stock <= reorder_level", true).
		Preload("Category").
		Order("quantity_in_stock ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) Summary(ctx context.Context) (*domainRepo.InventorySummary, error) {
	var row struct {
		ActiveProducts int64
		LowStock       int64
		UnitsInStock   int64
		UnitsInField   int64
		StockValue     decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Select(`COUNT(*) AS active_products,
			COUNT(*) FILTER (WHERE quantity_in_stock <= reorder_level) AS low_stock,
			COALESCE(SUM(quantity_in_stock), 0) AS units_in_stock,
			COALESCE(SUM(quantity_in_field), 0) AS units_in_field,
			COALESCE(SUM(quantity_in_stock * cost_price), 0) AS stock_value`).
		Where("is_active = ?", true).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &domainRepo.InventorySummary{
		ActiveProducts: row.ActiveProducts,
		LowStock:       row.LowStock,
		UnitsInStock:   row.UnitsInStock,
		UnitsInField:   row.UnitsInField,
		StockValue:     row.StockValue,
	}, nil
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return translateError(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).First(&category, "LOWER(name) = LOWER(?)", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	err := r.db.WithContext(ctx).Model(category).
		Select("name", "description", "is_active").
		Updates(category).Error
	return translateError(err)
}

func (r *categoryRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error) {
	var categories []entity.Category
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Category{})

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(ensurePagination(params))).
		Order("name ASC").
		Find(&categories).Error

	return categories, total, err
}
