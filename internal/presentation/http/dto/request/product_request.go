package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	SKU          string          `json:"sku" binding:"required,max=100"`
	Barcode      *string         `json:"barcode" binding:"omitempty,max=100"`
	Name         string          `json:"name" binding:"required,min=2,max=255"`
	Description  *string         `json:"description"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	Brand        string          `json:"brand" binding:"max=100"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ReorderLevel *int            `json:"reorder_level" binding:"omitempty,min=0"`
	InitialStock int             `json:"initial_stock" binding:"min=0"`
}

// UpdateProductRequest represents a product update request. Stock is not
// editable here; it only changes through movements.
type UpdateProductRequest struct {
	Barcode      *string          `json:"barcode" binding:"omitempty,max=100"`
	Name         *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Description  *string          `json:"description"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	Brand        *string          `json:"brand" binding:"omitempty,max=100"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	ReorderLevel *int             `json:"reorder_level" binding:"omitempty,min=0"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search          string `form:"search"`
	CategoryID      string `form:"category_id"`
	LowStock        bool   `form:"low_stock"`
	IncludeInactive bool   `form:"include_inactive"`
	SortBy          string `form:"sort_by"`
	SortOrder       string `form:"sort_order"`
	Page            int    `form:"page"`
	PerPage         int    `form:"per_page"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	QuantityDelta int    `json:"quantity_delta" binding:"required"`
	Reason        string `json:"reason" binding:"required,min=3,max=500"`
}

// RecordMovementRequest represents a supplier purchase entry
type RecordMovementRequest struct {
	ProductID     uuid.UUID `json:"product_id" binding:"required"`
	MovementType  string    `json:"movement_type" binding:"required"`
	QuantityDelta int       `json:"quantity_delta" binding:"required"`
	Reference     string    `json:"reference" binding:"max=100"`
	Notes         *string   `json:"notes"`
}

// MovementFilterRequest represents movement filter parameters
type MovementFilterRequest struct {
	ProductID    string `form:"product_id"`
	MovementType string `form:"movement_type"`
	Reference    string `form:"reference"`
	StartDate    string `form:"start_date"`
	EndDate      string `form:"end_date"`
	Page         int    `form:"page"`
	PerPage      int    `form:"per_page"`
}

// CategoryRequest represents a category create or update request
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Description *string `json:"description"`
}
