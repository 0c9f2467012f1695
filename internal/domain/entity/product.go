package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultReorderLevel is applied when a product is created without one
const DefaultReorderLevel = 5

// Product is a stock-keeping unit held by the shop. QuantityInStock is a
// cached view of the movement log and is only changed together with a
// movement row.
type Product struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SKU             string          `gorm:"column:sku;size:100;uniqueIndex;not null" json:"sku"`
	Barcode         *string         `gorm:"size:100;uniqueIndex" json:"barcode,omitempty"`
	Name            string          `gorm:"size:255;not null;index" json:"name"`
	Description     *string         `gorm:"type:text" json:"description,omitempty"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Brand           string          `gorm:"size:100" json:"brand"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"cost_price"`
	SellingPrice    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"selling_price"`
	QuantityInStock int             `gorm:"not null;default:0;check:quantity_in_stock >= 0" json:"quantity_in_stock"`
	QuantityInField int             `gorm:"not null;default:0;check:quantity_in_field >= 0" json:"quantity_in_field"`
	ReorderLevel    int             `gorm:"not null;default:5" json:"reorder_level"`
	IsActive        bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedBy       uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether the shop should reorder
func (p *Product) IsLowStock() bool {
	return p.QuantityInStock <= p.ReorderLevel
}

// StockValue is the shop stock valued at cost
func (p *Product) StockValue() decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(int64(p.QuantityInStock)))
}

// Category groups products in the catalog
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Products []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
