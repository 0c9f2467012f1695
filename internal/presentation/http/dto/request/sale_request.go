package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one line of a sale
type SaleItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal  `json:"discount"`
}

// CreateSaleRequest represents a point of sale checkout
type CreateSaleRequest struct {
	Items          []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod  string            `json:"payment_method" binding:"required"`
	AmountPaid     decimal.Decimal   `json:"amount_paid"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	CustomerName   *string           `json:"customer_name" binding:"omitempty,max=255"`
	CustomerPhone  *string           `json:"customer_phone" binding:"omitempty,max=20"`
	Notes          *string           `json:"notes"`
}

// ReverseSaleRequest represents a sale reversal
type ReverseSaleRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// TransactionFilterRequest represents transaction filter parameters
type TransactionFilterRequest struct {
	Search          string `form:"search"`
	TransactionType string `form:"transaction_type"`
	PaymentMethod   string `form:"payment_method"`
	StartDate       string `form:"start_date"`
	EndDate         string `form:"end_date"`
	Page            int    `form:"page"`
	PerPage         int    `form:"per_page"`
}
