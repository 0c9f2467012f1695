package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is an immutable point-of-sale record. It is only ever
// corrected by a separate reversal transaction.
type Transaction struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	TransactionNo   string               `gorm:"size:50;uniqueIndex;not null" json:"transaction_no"`
	TransactionType enum.TransactionType `gorm:"not null;index" json:"transaction_type"`
	TransactionDate time.Time            `gorm:"not null;index" json:"transaction_date"`
	Subtotal        decimal.Decimal      `gorm:"type:decimal(14,2);not null" json:"subtotal"`
	TaxAmount       decimal.Decimal      `gorm:"type:decimal(14,2);not null;default:0" json:"tax_amount"`
	DiscountAmount  decimal.Decimal      `gorm:"type:decimal(14,2);not null;default:0" json:"discount_amount"`
	TotalAmount     decimal.Decimal      `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	PaymentMethod   enum.PaymentMethod   `gorm:"not null;index" json:"payment_method"`
	AmountPaid      decimal.Decimal      `gorm:"type:decimal(14,2);not null;default:0" json:"amount_paid"`
	ChangeGiven     decimal.Decimal      `gorm:"type:decimal(14,2);not null;default:0" json:"change_given"`
	CustomerName    *string              `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerPhone   *string              `gorm:"size:32" json:"customer_phone,omitempty"`
	ProcessedBy     uuid.UUID            `gorm:"type:uuid;not null;index" json:"processed_by"`
	ReversalOfID    *uuid.UUID           `gorm:"type:uuid;uniqueIndex" json:"reversal_of_id,omitempty"`
	ReversalReason  *string              `gorm:"type:text" json:"reversal_reason,omitempty"`
	Notes           *string              `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem is a single sale line
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity      int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	Discount      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"discount"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"line_total"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transaction item
func (i *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}

// ComputeLineTotal returns quantity x unit price minus the line discount
func ComputeLineTotal(quantity int, unitPrice, discount decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Sub(discount)
}
