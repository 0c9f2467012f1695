package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAgentRequest represents an agent registration request
type CreateAgentRequest struct {
	FullName     string          `json:"full_name" binding:"required,min=2,max=255"`
	PhoneNumber  string          `json:"phone_number" binding:"required,min=7,max=20"`
	IDNumber     *string         `json:"id_number" binding:"omitempty,max=50"`
	Address      *string         `json:"address"`
	Area         string          `json:"area" binding:"max=100"`
	BusinessName *string         `json:"business_name" binding:"omitempty,max=255"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	IsTrusted    bool            `json:"is_trusted"`
	Notes        *string         `json:"notes"`
}

// UpdateAgentRequest represents an agent update request
type UpdateAgentRequest struct {
	FullName     *string          `json:"full_name" binding:"omitempty,min=2,max=255"`
	PhoneNumber  *string          `json:"phone_number" binding:"omitempty,min=7,max=20"`
	IDNumber     *string          `json:"id_number" binding:"omitempty,max=50"`
	Address      *string          `json:"address"`
	Area         *string          `json:"area" binding:"omitempty,max=100"`
	BusinessName *string          `json:"business_name" binding:"omitempty,max=255"`
	CreditLimit  *decimal.Decimal `json:"credit_limit"`
	IsTrusted    *bool            `json:"is_trusted"`
	IsActive     *bool            `json:"is_active"`
	Notes        *string          `json:"notes"`
}

// AgentFilterRequest represents agent filter parameters
type AgentFilterRequest struct {
	Search    string `form:"search"`
	Area      string `form:"area"`
	IsActive  *bool  `form:"is_active"`
	IsTrusted *bool  `form:"is_trusted"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// TransferStockRequest represents a consignment of stock to an agent
type TransferStockRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Notes     *string          `json:"notes"`
}

// ReturnStockRequest represents stock coming back from an agent
type ReturnStockRequest struct {
	LedgerEntryID uuid.UUID `json:"ledger_entry_id" binding:"required"`
	Quantity      int       `json:"quantity" binding:"required,min=1"`
	Notes         *string   `json:"notes"`
}

// RecordPaymentRequest represents money received from an agent
type RecordPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method" binding:"required"`
	ReferenceNumber *string         `json:"reference_number" binding:"omitempty,max=100"`
	Notes           *string         `json:"notes"`
	LedgerEntryIDs  []uuid.UUID     `json:"ledger_entry_ids"`
}
