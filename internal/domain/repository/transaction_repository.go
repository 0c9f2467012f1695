package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// TransactionRepository defines the interface for POS transaction operations
type TransactionRepository interface {
	// Create inserts the transaction together with its items
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	HasReversal(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination      *pagination.PaginationParams
	Search          string
	TransactionType *enum.TransactionType
	PaymentMethod   *enum.PaymentMethod
	ProcessedBy     *uuid.UUID
	StartDate       *time.Time
	EndDate         *time.Time
}

// SalesSummary aggregates sales over a period. Reversals are netted out.
type SalesSummary struct {
	TotalSales       decimal.Decimal
	TransactionCount int64
	ByPaymentMethod  map[enum.PaymentMethod]decimal.Decimal
}
