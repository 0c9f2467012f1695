package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	domainRepo "github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new POS transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	return translateError(r.db.WithContext(ctx).Create(txn).Error)
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).
		Scopes(ForUpdate()).
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	// Items are immutable so they are loaded without a lock
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", id).Find(&txn.Items).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) HasReversal(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Where("reversal_of_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *transactionRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var txns []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("transaction_no ILIKE ? OR customer_name ILIKE ? OR customer_phone ILIKE ?", like, like, like)
	}
	if params.TransactionType != nil {
		query = query.Where("transaction_type = ?", *params.TransactionType)
	}
	if params.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *params.PaymentMethod)
	}
	if params.ProcessedBy != nil {
		query = query.Where("processed_by = ?", *params.ProcessedBy)
	}
	query = query.Scopes(DateRange("transaction_date", params.StartDate, params.EndDate))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination = ensurePagination(params.Pagination)
	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Items").
		Order("transaction_date DESC").
		Find(&txns).Error

	return txns, total, err
}

// SalesSummary nets reversals against sales in [from, to)
func (r *transactionRepository) SalesSummary(ctx context.Context, from, to time.Time) (*domainRepo.SalesSummary, error) {
	var rows []struct {
		PaymentMethod enum.PaymentMethod
		Total         decimal.Decimal
		Count         int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Select(`payment_method,
			COALESCE(SUM(CASE WHEN transaction_type = ? THEN -total_amount ELSE total_amount END), 0) AS total,
			COALESCE(SUM(CASE WHEN transaction_type = ? THEN -1 ELSE 1 END), 0) AS count`,
			enum.TransactionTypeReversal, enum.TransactionTypeReversal).
		Where("transaction_type IN ?", []enum.TransactionType{enum.TransactionTypeSale, enum.TransactionTypeReversal}).
		Where("transaction_date >= ? AND transaction_date < ?", from, to).
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &domainRepo.SalesSummary{
		TotalSales:      decimal.Zero,
		ByPaymentMethod: make(map[enum.PaymentMethod]decimal.Decimal, len(rows)),
	}
	for _, row := range rows {
		summary.TotalSales = summary.TotalSales.Add(row.Total)
		summary.TransactionCount += row.Count
		summary.ByPaymentMethod[row.PaymentMethod] = row.Total
	}
	return summary, nil
}
