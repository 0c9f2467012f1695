package service

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/pkg/apperror"
	"github.com/sangkips/spareshop-api/pkg/pagination"
	"github.com/sangkips/spareshop-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesService processes point-of-sale transactions
type SalesService struct {
	repos  *repository.Repositories
	uow    repository.UnitOfWork
	logger *zap.Logger
}

// NewSalesService creates a new sales service
func NewSalesService(repos *repository.Repositories, uow repository.UnitOfWork, logger *zap.Logger) *SalesService {
	return &SalesService{
		repos:  repos,
		uow:    uow,
		logger: logger,
	}
}

// SaleItemInput represents one sale line
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	// UnitPrice defaults to the product selling price
	UnitPrice *decimal.Decimal
	Discount  decimal.Decimal
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	UserID         uuid.UUID
	Items          []SaleItemInput
	PaymentMethod  enum.PaymentMethod
	AmountPaid     decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	CustomerName   *string
	CustomerPhone  *string
	Notes          *string
}

func (in *CreateSaleInput) validate() error {
	if len(in.Items) == 0 {
		return apperror.NewFieldError("items", "at least one item is required")
	}
	if !in.PaymentMethod.IsValid() {
		return apperror.NewFieldError("payment_method", "is invalid")
	}

	var fieldErrors []apperror.FieldError
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: itemField(i, "quantity"), Message: "must be greater than zero"})
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: itemField(i, "unit_price"), Message: "must not be negative"})
		}
		if item.Discount.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: itemField(i, "discount"), Message: "must not be negative"})
		}
	}
	if in.TaxAmount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "tax_amount", Message: "must not be negative"})
	}
	if in.DiscountAmount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount_amount", Message: "must not be negative"})
	}
	if in.AmountPaid.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount_paid", Message: "must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// CreateSale records a sale and deducts stock for every line. Any failing
// line rejects the whole sale and nothing is written.
func (s *SalesService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	// Duplicate lines for one product are checked against stock together
	required := make(map[uuid.UUID]int, len(input.Items))
	for _, item := range input.Items {
		required[item.ProductID] += item.Quantity
	}

	var txn *entity.Transaction
	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		products, err := lockProducts(ctx, repos, slices.Collect(maps.Keys(required)))
		if err != nil {
			return err
		}
		for id, qty := range required {
			p := products[id]
			if err := requireActive(p); err != nil {
				return err
			}
			if p.QuantityInStock < qty {
				return apperror.NewInsufficientStockError(p.Name, p.QuantityInStock, qty)
			}
		}

		now := time.Now().UTC()
		txn = &entity.Transaction{
			TransactionNo:   utils.GenerateTransactionNo(now),
			TransactionType: enum.TransactionTypeSale,
			TransactionDate: now,
			TaxAmount:       input.TaxAmount,
			DiscountAmount:  input.DiscountAmount,
			PaymentMethod:   input.PaymentMethod,
			AmountPaid:      input.AmountPaid,
			CustomerName:    input.CustomerName,
			CustomerPhone:   input.CustomerPhone,
			ProcessedBy:     input.UserID,
			Notes:           input.Notes,
		}

		subtotal := decimal.Zero
		for i, item := range input.Items {
			p := products[item.ProductID]
			unitPrice := p.SellingPrice
			if item.UnitPrice != nil {
				unitPrice = *item.UnitPrice
			}
			lineTotal := entity.ComputeLineTotal(item.Quantity, unitPrice, item.Discount)
			if lineTotal.IsNegative() {
				return apperror.NewFieldError(itemField(i, "discount"), "exceeds the line amount")
			}
			subtotal = subtotal.Add(lineTotal)
			txn.Items = append(txn.Items, entity.TransactionItem{
				ProductID: p.ID,
				Quantity:  item.Quantity,
				UnitPrice: unitPrice,
				Discount:  item.Discount,
				LineTotal: lineTotal,
			})
		}

		txn.Subtotal = subtotal
		txn.TotalAmount = subtotal.Add(input.TaxAmount).Sub(input.DiscountAmount)
		if txn.TotalAmount.IsNegative() {
			return apperror.NewFieldError("discount_amount", "exceeds the sale amount")
		}
		if input.PaymentMethod != enum.PaymentMethodCredit && input.AmountPaid.LessThan(txn.TotalAmount) {
			return apperror.NewInvalidPaymentError("Amount paid " + input.AmountPaid.StringFixed(2) +
				" is less than the total " + txn.TotalAmount.StringFixed(2))
		}
		txn.ChangeGiven = decimal.Max(input.AmountPaid.Sub(txn.TotalAmount), decimal.Zero)

		for _, item := range txn.Items {
			if _, err := applyStockChange(ctx, repos, stockChange{
				Product:   products[item.ProductID],
				Type:      enum.MovementTypeSale,
				Delta:     -item.Quantity,
				From:      entity.LocationShop,
				To:        entity.LocationCustomer,
				Reference: txn.TransactionNo,
				Actor:     input.UserID,
			}); err != nil {
				return err
			}
		}

		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return err
		}
		return recordAudit(ctx, repos, entity.AuditActionSale, "transaction", txn.ID, input.UserID, map[string]interface{}{
			"transaction_no": txn.TransactionNo,
			"total_amount":   txn.TotalAmount.StringFixed(2),
			"payment_method": txn.PaymentMethod.String(),
			"items":          len(txn.Items),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale recorded",
		zap.String("transaction_no", txn.TransactionNo),
		zap.String("total", txn.TotalAmount.StringFixed(2)),
		zap.Int("items", len(txn.Items)),
	)
	return txn, nil
}

// ReverseSaleInput represents an owner reversal of a sale
type ReverseSaleInput struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID
	Reason        string
}

// ReverseSale returns the sold units to stock through a separate reversal
// transaction. The original sale is left untouched.
func (s *SalesService) ReverseSale(ctx context.Context, input *ReverseSaleInput) (*entity.Transaction, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, apperror.NewFieldError("reason", "is required")
	}

	var reversal *entity.Transaction
	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		original, err := repos.Transactions.GetForUpdate(ctx, input.TransactionID)
		if err != nil {
			return err
		}
		if original == nil {
			return apperror.NewNotFoundError("Transaction")
		}
		if original.TransactionType != enum.TransactionTypeSale {
			return apperror.NewInvalidStateError("transaction", original.TransactionType.String(), "reverse")
		}
		reversed, err := repos.Transactions.HasReversal(ctx, original.ID)
		if err != nil {
			return err
		}
		if reversed {
			return apperror.NewInvalidStateError("transaction", "reversed", "reverse")
		}

		ids := make([]uuid.UUID, 0, len(original.Items))
		for _, item := range original.Items {
			ids = append(ids, item.ProductID)
		}
		products, err := lockProducts(ctx, repos, utils.DedupeIDs(ids))
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		reversal = &entity.Transaction{
			TransactionNo:   utils.GenerateTransactionNo(now),
			TransactionType: enum.TransactionTypeReversal,
			TransactionDate: now,
			Subtotal:        original.Subtotal,
			TaxAmount:       original.TaxAmount,
			DiscountAmount:  original.DiscountAmount,
			TotalAmount:     original.TotalAmount,
			PaymentMethod:   original.PaymentMethod,
			AmountPaid:      original.TotalAmount,
			ChangeGiven:     decimal.Zero,
			CustomerName:    original.CustomerName,
			CustomerPhone:   original.CustomerPhone,
			ProcessedBy:     input.UserID,
			ReversalOfID:    &original.ID,
			ReversalReason:  &reason,
		}

		for _, item := range original.Items {
			if _, err := applyStockChange(ctx, repos, stockChange{
				Product:   products[item.ProductID],
				Type:      enum.MovementTypeReversal,
				Delta:     item.Quantity,
				From:      entity.LocationCustomer,
				To:        entity.LocationShop,
				Reference: reversal.TransactionNo,
				Actor:     input.UserID,
				Notes:     &reason,
			}); err != nil {
				return err
			}
			reversal.Items = append(reversal.Items, entity.TransactionItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Discount:  item.Discount,
				LineTotal: item.LineTotal,
			})
		}

		if err := repos.Transactions.Create(ctx, reversal); err != nil {
			return err
		}
		return recordAudit(ctx, repos, entity.AuditActionReversal, "transaction", original.ID, input.UserID, map[string]interface{}{
			"transaction_no": original.TransactionNo,
			"reversal_no":    reversal.TransactionNo,
			"reason":         reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale reversed",
		zap.String("transaction_id", input.TransactionID.String()),
		zap.String("reversal_no", reversal.TransactionNo),
	)
	return reversal, nil
}

// GetTransaction retrieves a transaction with its items
func (s *SalesService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.repos.Transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// ListTransactions lists transactions newest first
func (s *SalesService) ListTransactions(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	params.Pagination = pageParams(params.Pagination)
	txns, total, err := s.repos.Transactions.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(txns, pag), nil
}

// DailySummary is the sales total of one calendar day, net of reversals
type DailySummary struct {
	Date             string                     `json:"date"`
	TotalSales       decimal.Decimal            `json:"total_sales"`
	TransactionCount int64                      `json:"transaction_count"`
	ByPaymentMethod  map[string]decimal.Decimal `json:"by_payment_method"`
}

// DailySummary totals sales for the calendar day of date in date's location
func (s *SalesService) DailySummary(ctx context.Context, date time.Time) (*DailySummary, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1)

	summary, err := s.repos.Transactions.SalesSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byMethod := make(map[string]decimal.Decimal, len(summary.ByPaymentMethod))
	for method, total := range summary.ByPaymentMethod {
		byMethod[method.String()] = total
	}
	return &DailySummary{
		Date:             from.Format("2006-01-02"),
		TotalSales:       summary.TotalSales,
		TransactionCount: summary.TransactionCount,
		ByPaymentMethod:  byMethod,
	}, nil
}

// lockProducts locks the given products (in ascending id order, see
// GetByIDsForUpdate) and fails if any of them does not exist.
func lockProducts(ctx context.Context, repos *repository.Repositories, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	products, err := repos.Products.GetByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, apperror.NewNotFoundError("Product " + id.String())
		}
	}
	return byID, nil
}

func itemField(i int, name string) string {
	return "items[" + strconv.Itoa(i) + "]." + name
}
