package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/sangkips/spareshop-api/internal/application/service"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/internal/domain/repository/mock"
	"github.com/sangkips/spareshop-api/pkg/apperror"
)

func newSalesService(store *memStore) *service.SalesService {
	return service.NewSalesService(store.repos(), store, zap.NewNop())
}

func TestSalesService_CreateSale(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Clutch Cable", 5, 10000)
	svc := newSalesService(store)

	txn, err := svc.CreateSale(context.Background(), &service.CreateSaleInput{
		UserID:        uuid.New(),
		Items:         []service.SaleItemInput{{ProductID: product.ID, Quantity: 2}},
		PaymentMethod: enum.PaymentMethodCash,
		AmountPaid:    dec(25000),
	})
	require.NoError(t, err)

	assert.True(t, dec(20000).Equal(txn.Subtotal))
	assert.True(t, dec(20000).Equal(txn.TotalAmount))
	assert.True(t, dec(5000).Equal(txn.ChangeGiven))
	assert.Equal(t, enum.TransactionTypeSale, txn.TransactionType)
	require.Len(t, txn.Items, 1)
	assert.True(t, dec(10000).Equal(txn.Items[0].UnitPrice))

	data := store.snapshot()
	assert.Equal(t, 3, data.products[product.ID].QuantityInStock)

	var sales []entity.InventoryMovement
	for _, m := range data.movements {
		if m.MovementType == enum.MovementTypeSale {
			sales = append(sales, m)
		}
	}
	require.Len(t, sales, 1)
	assert.Equal(t, -2, sales[0].QuantityDelta)
	assert.Equal(t, txn.TransactionNo, sales[0].Reference)
	assert.Equal(t, 3, data.movementSum(product.ID))
}

func TestSalesService_CreateSale_AllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		items   func(a, b uuid.UUID) []service.SaleItemInput
		method  enum.PaymentMethod
		paid    int64
		wantErr error
	}{
		{
			name: "one line short of stock",
			items: func(a, b uuid.UUID) []service.SaleItemInput {
				return []service.SaleItemInput{{ProductID: a, Quantity: 1}, {ProductID: b, Quantity: 3}}
			},
			paid:    100000,
			wantErr: apperror.ErrInsufficientStock,
		},
		{
			name: "duplicate lines exceed stock together",
			items: func(a, b uuid.UUID) []service.SaleItemInput {
				return []service.SaleItemInput{{ProductID: b, Quantity: 1}, {ProductID: b, Quantity: 2}}
			},
			paid:    100000,
			wantErr: apperror.ErrInsufficientStock,
		},
		{
			name: "unknown product",
			items: func(a, _ uuid.UUID) []service.SaleItemInput {
				return []service.SaleItemInput{{ProductID: a, Quantity: 1}, {ProductID: uuid.New(), Quantity: 1}}
			},
			paid:    100000,
			wantErr: apperror.ErrNotFound,
		},
		{
			name: "cash short of total",
			items: func(a, _ uuid.UUID) []service.SaleItemInput {
				return []service.SaleItemInput{{ProductID: a, Quantity: 2}}
			},
			paid:    1999,
			wantErr: apperror.ErrInvalidPayment,
		},
		{
			name: "discount larger than line",
			items: func(a, _ uuid.UUID) []service.SaleItemInput {
				return []service.SaleItemInput{{ProductID: a, Quantity: 1, Discount: dec(1001)}}
			},
			paid:    100000,
			wantErr: apperror.ErrValidation,
		},
		{
			name: "empty sale",
			items: func(_, _ uuid.UUID) []service.SaleItemInput {
				return nil
			},
			wantErr: apperror.ErrValidation,
		},
		{
			name: "zero quantity",
			items: func(a, _ uuid.UUID) []service.SaleItemInput {
				return []service.SaleItemInput{{ProductID: a}}
			},
			wantErr: apperror.ErrValidation,
		},
		{
			name:   "invalid payment method",
			method: enum.PaymentMethod(42),
			items: func(a, _ uuid.UUID) []service.SaleItemInput {
				return []service.SaleItemInput{{ProductID: a, Quantity: 1}}
			},
			wantErr: apperror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			a := store.addProduct("Air Filter", 10, 1000)
			b := store.addProduct("Fuel Pump", 2, 5000)
			before := store.snapshot()
			svc := newSalesService(store)

			_, err := svc.CreateSale(context.Background(), &service.CreateSaleInput{
				Items:         tt.items(a.ID, b.ID),
				PaymentMethod: tt.method,
				AmountPaid:    dec(tt.paid),
			})

			require.ErrorIs(t, err, tt.wantErr)
			after := store.snapshot()
			assert.Equal(t, before.products, after.products)
			assert.Equal(t, before.movements, after.movements)
			assert.Empty(t, after.transactions)
			assert.Empty(t, after.audit)
		})
	}
}

func TestSalesService_CreateSale_Credit(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Gasket", 4, 700)
	svc := newSalesService(store)
	name := "Garage Ltd"

	txn, err := svc.CreateSale(context.Background(), &service.CreateSaleInput{
		Items:          []service.SaleItemInput{{ProductID: product.ID, Quantity: 2, Discount: dec(100)}},
		PaymentMethod:  enum.PaymentMethodCredit,
		TaxAmount:      dec(50),
		DiscountAmount: dec(200),
		CustomerName:   &name,
	})
	require.NoError(t, err)

	assert.True(t, dec(1300).Equal(txn.Subtotal))
	assert.True(t, dec(1150).Equal(txn.TotalAmount))
	assert.True(t, txn.ChangeGiven.IsZero())
	assert.Equal(t, 2, store.product(product.ID).QuantityInStock)
}

func TestSalesService_CreateSale_RollsBackOnFailure(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Radiator Cap", 5, 300)
	store.failOn = "transactions.create"
	svc := newSalesService(store)

	_, err := svc.CreateSale(context.Background(), &service.CreateSaleInput{
		Items:         []service.SaleItemInput{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: enum.PaymentMethodCash,
		AmountPaid:    dec(300),
	})

	require.ErrorIs(t, err, errInjected)
	data := store.snapshot()
	assert.Equal(t, 5, data.products[product.ID].QuantityInStock)
	assert.Len(t, data.movements, 1)
}

func TestSalesService_ReverseSale(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Tail Light", 6, 2500)
	svc := newSalesService(store)
	ctx := context.Background()

	sale, err := svc.CreateSale(ctx, &service.CreateSaleInput{
		Items:         []service.SaleItemInput{{ProductID: product.ID, Quantity: 4}},
		PaymentMethod: enum.PaymentMethodMobileMoney,
		AmountPaid:    dec(10000),
	})
	require.NoError(t, err)
	require.Equal(t, 2, store.product(product.ID).QuantityInStock)

	t.Run("reason is required", func(t *testing.T) {
		_, err := svc.ReverseSale(ctx, &service.ReverseSaleInput{TransactionID: sale.ID, Reason: "  "})
		require.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("restores stock with a reversal transaction", func(t *testing.T) {
		reversal, err := svc.ReverseSale(ctx, &service.ReverseSaleInput{TransactionID: sale.ID, Reason: "wrong part"})
		require.NoError(t, err)

		assert.Equal(t, enum.TransactionTypeReversal, reversal.TransactionType)
		require.NotNil(t, reversal.ReversalOfID)
		assert.Equal(t, sale.ID, *reversal.ReversalOfID)
		assert.True(t, sale.TotalAmount.Equal(reversal.TotalAmount))
		assert.Equal(t, 6, store.product(product.ID).QuantityInStock)

		data := store.snapshot()
		assert.Equal(t, 6, data.movementSum(product.ID))
		original := data.transactions[sale.ID]
		assert.Equal(t, enum.TransactionTypeSale, original.TransactionType)
	})

	t.Run("second reversal is rejected", func(t *testing.T) {
		_, err := svc.ReverseSale(ctx, &service.ReverseSaleInput{TransactionID: sale.ID, Reason: "again"})
		require.ErrorIs(t, err, apperror.ErrInvalidState)
		assert.Equal(t, 6, store.product(product.ID).QuantityInStock)
	})

	t.Run("a reversal cannot itself be reversed", func(t *testing.T) {
		var reversalID uuid.UUID
		for id, txn := range store.snapshot().transactions {
			if txn.TransactionType == enum.TransactionTypeReversal {
				reversalID = id
			}
		}
		_, err := svc.ReverseSale(ctx, &service.ReverseSaleInput{TransactionID: reversalID, Reason: "undo"})
		require.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		_, err := svc.ReverseSale(ctx, &service.ReverseSaleInput{TransactionID: uuid.New(), Reason: "x"})
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestSalesService_DailySummary(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Fuse", 100, 100)
	svc := newSalesService(store)
	ctx := context.Background()

	sell := func(qty int, method enum.PaymentMethod) *entity.Transaction {
		txn, err := svc.CreateSale(ctx, &service.CreateSaleInput{
			Items:         []service.SaleItemInput{{ProductID: product.ID, Quantity: qty}},
			PaymentMethod: method,
			AmountPaid:    dec(int64(qty) * 100),
		})
		require.NoError(t, err)
		return txn
	}
	sell(2, enum.PaymentMethodCash)
	sell(3, enum.PaymentMethodMobileMoney)
	reversed := sell(1, enum.PaymentMethodCash)
	_, err := svc.ReverseSale(ctx, &service.ReverseSaleInput{TransactionID: reversed.ID, Reason: "void"})
	require.NoError(t, err)

	summary, err := svc.DailySummary(ctx, time.Now().UTC())
	require.NoError(t, err)

	assert.True(t, dec(500).Equal(summary.TotalSales))
	assert.Equal(t, int64(2), summary.TransactionCount)
	assert.True(t, dec(200).Equal(summary.ByPaymentMethod["cash"]))
	assert.True(t, dec(300).Equal(summary.ByPaymentMethod["mobile_money"]))
}

func TestSalesService_GetTransaction(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		setup   func(store *memStore)
		wantErr error
	}{
		{
			name:    "not found",
			wantErr: apperror.ErrNotFound,
		},
		{
			name: "found",
			setup: func(store *memStore) {
				_ = memTransactions{store}.Create(context.Background(), &entity.Transaction{
					ID:          id,
					TotalAmount: decimal.NewFromInt(10),
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			if tt.setup != nil {
				tt.setup(store)
			}
			txn, err := newSalesService(store).GetTransaction(context.Background(), id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, txn.ID)
		})
	}
}

func TestSalesService_CreateSale_LockFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	products := mock.NewMockProductRepository(ctrl)
	uow := mock.NewMockUnitOfWork(ctrl)
	repos := &repository.Repositories{Products: products}

	uow.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, *repository.Repositories) error) error {
			return fn(ctx, repos)
		})
	products.EXPECT().GetByIDsForUpdate(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrConcurrencyConflict)

	svc := service.NewSalesService(repos, uow, zap.NewNop())
	_, err := svc.CreateSale(context.Background(), &service.CreateSaleInput{
		Items:         []service.SaleItemInput{{ProductID: uuid.New(), Quantity: 1}},
		PaymentMethod: enum.PaymentMethodCash,
	})

	require.ErrorIs(t, err, apperror.ErrConcurrencyConflict)
}
