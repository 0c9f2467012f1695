package service_test

import (
	"context"
	"errors"
	"sync"
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

func newAgentService(store *memStore) *service.AgentService {
	return service.NewAgentService(store.repos(), store, zap.NewNop())
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestAgentService_TransferStock_CreditLimit(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name         string
		quantity     int
		wantErr      error
		wantDebt     decimal.Decimal
		wantStock    int
		wantLedger   int
		wantMovement int
	}{
		{
			name:         "over limit is rejected",
			quantity:     6,
			wantErr:      apperror.ErrCreditLimitExceeded,
			wantDebt:     dec(250000),
			wantStock:    20,
			wantLedger:   1,
			wantMovement: 1,
		},
		{
			name:         "exactly at limit is accepted",
			quantity:     5,
			wantDebt:     dec(300000),
			wantStock:    15,
			wantLedger:   2,
			wantMovement: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			product := store.addProduct("Brake Pad", 20, 10000)
			agent := store.addAgent("Jane Field", 300000, false)
			store.addLedger(agent.ID, product.ID, 250000, time.Now().Add(-48*time.Hour))
			svc := newAgentService(store)

			result, err := svc.TransferStock(context.Background(), &service.TransferStockInput{
				UserID:    userID,
				AgentID:   agent.ID,
				ProductID: product.ID,
				Quantity:  tt.quantity,
			})

			data := store.snapshot()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.wantDebt.Equal(result.NewTotalDebt))
				assert.Equal(t, tt.wantStock, result.NewStock)
				assert.True(t, dec(50000).Equal(result.LedgerEntry.DebtAmount))
			}

			assert.True(t, tt.wantDebt.Equal(data.outstanding(agent.ID)))
			assert.Equal(t, tt.wantStock, data.products[product.ID].QuantityInStock)
			assert.Len(t, data.ledger, tt.wantLedger)
			assert.Len(t, data.movements, tt.wantMovement)
			assert.Equal(t, data.products[product.ID].QuantityInStock, data.movementSum(product.ID))
		})
	}
}

func TestAgentService_TransferStock_Movement(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Oil Filter", 10, 800)
	agent := store.addAgent("Peter Road", 0, true)
	svc := newAgentService(store)

	result, err := svc.TransferStock(context.Background(), &service.TransferStockInput{
		UserID:    uuid.New(),
		AgentID:   agent.ID,
		ProductID: product.ID,
		Quantity:  4,
	})
	require.NoError(t, err)

	data := store.snapshot()
	p := data.products[product.ID]
	assert.Equal(t, 6, p.QuantityInStock)
	assert.Equal(t, 4, p.QuantityInField)

	last := data.movements[len(data.movements)-1]
	assert.Equal(t, enum.MovementTypeTransferToAgent, last.MovementType)
	assert.Equal(t, -4, last.QuantityDelta)
	assert.Equal(t, 10, last.QuantityBefore)
	assert.Equal(t, 6, last.QuantityAfter)
	assert.Equal(t, entity.AgentLocation(agent.ID), last.ToLocation)
	assert.Equal(t, last.ID, result.LedgerEntry.MovementID)
	assert.Contains(t, last.Reference, "LEDGER-")
	assert.True(t, dec(3200).Equal(result.LedgerEntry.DebtAmount))

	require.Len(t, data.audit, 1)
	assert.Equal(t, entity.AuditActionTransfer, data.audit[0].Action)
}

func TestAgentService_TransferStock_Rejections(t *testing.T) {
	negative := dec(-1)

	tests := []struct {
		name    string
		setup   func(store *memStore, agent *entity.Agent, product *entity.Product)
		input   func(agentID, productID uuid.UUID) *service.TransferStockInput
		wantErr error
	}{
		{
			name: "zero quantity",
			input: func(agentID, productID uuid.UUID) *service.TransferStockInput {
				return &service.TransferStockInput{AgentID: agentID, ProductID: productID}
			},
			wantErr: apperror.ErrValidation,
		},
		{
			name: "negative price",
			input: func(agentID, productID uuid.UUID) *service.TransferStockInput {
				return &service.TransferStockInput{AgentID: agentID, ProductID: productID, Quantity: 1, UnitPrice: &negative}
			},
			wantErr: apperror.ErrValidation,
		},
		{
			name: "unknown agent",
			input: func(_, productID uuid.UUID) *service.TransferStockInput {
				return &service.TransferStockInput{AgentID: uuid.New(), ProductID: productID, Quantity: 1}
			},
			wantErr: apperror.ErrNotFound,
		},
		{
			name: "inactive agent",
			setup: func(store *memStore, agent *entity.Agent, _ *entity.Product) {
				agent.IsActive = false
				_ = memAgents{store}.Update(context.Background(), agent)
			},
			input: func(agentID, productID uuid.UUID) *service.TransferStockInput {
				return &service.TransferStockInput{AgentID: agentID, ProductID: productID, Quantity: 1}
			},
			wantErr: apperror.ErrInactiveAgent,
		},
		{
			name: "not enough stock",
			input: func(agentID, productID uuid.UUID) *service.TransferStockInput {
				return &service.TransferStockInput{AgentID: agentID, ProductID: productID, Quantity: 4}
			},
			wantErr: apperror.ErrInsufficientStock,
		},
		{
			name: "inactive product",
			setup: func(store *memStore, _ *entity.Agent, product *entity.Product) {
				product.IsActive = false
				_ = memProducts{store}.Update(context.Background(), product)
			},
			input: func(agentID, productID uuid.UUID) *service.TransferStockInput {
				return &service.TransferStockInput{AgentID: agentID, ProductID: productID, Quantity: 1}
			},
			wantErr: apperror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			product := store.addProduct("Spark Plug", 3, 500)
			agent := store.addAgent("Ann Market", 0, true)
			if tt.setup != nil {
				tt.setup(store, agent, product)
			}
			svc := newAgentService(store)

			_, err := svc.TransferStock(context.Background(), tt.input(agent.ID, product.ID))

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			data := store.snapshot()
			assert.Empty(t, data.ledger)
			assert.Equal(t, 3, data.products[product.ID].QuantityInStock)
		})
	}
}

func TestAgentService_TransferStock_RollsBackOnFailure(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Wiper Blade", 10, 1000)
	agent := store.addAgent("Mary Lane", 0, true)
	store.failOn = "ledger.create"
	svc := newAgentService(store)

	_, err := svc.TransferStock(context.Background(), &service.TransferStockInput{
		AgentID:   agent.ID,
		ProductID: product.ID,
		Quantity:  2,
	})

	require.ErrorIs(t, err, errInjected)
	data := store.snapshot()
	assert.Equal(t, 10, data.products[product.ID].QuantityInStock)
	assert.Equal(t, 0, data.products[product.ID].QuantityInField)
	assert.Len(t, data.movements, 1)
	assert.Empty(t, data.audit)
}

func TestAgentService_TransferStock_ConcurrentCreditCheck(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Headlamp", 100, 50000)
	agent := store.addAgent("Busy Agent", 300000, false)
	svc := newAgentService(store)

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.TransferStock(context.Background(), &service.TransferStockInput{
				AgentID:   agent.ID,
				ProductID: product.ID,
				Quantity:  1,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperror.ErrCreditLimitExceeded):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 6, succeeded)
	assert.Equal(t, 4, rejected)
	data := store.snapshot()
	assert.True(t, dec(300000).Equal(data.outstanding(agent.ID)))
	assert.Equal(t, 94, data.products[product.ID].QuantityInStock)
	assert.Equal(t, 94, data.movementSum(product.ID))
}

func TestAgentService_RecordPayment(t *testing.T) {
	base := time.Now().UTC().Add(-72 * time.Hour)

	tests := []struct {
		name          string
		amount        int64
		wantErr       error
		wantPaid      []bool
		wantRemaining decimal.Decimal
		wantAllocs    int
	}{
		{
			name:          "settles exactly the oldest entry",
			amount:        1000,
			wantPaid:      []bool{true, false, false},
			wantRemaining: dec(5000),
			wantAllocs:    1,
		},
		{
			name:          "partial payment spills into the next entry",
			amount:        2500,
			wantPaid:      []bool{true, false, false},
			wantRemaining: dec(3500),
			wantAllocs:    2,
		},
		{
			name:          "full settlement",
			amount:        6000,
			wantPaid:      []bool{true, true, true},
			wantRemaining: decimal.Zero,
			wantAllocs:    3,
		},
		{
			name:          "overpayment is rejected",
			amount:        6001,
			wantErr:       apperror.ErrOverpayment,
			wantPaid:      []bool{false, false, false},
			wantRemaining: dec(6000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			product := store.addProduct("Fan Belt", 0, 1000)
			agent := store.addAgent("Tom Street", 100000, false)
			entries := []entity.AgentLedger{
				store.addLedger(agent.ID, product.ID, 1000, base),
				store.addLedger(agent.ID, product.ID, 2000, base.Add(time.Hour)),
				store.addLedger(agent.ID, product.ID, 3000, base.Add(2*time.Hour)),
			}
			svc := newAgentService(store)

			result, err := svc.RecordPayment(context.Background(), &service.RecordPaymentInput{
				UserID:        uuid.New(),
				AgentID:       agent.ID,
				Amount:        dec(tt.amount),
				PaymentMethod: enum.AgentPaymentCash,
			})

			data := store.snapshot()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, data.payments)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.wantRemaining.Equal(result.RemainingDebt))
				assert.Len(t, result.Payment.Allocations, tt.wantAllocs)
				require.Len(t, data.payments, 1)

				allocated := decimal.Zero
				for _, a := range data.payments[0].Allocations {
					allocated = allocated.Add(a.Amount)
				}
				assert.True(t, dec(tt.amount).Equal(allocated))
			}

			for i, e := range entries {
				assert.Equal(t, tt.wantPaid[i], data.ledger[e.ID].IsPaid, "entry %d", i)
			}
			assert.True(t, tt.wantRemaining.Equal(data.outstanding(agent.ID)))
		})
	}
}

func TestAgentService_RecordPayment_TargetedEntries(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Horn", 0, 1000)
	agent := store.addAgent("Lucy Corner", 100000, false)
	base := time.Now().UTC().Add(-24 * time.Hour)
	oldest := store.addLedger(agent.ID, product.ID, 1000, base)
	newest := store.addLedger(agent.ID, product.ID, 2000, base.Add(time.Hour))
	svc := newAgentService(store)

	t.Run("pays only the selected entry", func(t *testing.T) {
		result, err := svc.RecordPayment(context.Background(), &service.RecordPaymentInput{
			AgentID:        agent.ID,
			Amount:         dec(2000),
			PaymentMethod:  enum.AgentPaymentMobileMoney,
			LedgerEntryIDs: []uuid.UUID{newest.ID, newest.ID},
		})
		require.NoError(t, err)
		require.Len(t, result.UpdatedEntries, 1)
		assert.Equal(t, newest.ID, result.UpdatedEntries[0].ID)
		assert.True(t, store.ledgerEntry(newest.ID).IsPaid)
		assert.False(t, store.ledgerEntry(oldest.ID).IsPaid)
	})

	t.Run("rejects entries that are already paid", func(t *testing.T) {
		_, err := svc.RecordPayment(context.Background(), &service.RecordPaymentInput{
			AgentID:        agent.ID,
			Amount:         dec(100),
			PaymentMethod:  enum.AgentPaymentCash,
			LedgerEntryIDs: []uuid.UUID{newest.ID},
		})
		require.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("rejects stock return as a cash method", func(t *testing.T) {
		_, err := svc.RecordPayment(context.Background(), &service.RecordPaymentInput{
			AgentID:       agent.ID,
			Amount:        dec(100),
			PaymentMethod: enum.AgentPaymentStockReturn,
		})
		require.ErrorIs(t, err, apperror.ErrValidation)
	})
}

func TestAgentService_ReturnStock(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Side Mirror", 10, 1500)
	agent := store.addAgent("Sam Kiosk", 0, true)
	svc := newAgentService(store)
	ctx := context.Background()

	transfer, err := svc.TransferStock(ctx, &service.TransferStockInput{
		AgentID:   agent.ID,
		ProductID: product.ID,
		Quantity:  4,
	})
	require.NoError(t, err)
	entryID := transfer.LedgerEntry.ID

	result, err := svc.ReturnStock(ctx, &service.ReturnStockInput{
		AgentID:       agent.ID,
		LedgerEntryID: entryID,
		Quantity:      3,
	})
	require.NoError(t, err)

	assert.Equal(t, 9, result.NewStock)
	assert.True(t, dec(1500).Equal(result.RemainingDebt))
	require.NotNil(t, result.Payment)
	assert.Equal(t, enum.AgentPaymentStockReturn, result.Payment.PaymentMethod)
	assert.True(t, dec(4500).Equal(result.Payment.Amount))
	assert.Equal(t, enum.MovementTypeReturnFromAgent, result.Movement.MovementType)
	assert.Equal(t, 3, result.Movement.QuantityDelta)

	data := store.snapshot()
	assert.Equal(t, 1, data.products[product.ID].QuantityInField)
	assert.Equal(t, 9, data.movementSum(product.ID))
	assert.Equal(t, 4, data.ledger[entryID].Quantity)

	assert.Equal(t, 3, data.ledger[entryID].ReturnedQuantity)

	t.Run("more units than are still out is rejected", func(t *testing.T) {
		_, err := svc.ReturnStock(ctx, &service.ReturnStockInput{
			AgentID:       agent.ID,
			LedgerEntryID: entryID,
			Quantity:      2,
		})
		require.ErrorIs(t, err, apperror.ErrValidation)
		assert.Equal(t, 3, store.ledgerEntry(entryID).ReturnedQuantity)
	})

	t.Run("entry of another agent is not found", func(t *testing.T) {
		other := store.addAgent("Other", 0, true)
		_, err := svc.ReturnStock(ctx, &service.ReturnStockInput{
			AgentID:       other.ID,
			LedgerEntryID: entryID,
			Quantity:      1,
		})
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("last unit settles the entry", func(t *testing.T) {
		result, err := svc.ReturnStock(ctx, &service.ReturnStockInput{
			AgentID:       agent.ID,
			LedgerEntryID: entryID,
			Quantity:      1,
		})
		require.NoError(t, err)
		assert.True(t, result.LedgerEntry.IsPaid)
		assert.True(t, result.RemainingDebt.IsZero())
	})
}

func TestAgentService_ReturnStock_CumulativeCap(t *testing.T) {
	tests := []struct {
		name         string
		unitPrice    int64
		transferred  int
		returns      []int
		wantOK       []bool
		wantReturned int
	}{
		{
			name:         "priced entry",
			unitPrice:    100,
			transferred:  5,
			returns:      []int{2, 2, 2, 1},
			wantOK:       []bool{true, true, false, true},
			wantReturned: 5,
		},
		{
			name:         "zero-priced entry",
			unitPrice:    0,
			transferred:  2,
			returns:      []int{2, 2, 2, 2, 2},
			wantOK:       []bool{true, false, false, false, false},
			wantReturned: 2,
		},
		{
			name:         "zero-priced entry returned one at a time",
			unitPrice:    0,
			transferred:  2,
			returns:      []int{1, 1, 1},
			wantOK:       []bool{true, true, false},
			wantReturned: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			product := store.addProduct("Wiper Blade", 20, 800)
			agent := store.addAgent("Roadside Agent", 0, true)
			svc := newAgentService(store)
			ctx := context.Background()

			price := dec(tt.unitPrice)
			transfer, err := svc.TransferStock(ctx, &service.TransferStockInput{
				AgentID:   agent.ID,
				ProductID: product.ID,
				Quantity:  tt.transferred,
				UnitPrice: &price,
			})
			require.NoError(t, err)
			entryID := transfer.LedgerEntry.ID

			for i, qty := range tt.returns {
				_, err := svc.ReturnStock(ctx, &service.ReturnStockInput{
					AgentID:       agent.ID,
					LedgerEntryID: entryID,
					Quantity:      qty,
				})
				if tt.wantOK[i] {
					require.NoError(t, err, "return %d", i)
				} else {
					require.ErrorIs(t, err, apperror.ErrValidation, "return %d", i)
				}
				assert.GreaterOrEqual(t, store.product(product.ID).QuantityInField, 0)
			}

			data := store.snapshot()
			out := tt.transferred - tt.wantReturned
			assert.Equal(t, tt.wantReturned, data.ledger[entryID].ReturnedQuantity)
			assert.Equal(t, 20-out, data.products[product.ID].QuantityInStock)
			assert.Equal(t, out, data.products[product.ID].QuantityInField)
			assert.Equal(t, 20-out, data.movementSum(product.ID))
			assert.True(t, data.outstanding(agent.ID).IsZero())
		})
	}
}

func TestAgentService_ReturnStock_UnitsNotInField(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Fan Belt", 5, 600)
	agent := store.addAgent("Drifted Agent", 0, true)
	// The entry claims a unit the product counter never moved to the field
	entry := store.addLedger(agent.ID, product.ID, 600, time.Now().UTC())
	svc := newAgentService(store)

	_, err := svc.ReturnStock(context.Background(), &service.ReturnStockInput{
		AgentID:       agent.ID,
		LedgerEntryID: entry.ID,
		Quantity:      1,
	})
	require.ErrorIs(t, err, apperror.ErrValidation)

	data := store.snapshot()
	assert.Equal(t, 5, data.products[product.ID].QuantityInStock)
	assert.Equal(t, 0, data.products[product.ID].QuantityInField)
	assert.Equal(t, 0, data.ledger[entry.ID].ReturnedQuantity)
}

func TestAgentService_TransferStock_ZeroPriceIsSettled(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Valve Cap", 10, 50)
	agent := store.addAgent("Promo Agent", 1000, false)
	svc := newAgentService(store)
	ctx := context.Background()

	free := decimal.Zero
	transfer, err := svc.TransferStock(ctx, &service.TransferStockInput{
		AgentID:   agent.ID,
		ProductID: product.ID,
		Quantity:  3,
		UnitPrice: &free,
	})
	require.NoError(t, err)
	assert.True(t, transfer.LedgerEntry.IsPaid)
	require.NotNil(t, transfer.LedgerEntry.PaymentDate)

	stored := store.ledgerEntry(transfer.LedgerEntry.ID)
	assert.True(t, stored.IsPaid)
	assert.True(t, stored.DebtAmount.IsZero())

	summary, err := svc.GetDebtSummary(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.UnpaidCount)
	assert.True(t, summary.TotalDebt.IsZero())
}

func TestAgentService_ReturnStock_ValueAbovePartlyPaidBalance(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Horn", 10, 1500)
	agent := store.addAgent("Partly Paid", 0, true)
	svc := newAgentService(store)
	ctx := context.Background()

	transfer, err := svc.TransferStock(ctx, &service.TransferStockInput{
		AgentID:   agent.ID,
		ProductID: product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, &service.RecordPaymentInput{
		AgentID:       agent.ID,
		Amount:        dec(2000),
		PaymentMethod: enum.AgentPaymentCash,
	})
	require.NoError(t, err)

	_, err = svc.ReturnStock(ctx, &service.ReturnStockInput{
		AgentID:       agent.ID,
		LedgerEntryID: transfer.LedgerEntry.ID,
		Quantity:      1,
	})
	require.ErrorIs(t, err, apperror.ErrOverpayment)
	assert.Equal(t, 0, store.ledgerEntry(transfer.LedgerEntry.ID).ReturnedQuantity)
}

func TestAgentService_GetDebtSummary(t *testing.T) {
	store := newMemStore()
	product := store.addProduct("Battery", 0, 1000)
	agent := store.addAgent("Aging Agent", 10000, false)
	now := time.Now().UTC()
	store.addLedger(agent.ID, product.ID, 1000, now.Add(-2*24*time.Hour))
	store.addLedger(agent.ID, product.ID, 2000, now.Add(-20*24*time.Hour))
	store.addLedger(agent.ID, product.ID, 3000, now.Add(-100*24*time.Hour))
	svc := newAgentService(store)

	summary, err := svc.GetDebtSummary(context.Background(), agent.ID)
	require.NoError(t, err)

	assert.True(t, dec(6000).Equal(summary.TotalDebt))
	assert.True(t, dec(4000).Equal(summary.AvailableCredit))
	assert.Equal(t, 3, summary.UnpaidCount)
	assert.True(t, dec(1000).Equal(summary.Aging.Days0To7))
	assert.True(t, dec(2000).Equal(summary.Aging.Days8To30))
	assert.True(t, summary.Aging.Days31To60.IsZero())
	assert.True(t, summary.Aging.Days61To90.IsZero())
	assert.True(t, dec(3000).Equal(summary.Aging.Over90))
	assert.True(t, summary.TotalDebt.Equal(summary.Aging.Total()))
}

func TestAgentService_CreateAgent(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m *mock.MockAgentRepository, uow *mock.MockUnitOfWork)
		input     *service.CreateAgentInput
		wantErr   error
	}{
		{
			name:  "negative credit limit",
			input: &service.CreateAgentInput{FullName: "A", PhoneNumber: "0700", CreditLimit: dec(-5)},
			setupMock: func(m *mock.MockAgentRepository, uow *mock.MockUnitOfWork) {},
			wantErr:   apperror.ErrValidation,
		},
		{
			name:  "duplicate phone",
			input: &service.CreateAgentInput{FullName: "A", PhoneNumber: " 0700 "},
			setupMock: func(m *mock.MockAgentRepository, uow *mock.MockUnitOfWork) {
				m.EXPECT().GetByPhone(gomock.Any(), "0700").Return(&entity.Agent{ID: uuid.New()}, nil)
			},
			wantErr: apperror.ErrConflict,
		},
		{
			name:  "lookup failure",
			input: &service.CreateAgentInput{FullName: "A", PhoneNumber: "0700"},
			setupMock: func(m *mock.MockAgentRepository, uow *mock.MockUnitOfWork) {
				m.EXPECT().GetByPhone(gomock.Any(), "0700").Return(nil, errInjected)
			},
			wantErr: errInjected,
		},
		{
			name:  "transaction failure",
			input: &service.CreateAgentInput{FullName: "A", PhoneNumber: "0700"},
			setupMock: func(m *mock.MockAgentRepository, uow *mock.MockUnitOfWork) {
				m.EXPECT().GetByPhone(gomock.Any(), "0700").Return(nil, nil)
				uow.EXPECT().Do(gomock.Any(), gomock.Any()).Return(errInjected)
			},
			wantErr: errInjected,
		},
		{
			name:  "success",
			input: &service.CreateAgentInput{FullName: "A", PhoneNumber: "0700", CreditLimit: dec(1000)},
			setupMock: func(m *mock.MockAgentRepository, uow *mock.MockUnitOfWork) {
				m.EXPECT().GetByPhone(gomock.Any(), "0700").Return(nil, nil)
				uow.EXPECT().Do(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			agents := mock.NewMockAgentRepository(ctrl)
			uow := mock.NewMockUnitOfWork(ctrl)
			tt.setupMock(agents, uow)

			svc := service.NewAgentService(&repository.Repositories{Agents: agents}, uow, zap.NewNop())
			agent, err := svc.CreateAgent(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, agent)
				return
			}
			require.NoError(t, err)
			assert.True(t, agent.IsActive)
			assert.Equal(t, "0700", agent.PhoneNumber)
			require.NotNil(t, agent.TotalDebt)
			assert.True(t, agent.TotalDebt.IsZero())
		})
	}
}

func TestAgentService_GetAgent(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		setupMock func(a *mock.MockAgentRepository, l *mock.MockLedgerRepository)
		wantErr   error
		wantDebt  decimal.Decimal
	}{
		{
			name: "not found",
			setupMock: func(a *mock.MockAgentRepository, l *mock.MockLedgerRepository) {
				a.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)
			},
			wantErr: apperror.ErrNotFound,
		},
		{
			name: "debt lookup fails",
			setupMock: func(a *mock.MockAgentRepository, l *mock.MockLedgerRepository) {
				a.EXPECT().GetByID(gomock.Any(), id).Return(&entity.Agent{ID: id}, nil)
				l.EXPECT().SumOutstanding(gomock.Any(), id).Return(decimal.Zero, errInjected)
			},
			wantErr: errInjected,
		},
		{
			name: "fills total debt",
			setupMock: func(a *mock.MockAgentRepository, l *mock.MockLedgerRepository) {
				a.EXPECT().GetByID(gomock.Any(), id).Return(&entity.Agent{ID: id}, nil)
				l.EXPECT().SumOutstanding(gomock.Any(), id).Return(dec(4200), nil)
			},
			wantDebt: dec(4200),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			agents := mock.NewMockAgentRepository(ctrl)
			ledger := mock.NewMockLedgerRepository(ctrl)
			tt.setupMock(agents, ledger)

			svc := service.NewAgentService(&repository.Repositories{Agents: agents, Ledger: ledger}, nil, zap.NewNop())
			agent, err := svc.GetAgent(context.Background(), id)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantDebt.Equal(*agent.TotalDebt))
		})
	}
}
