package service

import (
	"context"
	"fmt"
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

// AgentService handles agents, consignment transfers and debt repayment
type AgentService struct {
	repos  *repository.Repositories
	uow    repository.UnitOfWork
	logger *zap.Logger
}

// NewAgentService creates a new agent service
func NewAgentService(repos *repository.Repositories, uow repository.UnitOfWork, logger *zap.Logger) *AgentService {
	return &AgentService{
		repos:  repos,
		uow:    uow,
		logger: logger,
	}
}

// CreateAgentInput represents the create agent input
type CreateAgentInput struct {
	UserID       uuid.UUID
	FullName     string
	PhoneNumber  string
	IDNumber     *string
	Address      *string
	Area         string
	BusinessName *string
	CreditLimit  decimal.Decimal
	IsTrusted    bool
	Notes        *string
}

// CreateAgent registers a new field agent
func (s *AgentService) CreateAgent(ctx context.Context, input *CreateAgentInput) (*entity.Agent, error) {
	if input.CreditLimit.IsNegative() {
		return nil, apperror.NewFieldError("credit_limit", "must not be negative")
	}

	phone := strings.TrimSpace(input.PhoneNumber)
	existing, err := s.repos.Agents.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("An agent with this phone number already exists")
	}

	agent := &entity.Agent{
		FullName:     input.FullName,
		PhoneNumber:  phone,
		IDNumber:     input.IDNumber,
		Address:      input.Address,
		Area:         input.Area,
		BusinessName: input.BusinessName,
		CreditLimit:  input.CreditLimit,
		IsTrusted:    input.IsTrusted,
		IsActive:     true,
		Notes:        input.Notes,
		CreatedBy:    input.UserID,
	}

	err = s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if err := repos.Agents.Create(ctx, agent); err != nil {
			return err
		}
		return recordAudit(ctx, repos, entity.AuditActionCreate, "agent", agent.ID, input.UserID, map[string]interface{}{
			"credit_limit": agent.CreditLimit.StringFixed(2),
			"is_trusted":   agent.IsTrusted,
		})
	})
	if err != nil {
		return nil, err
	}

	zero := decimal.Zero
	agent.TotalDebt = &zero
	return agent, nil
}

// GetAgent retrieves an agent with its current total debt
func (s *AgentService) GetAgent(ctx context.Context, id uuid.UUID) (*entity.Agent, error) {
	agent, err := s.repos.Agents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, apperror.NewNotFoundError("Agent")
	}

	debt, err := s.repos.Ledger.SumOutstanding(ctx, id)
	if err != nil {
		return nil, err
	}
	agent.TotalDebt = &debt
	return agent, nil
}

// ListAgents lists agents. Debt is only filled in on single-agent reads.
func (s *AgentService) ListAgents(ctx context.Context, params *repository.AgentFilterParams) (*pagination.PaginatedResult[entity.Agent], error) {
	params.Pagination = pageParams(params.Pagination)
	agents, total, err := s.repos.Agents.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(agents, pag), nil
}

// UpdateAgentInput represents the update agent input. Nil fields are left unchanged.
type UpdateAgentInput struct {
	UserID       uuid.UUID
	ID           uuid.UUID
	FullName     *string
	PhoneNumber  *string
	IDNumber     *string
	Address      *string
	Area         *string
	BusinessName *string
	CreditLimit  *decimal.Decimal
	IsTrusted    *bool
	IsActive     *bool
	Notes        *string
}

// UpdateAgent updates contact details, credit terms and flags
func (s *AgentService) UpdateAgent(ctx context.Context, input *UpdateAgentInput) (*entity.Agent, error) {
	var agent *entity.Agent
	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		agent, err = repos.Agents.GetForUpdate(ctx, input.ID)
		if err != nil {
			return err
		}
		if agent == nil {
			return apperror.NewNotFoundError("Agent")
		}

		if input.PhoneNumber != nil {
			phone := strings.TrimSpace(*input.PhoneNumber)
			if phone != agent.PhoneNumber {
				existing, err := repos.Agents.GetByPhone(ctx, phone)
				if err != nil {
					return err
				}
				if existing != nil && existing.ID != agent.ID {
					return apperror.NewConflictError("An agent with this phone number already exists")
				}
				agent.PhoneNumber = phone
			}
		}
		if input.FullName != nil {
			agent.FullName = *input.FullName
		}
		if input.IDNumber != nil {
			agent.IDNumber = input.IDNumber
		}
		if input.Address != nil {
			agent.Address = input.Address
		}
		if input.Area != nil {
			agent.Area = *input.Area
		}
		if input.BusinessName != nil {
			agent.BusinessName = input.BusinessName
		}
		if input.CreditLimit != nil {
			if input.CreditLimit.IsNegative() {
				return apperror.NewFieldError("credit_limit", "must not be negative")
			}
			agent.CreditLimit = *input.CreditLimit
		}
		if input.IsTrusted != nil {
			agent.IsTrusted = *input.IsTrusted
		}
		if input.IsActive != nil {
			agent.IsActive = *input.IsActive
		}
		if input.Notes != nil {
			agent.Notes = input.Notes
		}

		if err := repos.Agents.Update(ctx, agent); err != nil {
			return err
		}
		return recordAudit(ctx, repos, entity.AuditActionUpdate, "agent", agent.ID, input.UserID, map[string]interface{}{
			"credit_limit": agent.CreditLimit.StringFixed(2),
			"is_trusted":   agent.IsTrusted,
			"is_active":    agent.IsActive,
		})
	})
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// DeactivateAgent stops further transfers. Existing debt stays payable.
func (s *AgentService) DeactivateAgent(ctx context.Context, userID, id uuid.UUID) error {
	inactive := false
	_, err := s.UpdateAgent(ctx, &UpdateAgentInput{UserID: userID, ID: id, IsActive: &inactive})
	return err
}

// TotalDebt is the outstanding balance over the agent's unpaid entries
func (s *AgentService) TotalDebt(ctx context.Context, agentID uuid.UUID) (decimal.Decimal, error) {
	return s.repos.Ledger.SumOutstanding(ctx, agentID)
}

// CanTakeMoreStock reports whether the agent has headroom for additionalDebt.
// Transfers re-check this under the agent lock.
func (s *AgentService) CanTakeMoreStock(ctx context.Context, agentID uuid.UUID, additionalDebt decimal.Decimal) (bool, error) {
	agent, err := s.GetAgent(ctx, agentID)
	if err != nil {
		return false, err
	}
	return agent.CanTakeMoreStock(*agent.TotalDebt, additionalDebt), nil
}

// TransferStockInput represents stock handed to an agent on credit
type TransferStockInput struct {
	UserID    uuid.UUID
	AgentID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	// UnitPrice defaults to the product selling price
	UnitPrice *decimal.Decimal
	Notes     *string
}

// TransferResult is the outcome of a stock transfer
type TransferResult struct {
	LedgerEntry  *entity.AgentLedger `json:"ledger_entry"`
	NewStock     int                 `json:"new_stock"`
	NewTotalDebt decimal.Decimal     `json:"new_total_debt"`
}

// TransferStock moves shop stock to an agent and records the debt. The
// agent row lock serializes the credit check against concurrent transfers
// and payments for the same agent.
func (s *AgentService) TransferStock(ctx context.Context, input *TransferStockInput) (*TransferResult, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewFieldError("quantity", "must be greater than zero")
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, apperror.NewFieldError("unit_price", "must not be negative")
	}

	result := &TransferResult{}
	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		agent, err := repos.Agents.GetForUpdate(ctx, input.AgentID)
		if err != nil {
			return err
		}
		if agent == nil {
			return apperror.NewNotFoundError("Agent")
		}
		if !agent.IsActive {
			return apperror.NewInactiveAgentError(agent.FullName)
		}

		product, err := repos.Products.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}
		if err := requireActive(product); err != nil {
			return err
		}
		if product.QuantityInStock < input.Quantity {
			return apperror.NewInsufficientStockError(product.Name, product.QuantityInStock, input.Quantity)
		}

		unitPrice := product.SellingPrice
		if input.UnitPrice != nil {
			unitPrice = *input.UnitPrice
		}
		debt := unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))

		currentDebt, err := repos.Ledger.SumOutstanding(ctx, agent.ID)
		if err != nil {
			return err
		}
		if !agent.CanTakeMoreStock(currentDebt, debt) {
			return apperror.NewCreditLimitExceededError(
				agent.CreditLimit.StringFixed(2), currentDebt.StringFixed(2), debt.StringFixed(2))
		}

		entry := &entity.AgentLedger{
			ID:            uuid.New(),
			AgentID:       agent.ID,
			ProductID:     product.ID,
			Quantity:      input.Quantity,
			UnitPrice:     unitPrice,
			DebtAmount:    debt,
			TransferDate:  time.Now().UTC(),
			PaidAmount:    decimal.Zero,
			TransferredBy: input.UserID,
			Notes:         input.Notes,
		}
		// Free stock owes nothing, so the entry is settled on arrival
		if debt.IsZero() {
			entry.IsPaid = true
			entry.PaymentDate = &entry.TransferDate
		}

		movement, err := applyStockChange(ctx, repos, stockChange{
			Product:    product,
			Type:       enum.MovementTypeTransferToAgent,
			Delta:      -input.Quantity,
			FieldDelta: input.Quantity,
			From:       entity.LocationShop,
			To:         entity.AgentLocation(agent.ID),
			Reference:  ledgerReference(entry.ID),
			Actor:      input.UserID,
			Notes:      input.Notes,
		})
		if err != nil {
			return err
		}

		entry.MovementID = movement.ID
		if err := repos.Ledger.Create(ctx, entry); err != nil {
			return err
		}
		entry.Product = product

		if err := recordAudit(ctx, repos, entity.AuditActionTransfer, "agent_ledger", entry.ID, input.UserID, map[string]interface{}{
			"agent_id":    agent.ID,
			"product_id":  product.ID,
			"quantity":    input.Quantity,
			"unit_price":  unitPrice.StringFixed(2),
			"debt_amount": debt.StringFixed(2),
		}); err != nil {
			return err
		}

		result.LedgerEntry = entry
		result.NewStock = product.QuantityInStock
		result.NewTotalDebt = currentDebt.Add(debt)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock transferred to agent",
		zap.String("agent_id", input.AgentID.String()),
		zap.String("product_id", input.ProductID.String()),
		zap.Int("quantity", input.Quantity),
		zap.String("new_total_debt", result.NewTotalDebt.StringFixed(2)),
	)
	return result, nil
}

// ReturnStockInput represents unsold units an agent brings back
type ReturnStockInput struct {
	UserID        uuid.UUID
	AgentID       uuid.UUID
	LedgerEntryID uuid.UUID
	Quantity      int
	Notes         *string
}

// ReturnResult is the outcome of a stock return
type ReturnResult struct {
	Payment       *entity.AgentPayment      `json:"payment,omitempty"`
	LedgerEntry   *entity.AgentLedger       `json:"ledger_entry"`
	Movement      *entity.InventoryMovement `json:"movement"`
	NewStock      int                       `json:"new_stock"`
	RemainingDebt decimal.Decimal           `json:"remaining_debt"`
}

// ReturnStock takes units back into the shop and credits their value
// against the ledger entry they were transferred under. The entry's
// quantity and price are left as recorded. Returns against one entry never
// add up to more than the quantity it transferred.
func (s *AgentService) ReturnStock(ctx context.Context, input *ReturnStockInput) (*ReturnResult, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewFieldError("quantity", "must be greater than zero")
	}

	result := &ReturnResult{}
	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		agent, err := repos.Agents.GetForUpdate(ctx, input.AgentID)
		if err != nil {
			return err
		}
		if agent == nil {
			return apperror.NewNotFoundError("Agent")
		}

		entry, err := repos.Ledger.GetByID(ctx, input.LedgerEntryID)
		if err != nil {
			return err
		}
		if entry == nil || entry.AgentID != agent.ID {
			return apperror.NewNotFoundError("Ledger entry")
		}
		if input.Quantity > entry.Returnable() {
			return apperror.NewFieldError("quantity",
				fmt.Sprintf("only %d of %d transferred units can still be returned", entry.Returnable(), entry.Quantity))
		}

		value := entry.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))
		outstanding := entry.Outstanding()
		if value.GreaterThan(outstanding) {
			return apperror.NewOverpaymentError(value.StringFixed(2), outstanding.StringFixed(2))
		}

		product, err := repos.Products.GetForUpdate(ctx, entry.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}

		movement, err := applyStockChange(ctx, repos, stockChange{
			Product:    product,
			Type:       enum.MovementTypeReturnFromAgent,
			Delta:      input.Quantity,
			FieldDelta: -input.Quantity,
			From:       entity.AgentLocation(agent.ID),
			To:         entity.LocationShop,
			Reference:  ledgerReference(entry.ID),
			Actor:      input.UserID,
			Notes:      input.Notes,
		})
		if err != nil {
			return err
		}

		// Units transferred at no charge carry no value to credit
		now := time.Now().UTC()
		entry.ReturnedQuantity += input.Quantity
		applied := entry.ApplyPayment(value, now)
		if err := repos.Ledger.RecordReturn(ctx, entry); err != nil {
			return err
		}
		if applied.IsPositive() {
			result.Payment = &entity.AgentPayment{
				AgentID:       agent.ID,
				Amount:        applied,
				PaymentMethod: enum.AgentPaymentStockReturn,
				ReceivedBy:    input.UserID,
				PaymentDate:   now,
				Notes:         input.Notes,
				Allocations:   []entity.PaymentAllocation{{LedgerID: entry.ID, Amount: applied}},
			}
			if err := repos.Payments.Create(ctx, result.Payment); err != nil {
				return err
			}
		}

		remaining, err := repos.Ledger.SumOutstanding(ctx, agent.ID)
		if err != nil {
			return err
		}

		if err := recordAudit(ctx, repos, entity.AuditActionReturn, "agent_ledger", entry.ID, input.UserID, map[string]interface{}{
			"agent_id": agent.ID,
			"quantity": input.Quantity,
			"value":    applied.StringFixed(2),
		}); err != nil {
			return err
		}

		result.LedgerEntry = entry
		result.Movement = movement
		result.NewStock = product.QuantityInStock
		result.RemainingDebt = remaining
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("agent returned stock",
		zap.String("agent_id", input.AgentID.String()),
		zap.String("ledger_id", input.LedgerEntryID.String()),
		zap.Int("quantity", input.Quantity),
	)
	return result, nil
}

// RecordPaymentInput represents money received from an agent
type RecordPaymentInput struct {
	UserID          uuid.UUID
	AgentID         uuid.UUID
	Amount          decimal.Decimal
	PaymentMethod   enum.AgentPaymentMethod
	ReferenceNumber *string
	Notes           *string
	// LedgerEntryIDs limits settlement to these entries, still oldest first
	LedgerEntryIDs []uuid.UUID
}

// PaymentResult is the outcome of a payment
type PaymentResult struct {
	Payment        *entity.AgentPayment `json:"payment"`
	UpdatedEntries []entity.AgentLedger `json:"updated_entries"`
	RemainingDebt  decimal.Decimal      `json:"remaining_debt"`
}

// RecordPayment settles agent debt oldest entry first. A payment larger than
// the targeted outstanding balance is rejected without writing anything.
func (s *AgentService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*PaymentResult, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewFieldError("amount", "must be greater than zero")
	}
	if input.PaymentMethod == enum.AgentPaymentStockReturn {
		return nil, apperror.NewFieldError("payment_method", "record returned stock through the returns endpoint")
	}

	result := &PaymentResult{}
	err := s.uow.Do(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		agent, err := repos.Agents.GetForUpdate(ctx, input.AgentID)
		if err != nil {
			return err
		}
		if agent == nil {
			return apperror.NewNotFoundError("Agent")
		}

		var entries []entity.AgentLedger
		if len(input.LedgerEntryIDs) > 0 {
			ids := utils.DedupeIDs(input.LedgerEntryIDs)
			entries, err = repos.Ledger.GetUnpaidByIDs(ctx, agent.ID, ids)
			if err != nil {
				return err
			}
			if len(entries) != len(ids) {
				return apperror.NewFieldError("ledger_entry_ids", "must reference unpaid entries of this agent")
			}
		} else {
			entries, err = repos.Ledger.GetUnpaidByAgent(ctx, agent.ID)
			if err != nil {
				return err
			}
		}

		outstanding := decimal.Zero
		for i := range entries {
			outstanding = outstanding.Add(entries[i].Outstanding())
		}
		if input.Amount.GreaterThan(outstanding) {
			return apperror.NewOverpaymentError(input.Amount.StringFixed(2), outstanding.StringFixed(2))
		}

		now := time.Now().UTC()
		allocations, _ := AllocateFIFO(entries, input.Amount, now)

		touched := make(map[uuid.UUID]struct{}, len(allocations))
		payment := &entity.AgentPayment{
			AgentID:         agent.ID,
			Amount:          input.Amount,
			PaymentMethod:   input.PaymentMethod,
			ReferenceNumber: input.ReferenceNumber,
			ReceivedBy:      input.UserID,
			PaymentDate:     now,
			Notes:           input.Notes,
		}
		for _, a := range allocations {
			touched[a.LedgerID] = struct{}{}
			payment.Allocations = append(payment.Allocations, entity.PaymentAllocation{LedgerID: a.LedgerID, Amount: a.Amount})
		}

		updated := make([]entity.AgentLedger, 0, len(allocations))
		for i := range entries {
			if _, ok := touched[entries[i].ID]; !ok {
				continue
			}
			if err := repos.Ledger.UpdatePayment(ctx, &entries[i]); err != nil {
				return err
			}
			updated = append(updated, entries[i])
		}

		if err := repos.Payments.Create(ctx, payment); err != nil {
			return err
		}

		remaining, err := repos.Ledger.SumOutstanding(ctx, agent.ID)
		if err != nil {
			return err
		}

		if err := recordAudit(ctx, repos, entity.AuditActionPayment, "agent_payment", payment.ID, input.UserID, map[string]interface{}{
			"agent_id":       agent.ID,
			"amount":         input.Amount.StringFixed(2),
			"payment_method": input.PaymentMethod.String(),
			"entries":        len(updated),
		}); err != nil {
			return err
		}

		result.Payment = payment
		result.UpdatedEntries = updated
		result.RemainingDebt = remaining
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("agent payment recorded",
		zap.String("agent_id", input.AgentID.String()),
		zap.String("amount", input.Amount.StringFixed(2)),
		zap.String("remaining_debt", result.RemainingDebt.StringFixed(2)),
	)
	return result, nil
}

// DebtSummary describes what an agent owes and for how long
type DebtSummary struct {
	AgentID         uuid.UUID            `json:"agent_id"`
	AgentName       string               `json:"agent_name"`
	CreditLimit     decimal.Decimal      `json:"credit_limit"`
	IsTrusted       bool                 `json:"is_trusted"`
	TotalDebt       decimal.Decimal      `json:"total_debt"`
	AvailableCredit decimal.Decimal      `json:"available_credit"`
	UnpaidCount     int                  `json:"unpaid_count"`
	UnpaidEntries   []entity.AgentLedger `json:"unpaid_entries"`
	Aging           DebtAging            `json:"aging"`
}

// GetDebtSummary reports the agent's outstanding debt with aging buckets
func (s *AgentService) GetDebtSummary(ctx context.Context, agentID uuid.UUID) (*DebtSummary, error) {
	agent, err := s.GetAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repos.Ledger.GetUnpaidByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []entity.AgentLedger{}
	}

	available := decimal.Max(agent.CreditLimit.Sub(*agent.TotalDebt), decimal.Zero)
	return &DebtSummary{
		AgentID:         agent.ID,
		AgentName:       agent.FullName,
		CreditLimit:     agent.CreditLimit,
		IsTrusted:       agent.IsTrusted,
		TotalDebt:       *agent.TotalDebt,
		AvailableCredit: available,
		UnpaidCount:     len(entries),
		UnpaidEntries:   entries,
		Aging:           NewDebtAging(entries, time.Now().UTC()),
	}, nil
}

// ListLedger lists an agent's ledger entries newest first
func (s *AgentService) ListLedger(ctx context.Context, agentID uuid.UUID, isPaid *bool, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.AgentLedger], error) {
	if _, err := s.requireAgent(ctx, agentID); err != nil {
		return nil, err
	}

	params = pageParams(params)
	entries, total, err := s.repos.Ledger.ListByAgent(ctx, agentID, isPaid, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(entries, pag), nil
}

// ListPayments lists an agent's payments newest first
func (s *AgentService) ListPayments(ctx context.Context, agentID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.AgentPayment], error) {
	if _, err := s.requireAgent(ctx, agentID); err != nil {
		return nil, err
	}

	params = pageParams(params)
	payments, total, err := s.repos.Payments.ListByAgent(ctx, agentID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(payments, pag), nil
}

func (s *AgentService) requireAgent(ctx context.Context, id uuid.UUID) (*entity.Agent, error) {
	agent, err := s.repos.Agents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, apperror.NewNotFoundError("Agent")
	}
	return agent, nil
}

func ledgerReference(id uuid.UUID) string {
	return "LEDGER-" + strings.ToUpper(id.String()[:8])
}
