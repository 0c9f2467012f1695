package repository

//go:generate mockgen -source=agent_repository.go -destination=mock/agent_repository_mock.go -package=mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// AgentRepository defines the interface for agent data operations
type AgentRepository interface {
	Create(ctx context.Context, agent *entity.Agent) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Agent, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Agent, error)
	// GetForUpdate locks the agent row. Transfers, payments and returns for
	// one agent serialize on this lock.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Agent, error)
	Update(ctx context.Context, agent *entity.Agent) error
	List(ctx context.Context, params *AgentFilterParams) ([]entity.Agent, int64, error)
	CountActive(ctx context.Context) (int64, error)
}

// AgentFilterParams contains filtering parameters for agent queries
type AgentFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Area       string
	IsActive   *bool
	IsTrusted  *bool
}

// LedgerRepository stores consignment debt entries
type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.AgentLedger) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AgentLedger, error)
	// GetUnpaidByAgent returns unpaid entries oldest first
	GetUnpaidByAgent(ctx context.Context, agentID uuid.UUID) ([]entity.AgentLedger, error)
	// GetUnpaidByIDs returns the requested unpaid entries of one agent oldest first
	GetUnpaidByIDs(ctx context.Context, agentID uuid.UUID, ids []uuid.UUID) ([]entity.AgentLedger, error)
	// UpdatePayment writes paid_amount, is_paid and payment_date only
	UpdatePayment(ctx context.Context, entry *entity.AgentLedger) error
	// RecordReturn writes returned_quantity and the payment fields
	RecordReturn(ctx context.Context, entry *entity.AgentLedger) error
	// SumOutstanding is the agent's total debt over unpaid entries
	SumOutstanding(ctx context.Context, agentID uuid.UUID) (decimal.Decimal, error)
	SumOutstandingAll(ctx context.Context) (decimal.Decimal, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID, isPaid *bool, params *pagination.PaginationParams) ([]entity.AgentLedger, int64, error)
}

// PaymentRepository stores agent payments together with their allocations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.AgentPayment) error
	ListByAgent(ctx context.Context, agentID uuid.UUID, params *pagination.PaginationParams) ([]entity.AgentPayment, int64, error)
}
