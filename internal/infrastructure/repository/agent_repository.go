package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	domainRepo "github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type agentRepository struct {
	db *gorm.DB
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db *gorm.DB) domainRepo.AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, agent *entity.Agent) error {
	return translateError(r.db.WithContext(ctx).Create(agent).Error)
}

func (r *agentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Agent, error) {
	var agent entity.Agent
	err := r.db.WithContext(ctx).First(&agent, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &agent, err
}

func (r *agentRepository) GetByPhone(ctx context.Context, phone string) (*entity.Agent, error) {
	var agent entity.Agent
	err := r.db.WithContext(ctx).First(&agent, "phone_number = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &agent, err
}

func (r *agentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Agent, error) {
	var agent entity.Agent
	err := r.db.WithContext(ctx).
		Scopes(ForUpdate()).
		First(&agent, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &agent, translateError(err)
}

func (r *agentRepository) Update(ctx context.Context, agent *entity.Agent) error {
	err := r.db.WithContext(ctx).Model(agent).
		Select("full_name", "phone_number", "id_number", "address", "area", "business_name",
			"credit_limit", "is_trusted", "is_active", "notes").
		Updates(agent).Error
	return translateError(err)
}

func (r *agentRepository) List(ctx context.Context, params *domainRepo.AgentFilterParams) ([]entity.Agent, int64, error) {
	var agents []entity.Agent
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Agent{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("full_name ILIKE ? OR phone_number ILIKE ? OR business_name ILIKE ?", like, like, like)
	}
	if params.Area != "" {
		query = query.Where("area = ?", params.Area)
	}
	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
	}
	if params.IsTrusted != nil {
		query = query.Where("is_trusted = ?", *params.IsTrusted)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination = ensurePagination(params.Pagination)
	err := query.Scopes(Paginate(params.Pagination)).
		Order("full_name ASC").
		Find(&agents).Error

	return agents, total, err
}

func (r *agentRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Agent{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new agent ledger repository
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *entity.AgentLedger) error {
	return translateError(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AgentLedger, error) {
	var entry entity.AgentLedger
	err := r.db.WithContext(ctx).
		Preload("Product").
		First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *ledgerRepository) GetUnpaidByAgent(ctx context.Context, agentID uuid.UUID) ([]entity.AgentLedger, error) {
	var entries []entity.AgentLedger
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND is_paid = ?", agentID, false).
		Preload("Product").
		Order("transfer_date ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) GetUnpaidByIDs(ctx context.Context, agentID uuid.UUID, ids []uuid.UUID) ([]entity.AgentLedger, error) {
	if len(ids) == 0 {
		return []entity.AgentLedger{}, nil
	}
	var entries []entity.AgentLedger
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND is_paid = ? AND id IN ?", agentID, false, ids).
		Order("transfer_date ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) UpdatePayment(ctx context.Context, entry *entity.AgentLedger) error {
	result := r.db.WithContext(ctx).Model(&entity.AgentLedger{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"paid_amount":  entry.PaidAmount,
			"is_paid":      entry.IsPaid,
			"payment_date": entry.PaymentDate,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ledgerRepository) RecordReturn(ctx context.Context, entry *entity.AgentLedger) error {
	result := r.db.WithContext(ctx).Model(&entity.AgentLedger{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"returned_quantity": entry.ReturnedQuantity,
			"paid_amount":       entry.PaidAmount,
			"is_paid":           entry.IsPaid,
			"payment_date":      entry.PaymentDate,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ledgerRepository) SumOutstanding(ctx context.Context, agentID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&entity.AgentLedger{}).
		Select("COALESCE(SUM(debt_amount - paid_amount), 0)").
		Where("agent_id = ? AND is_paid = ?", agentID, false).
		Row().Scan(&sum)
	return sum, err
}

func (r *ledgerRepository) SumOutstandingAll(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&entity.AgentLedger{}).
		Select("COALESCE(SUM(debt_amount - paid_amount), 0)").
		Where("is_paid = ?", false).
		Row().Scan(&sum)
	return sum, err
}

func (r *ledgerRepository) ListByAgent(ctx context.Context, agentID uuid.UUID, isPaid *bool, params *pagination.PaginationParams) ([]entity.AgentLedger, int64, error) {
	var entries []entity.AgentLedger
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.AgentLedger{}).Where("agent_id = ?", agentID)
	if isPaid != nil {
		query = query.Where("is_paid = ?", *isPaid)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(ensurePagination(params))).
		Preload("Product").
		Order("transfer_date DESC").
		Find(&entries).Error

	return entries, total, err
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new agent payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

// Create inserts the payment and its allocations through GORM associations
func (r *paymentRepository) Create(ctx context.Context, payment *entity.AgentPayment) error {
	return translateError(r.db.WithContext(ctx).Create(payment).Error)
}

func (r *paymentRepository) ListByAgent(ctx context.Context, agentID uuid.UUID, params *pagination.PaginationParams) ([]entity.AgentPayment, int64, error) {
	var payments []entity.AgentPayment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.AgentPayment{}).Where("agent_id = ?", agentID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(ensurePagination(params))).
		Preload("Allocations").
		Order("payment_date DESC").
		Find(&payments).Error

	return payments, total, err
}
