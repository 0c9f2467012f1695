package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Agent is a field seller who takes stock on consignment credit. Total debt
// is derived from the ledger and never stored.
type Agent struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	FullName     string          `gorm:"size:255;not null;index" json:"full_name"`
	PhoneNumber  string          `gorm:"size:32;uniqueIndex;not null" json:"phone_number"`
	IDNumber     *string         `gorm:"column:id_number;size:50;uniqueIndex" json:"id_number,omitempty"`
	Address      *string         `gorm:"type:text" json:"address,omitempty"`
	Area         string          `gorm:"size:100;index" json:"area"`
	BusinessName *string         `gorm:"size:255" json:"business_name,omitempty"`
	CreditLimit  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"credit_limit"`
	IsTrusted    bool            `gorm:"not null;default:false" json:"is_trusted"`
	IsActive     bool            `gorm:"not null;default:true;index" json:"is_active"`
	Notes        *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy    uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// TotalDebt is filled in by the service on reads
	TotalDebt *decimal.Decimal `gorm:"-" json:"total_debt,omitempty"`
}

// BeforeCreate generates a UUID before creating a new agent
func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Agent model
func (Agent) TableName() string {
	return "agents"
}

// CanTakeMoreStock reports whether the agent may take on additionalDebt
// given currentDebt. Trusted agents bypass the limit.
func (a *Agent) CanTakeMoreStock(currentDebt, additionalDebt decimal.Decimal) bool {
	if a.IsTrusted {
		return true
	}
	return currentDebt.Add(additionalDebt).LessThanOrEqual(a.CreditLimit)
}

// AgentLedger records stock handed to an agent on credit. Only the payment
// fields and ReturnedQuantity change after creation.
type AgentLedger struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AgentID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_agent_unpaid,priority:1" json:"agent_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity         int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	// ReturnedQuantity counts units brought back against this entry
	ReturnedQuantity int             `gorm:"not null;default:0;check:returned_quantity <= quantity" json:"returned_quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	DebtAmount       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"debt_amount"`
	TransferDate     time.Time       `gorm:"not null;index:idx_ledger_agent_unpaid,priority:3" json:"transfer_date"`
	IsPaid           bool            `gorm:"not null;default:false;index:idx_ledger_agent_unpaid,priority:2" json:"is_paid"`
	PaidAmount       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0;check:paid_amount <= debt_amount" json:"paid_amount"`
	PaymentDate      *time.Time      `json:"payment_date,omitempty"`
	MovementID       uuid.UUID       `gorm:"type:uuid;not null" json:"movement_id"`
	TransferredBy    uuid.UUID       `gorm:"type:uuid;not null" json:"transferred_by"`
	Notes            *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Agent   *Agent   `gorm:"foreignKey:AgentID;constraint:OnDelete:RESTRICT" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new ledger entry
func (l *AgentLedger) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AgentLedger model
func (AgentLedger) TableName() string {
	return "agent_ledger"
}

// Outstanding is the unpaid balance of the entry
func (l *AgentLedger) Outstanding() decimal.Decimal {
	return l.DebtAmount.Sub(l.PaidAmount)
}

// Returnable is how many units of the entry are still held by the agent
func (l *AgentLedger) Returnable() int {
	return l.Quantity - l.ReturnedQuantity
}

// ApplyPayment settles up to amount against the entry and returns the part
// that was applied.
func (l *AgentLedger) ApplyPayment(amount decimal.Decimal, at time.Time) decimal.Decimal {
	applied := decimal.Min(amount, l.Outstanding())
	if !applied.IsPositive() {
		return decimal.Zero
	}
	l.PaidAmount = l.PaidAmount.Add(applied)
	if l.PaidAmount.Equal(l.DebtAmount) {
		l.IsPaid = true
		l.PaymentDate = &at
	}
	return applied
}

// AgentPayment is an append-only record of money (or returned stock)
// received from an agent.
type AgentPayment struct {
	ID              uuid.UUID               `gorm:"type:uuid;primary_key" json:"id"`
	AgentID         uuid.UUID               `gorm:"type:uuid;not null;index" json:"agent_id"`
	Amount          decimal.Decimal         `gorm:"type:decimal(14,2);not null;check:amount > 0" json:"amount"`
	PaymentMethod   enum.AgentPaymentMethod `gorm:"not null" json:"payment_method"`
	ReferenceNumber *string                 `gorm:"size:100" json:"reference_number,omitempty"`
	ReceivedBy      uuid.UUID               `gorm:"type:uuid;not null" json:"received_by"`
	PaymentDate     time.Time               `gorm:"not null;index" json:"payment_date"`
	Notes           *string                 `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`

	Allocations []PaymentAllocation `gorm:"foreignKey:PaymentID" json:"allocations,omitempty"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *AgentPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AgentPayment model
func (AgentPayment) TableName() string {
	return "agent_payments"
}

// PaymentAllocation links part of a payment to the ledger entry it settled
type PaymentAllocation struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PaymentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"payment_id"`
	LedgerID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"ledger_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new allocation
func (a *PaymentAllocation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentAllocation model
func (PaymentAllocation) TableName() string {
	return "agent_payment_allocations"
}
