package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions
const (
	AuditActionCreate   = "create"
	AuditActionUpdate   = "update"
	AuditActionTransfer = "transfer"
	AuditActionPayment  = "payment"
	AuditActionReturn   = "return"
	AuditActionSale     = "sale"
	AuditActionReversal = "reversal"
	AuditActionAdjust   = "adjust"
	AuditActionApprove  = "approve"
	AuditActionReject   = "reject"
)

// AuditLog is an append-only trail of business mutations
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Action    string    `gorm:"size:32;not null;index" json:"action"`
	ModelName string    `gorm:"size:64;not null;index:idx_audit_object,priority:1" json:"model_name"`
	ObjectID  string    `gorm:"size:64;not null;index:idx_audit_object,priority:2" json:"object_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Details   string    `gorm:"type:jsonb" json:"details,omitempty"`
	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new audit log entry
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
