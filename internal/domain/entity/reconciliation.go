package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Reconciliation is a physical stock count awaiting owner sign-off
type Reconciliation struct {
	ID                 uuid.UUID                 `gorm:"type:uuid;primary_key" json:"id"`
	ReconciliationDate time.Time                 `gorm:"not null;index" json:"reconciliation_date"`
	ReconciliationType enum.ReconciliationType   `gorm:"not null" json:"reconciliation_type"`
	Status             enum.ReconciliationStatus `gorm:"not null;index" json:"status"`
	PerformedBy        uuid.UUID                 `gorm:"type:uuid;not null" json:"performed_by"`
	CompletedAt        *time.Time                `json:"completed_at,omitempty"`
	ApprovedBy         *uuid.UUID                `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt         *time.Time                `json:"approved_at,omitempty"`
	TotalDiscrepancies int                       `gorm:"not null;default:0" json:"total_discrepancies"`
	RejectionReason    *string                   `gorm:"type:text" json:"rejection_reason,omitempty"`
	Notes              *string                   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`

	Items []ReconciliationItem `gorm:"foreignKey:ReconciliationID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new reconciliation
func (r *Reconciliation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Reconciliation model
func (Reconciliation) TableName() string {
	return "reconciliations"
}

// Reference is the movement reference used for approval adjustments
func (r *Reconciliation) Reference() string {
	return "RECON-" + r.ID.String()[:8]
}

// ReconciliationItem is one product count within a reconciliation
type ReconciliationItem struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ReconciliationID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_recon_item_product,priority:1" json:"reconciliation_id"`
	ProductID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_recon_item_product,priority:2" json:"product_id"`
	SystemCount          int        `gorm:"not null" json:"system_count"`
	PhysicalCount        int        `gorm:"not null;check:physical_count >= 0" json:"physical_count"`
	Variance             int        `gorm:"not null" json:"variance"`
	HasDiscrepancy       bool       `gorm:"not null;default:false" json:"has_discrepancy"`
	DiscrepancyReason    *string    `gorm:"type:text" json:"discrepancy_reason,omitempty"`
	CorrectionApplied    bool       `gorm:"not null;default:false" json:"correction_applied"`
	AdjustmentMovementID *uuid.UUID `gorm:"type:uuid" json:"adjustment_movement_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new reconciliation item
func (i *ReconciliationItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReconciliationItem model
func (ReconciliationItem) TableName() string {
	return "reconciliation_items"
}

// SetCounts records a count and derives variance and the discrepancy flag
func (i *ReconciliationItem) SetCounts(system, physical int) {
	i.SystemCount = system
	i.PhysicalCount = physical
	i.Variance = physical - system
	i.HasDiscrepancy = i.Variance != 0
}
