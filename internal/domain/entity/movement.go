package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Stock locations recorded on movements
const (
	LocationShop     = "shop"
	LocationSupplier = "supplier"
	LocationCustomer = "customer"
)

// AgentLocation is the location label for stock held by an agent
func AgentLocation(agentID uuid.UUID) string {
	return "agent_" + agentID.String()
}

// InventoryMovement is an append-only stock change. Rows are never updated;
// corrections are new movements.
type InventoryMovement struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ProductID      uuid.UUID         `gorm:"type:uuid;not null;index:idx_movements_product_created,priority:1" json:"product_id"`
	MovementType   enum.MovementType `gorm:"not null;index" json:"movement_type"`
	QuantityDelta  int               `gorm:"not null;check:quantity_delta <> 0" json:"quantity_delta"`
	QuantityBefore int               `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int               `gorm:"not null" json:"quantity_after"`
	FromLocation   string            `gorm:"size:64" json:"from_location"`
	ToLocation     string            `gorm:"size:64" json:"to_location"`
	Reference      string            `gorm:"size:100;index" json:"reference,omitempty"`
	PerformedBy    uuid.UUID         `gorm:"type:uuid;not null;index" json:"performed_by"`
	Notes          *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time         `gorm:"index:idx_movements_product_created,priority:2" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new movement
func (m *InventoryMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InventoryMovement model
func (InventoryMovement) TableName() string {
	return "inventory_movements"
}
