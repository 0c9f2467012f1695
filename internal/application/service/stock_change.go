package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/pkg/apperror"
)

// stockChange describes one movement against a product that is already
// locked by the caller. FieldDelta moves stock held by agents and is
// non-zero only for transfers and returns.
type stockChange struct {
	Product    *entity.Product
	Type       enum.MovementType
	Delta      int
	FieldDelta int
	From       string
	To         string
	Reference  string
	Actor      uuid.UUID
	Notes      *string
}

// applyStockChange is the single write path for stock quantities. It appends
// the movement and moves the cached counters, and must run inside a unit of
// work that holds the product row lock.
func applyStockChange(ctx context.Context, repos *repository.Repositories, change stockChange) (*entity.InventoryMovement, error) {
	p := change.Product
	if change.Delta == 0 {
		return nil, apperror.NewFieldError("quantity_delta", "must not be zero")
	}
	after := p.QuantityInStock + change.Delta
	if after < 0 {
		return nil, apperror.NewInsufficientStockError(p.Name, p.QuantityInStock, -change.Delta)
	}
	if p.QuantityInField+change.FieldDelta < 0 {
		return nil, apperror.NewFieldError("quantity",
			fmt.Sprintf("agents hold only %d units of %s", p.QuantityInField, p.Name))
	}

	movement := &entity.InventoryMovement{
		ProductID:      p.ID,
		MovementType:   change.Type,
		QuantityDelta:  change.Delta,
		QuantityBefore: p.QuantityInStock,
		QuantityAfter:  after,
		FromLocation:   change.From,
		ToLocation:     change.To,
		Reference:      change.Reference,
		PerformedBy:    change.Actor,
		Notes:          change.Notes,
	}
	if err := repos.Movements.Create(ctx, movement); err != nil {
		return nil, err
	}
	if err := repos.Products.ApplyStockDelta(ctx, p.ID, change.Delta, change.FieldDelta); err != nil {
		return nil, err
	}

	p.QuantityInStock = after
	p.QuantityInField += change.FieldDelta
	return movement, nil
}

// requireActive rejects new stock going out of, or into, a retired product.
// Returns and reversals of earlier activity skip this check.
func requireActive(p *entity.Product) error {
	if !p.IsActive {
		return apperror.NewFieldError("product_id", "product "+p.Name+" is inactive")
	}
	return nil
}

// movementLocations returns the default from/to labels for a movement type
func movementLocations(t enum.MovementType) (from, to string) {
	switch t {
	case enum.MovementTypePurchase:
		return entity.LocationSupplier, entity.LocationShop
	case enum.MovementTypeSale:
		return entity.LocationShop, entity.LocationCustomer
	case enum.MovementTypeReversal:
		return entity.LocationCustomer, entity.LocationShop
	default:
		return entity.LocationShop, entity.LocationShop
	}
}
