package inventory

import (
	"github.com/erp/costengine/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Consumption links one issue event to one cost layer it drew from. Qty is
// immutable; UnitCost is a snapshot of the layer's cost at the moment of
// consumption and is rewritten only by re-costing (consumption records are
// derived, not independently authoritative, for unit cost).
type Consumption struct {
	shared.BaseEntity
	MoveOutID uuid.UUID
	LayerID   uuid.UUID
	Qty       decimal.Decimal `gorm:"type:decimal(18,6);not null"` // in the item's base unit
	UnitCost  decimal.Decimal `gorm:"type:decimal(18,6);not null"` // layer unit cost at time of draw
}

// NewConsumption creates a consumption record for a single layer draw
func NewConsumption(moveOutID, layerID uuid.UUID, qty, unitCost decimal.Decimal) (*Consumption, error) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Consumption quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.ErrInvalidLayer
	}
	return &Consumption{
		BaseEntity: shared.NewBaseEntity(),
		MoveOutID:  moveOutID,
		LayerID:    layerID,
		Qty:        qty,
		UnitCost:   unitCost,
	}, nil
}

// Reprice overwrites the unit cost snapshot. Used only by re-costing to
// retroactively correct historical COGS.
func (c *Consumption) Reprice(newUnitCost decimal.Decimal) error {
	if newUnitCost.IsNegative() {
		return shared.ErrInvalidLayer
	}
	c.UnitCost = newUnitCost
	c.Touch()
	return nil
}

// Cost returns the monetary value of this draw (unrounded)
func (c *Consumption) Cost() decimal.Decimal {
	return c.Qty.Mul(c.UnitCost)
}
