package inventory

import (
	"time"

	"github.com/erp/costengine/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostLayer represents one batch of stock acquired at a single cost. It is
// the ownership record of physical inventory: RemainingQty only decreases
// (through consumption), UnitCost is only overwritten in place by re-costing,
// and a fully consumed layer remains as a permanent historical record.
type CostLayer struct {
	shared.BaseEntity
	ItemID       uuid.UUID
	WarehouseID  uuid.UUID
	RemainingQty decimal.Decimal `gorm:"type:decimal(18,6);not null"` // in the item's base unit, never negative
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,6);not null"` // currency per base unit, never negative
	LotNumber    string
	ExpiryDate   *time.Time
	OriginMoveID *uuid.UUID // receipt move that created this layer, nil for manual layers
}

// NewCostLayer creates a new cost layer. Quantity and unit cost must be
// non-negative; both are expressed in the item's base unit.
func NewCostLayer(
	itemID, warehouseID uuid.UUID,
	qtyBase, unitCostBase decimal.Decimal,
	originMoveID *uuid.UUID,
) (*CostLayer, error) {
	if qtyBase.IsNegative() || unitCostBase.IsNegative() {
		return nil, shared.ErrInvalidLayer
	}
	return &CostLayer{
		BaseEntity:   shared.NewBaseEntity(),
		ItemID:       itemID,
		WarehouseID:  warehouseID,
		RemainingQty: qtyBase,
		UnitCost:     unitCostBase,
		OriginMoveID: originMoveID,
	}, nil
}

// Decrement reduces the layer's remaining quantity by qtyBase. A layer is
// never allowed to go negative.
func (l *CostLayer) Decrement(qtyBase decimal.Decimal) error {
	if qtyBase.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Decrement quantity must be positive")
	}
	if qtyBase.GreaterThan(l.RemainingQty) {
		return shared.ErrInsufficientLayerQuantity
	}
	l.RemainingQty = l.RemainingQty.Sub(qtyBase)
	l.Touch()
	return nil
}

// SetUnitCost overwrites the layer's unit cost. Used only by re-costing;
// the remaining quantity is never touched.
func (l *CostLayer) SetUnitCost(newUnitCost decimal.Decimal) error {
	if newUnitCost.IsNegative() {
		return shared.ErrInvalidLayer
	}
	l.UnitCost = newUnitCost
	l.Touch()
	return nil
}

// HasStock returns true if the layer still holds quantity
func (l *CostLayer) HasStock() bool {
	return l.RemainingQty.GreaterThan(decimal.Zero)
}

// Value returns the layer's remaining monetary value (unrounded)
func (l *CostLayer) Value() decimal.Decimal {
	return l.RemainingQty.Mul(l.UnitCost)
}
