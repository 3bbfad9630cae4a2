package inventory

import (
	"github.com/erp/costengine/internal/domain/shared"
	"github.com/erp/costengine/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptMoveSource identifies the workflow that produced a receipt
type ReceiptMoveSource string

const (
	ReceiptSourcePurchase   ReceiptMoveSource = "PURCHASE"
	ReceiptSourceProduction ReceiptMoveSource = "PRODUCTION"
	ReceiptSourceConversion ReceiptMoveSource = "CONVERSION_IN"
	ReceiptSourceAdjustment ReceiptMoveSource = "ADJUSTMENT_IN"
	ReceiptSourceTransfer   ReceiptMoveSource = "TRANSFER_IN"
)

// ReceiptMove is the event that created a cost layer. It keeps the unit and
// unit cost exactly as originally recorded, which may differ from the item's
// base unit. That mismatch is what the re-costing engine scans for.
type ReceiptMove struct {
	shared.BaseEntity
	ItemID      uuid.UUID
	WarehouseID uuid.UUID
	Unit        valueobject.Unit // unit as originally keyed in
	Quantity    decimal.Decimal  `gorm:"type:decimal(18,6);not null"` // in the recorded unit
	UnitCost    decimal.Decimal  `gorm:"type:decimal(18,6);not null"` // currency per recorded unit
	SourceType  ReceiptMoveSource
	SourceID    string
}

// NewReceiptMove creates a receipt move with the originally recorded unit,
// quantity and cost.
func NewReceiptMove(
	itemID, warehouseID uuid.UUID,
	unit valueobject.Unit,
	quantity, unitCost decimal.Decimal,
	sourceType ReceiptMoveSource,
	sourceID string,
) (*ReceiptMove, error) {
	if !unit.IsValid() {
		return nil, valueobject.ErrUnknownUnit
	}
	if quantity.IsNegative() || unitCost.IsNegative() {
		return nil, shared.ErrInvalidLayer
	}
	return &ReceiptMove{
		BaseEntity:  shared.NewBaseEntity(),
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Unit:        unit,
		Quantity:    quantity,
		UnitCost:    unitCost,
		SourceType:  sourceType,
		SourceID:    sourceID,
	}, nil
}

// NeedsNormalization returns true when the move was recorded in a unit other
// than the item's base unit.
func (m *ReceiptMove) NeedsNormalization(baseUnit valueobject.Unit) bool {
	return m.Unit != baseUnit
}

// Normalize rewrites the move's recorded unit, quantity and unit cost to the
// item's base unit. After normalization a re-costing rescan finds nothing
// left to fix for this move.
func (m *ReceiptMove) Normalize(baseUnit valueobject.Unit, qtyBase, unitCostBase decimal.Decimal) {
	m.Unit = baseUnit
	m.Quantity = qtyBase
	m.UnitCost = unitCostBase
	m.Touch()
}
