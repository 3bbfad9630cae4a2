package inventory

import (
	"context"

	"github.com/google/uuid"
)

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindBySKU finds an item by its SKU
	FindBySKU(ctx context.Context, sku string) (*Item, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error
}

// CostLayerRepository defines the interface for cost layer persistence
type CostLayerRepository interface {
	// FindByID finds a cost layer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CostLayer, error)

	// FindAvailableFIFO finds layers with remaining quantity for an
	// item+warehouse, ordered by creation (oldest first). Implementations
	// must lock the returned rows for the duration of the enclosing
	// transaction so concurrent allocations cannot double-spend them.
	FindAvailableFIFO(ctx context.Context, itemID, warehouseID uuid.UUID) ([]*CostLayer, error)

	// FindByOriginMove finds the layers created by a receipt move
	FindByOriginMove(ctx context.Context, moveID uuid.UUID) ([]*CostLayer, error)

	// Save creates or updates a cost layer
	Save(ctx context.Context, layer *CostLayer) error

	// SaveAll creates or updates multiple cost layers
	SaveAll(ctx context.Context, layers []*CostLayer) error
}

// ReceiptMoveRepository defines the interface for receipt move persistence
type ReceiptMoveRepository interface {
	// FindByID finds a receipt move by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ReceiptMove, error)

	// FindPendingNormalization finds moves whose recorded unit differs from
	// their item's base unit
	FindPendingNormalization(ctx context.Context) ([]*ReceiptMove, error)

	// Save creates or updates a receipt move
	Save(ctx context.Context, move *ReceiptMove) error
}

// ConsumptionRepository defines the interface for consumption record persistence
type ConsumptionRepository interface {
	// FindByLayer finds all consumption records drawn from a layer
	FindByLayer(ctx context.Context, layerID uuid.UUID) ([]*Consumption, error)

	// FindByMoveOut finds all consumption records minted for one issue event
	FindByMoveOut(ctx context.Context, moveOutID uuid.UUID) ([]*Consumption, error)

	// Save creates or updates a consumption record
	Save(ctx context.Context, record *Consumption) error

	// SaveAll creates or updates multiple consumption records
	SaveAll(ctx context.Context, records []*Consumption) error
}
