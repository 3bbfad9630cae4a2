package inventory

import (
	"time"

	"github.com/erp/costengine/internal/domain/inventory"
	"github.com/erp/costengine/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptRequest describes a stock receipt to post. Quantity and UnitCost are
// in the recorded unit, which may differ from the item's base unit; in that
// case the layer is created with the base-unit quantity but keeps the
// recorded unit cost until the re-costing run normalizes it.
type ReceiptRequest struct {
	ItemID      uuid.UUID
	WarehouseID uuid.UUID
	Unit        valueobject.Unit
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	SourceType  inventory.ReceiptMoveSource
	SourceID    string
	LotNumber   string
	ExpiryDate  *time.Time
}

// ReceiptResult reports the layer and move created by a receipt
type ReceiptResult struct {
	Move  *inventory.ReceiptMove
	Layer *inventory.CostLayer
	// PendingNormalization is true when the recorded unit differed from the
	// item's base unit and the layer cost awaits the re-costing run.
	PendingNormalization bool
}

// AllocateRequest describes an issue to allocate against cost layers
type AllocateRequest struct {
	ItemID      uuid.UUID
	WarehouseID uuid.UUID
	MoveOutID   uuid.UUID
	Quantity    decimal.Decimal
	Unit        valueobject.Unit
}

// AllocateResult reports the consumption records minted for an issue
type AllocateResult struct {
	Consumptions []*inventory.Consumption
	Allocated    decimal.Decimal // base unit
	TotalCost    decimal.Decimal
	// Shortfall is the unsatisfied remainder; non-zero only when a negative
	// stock policy authorized the allocation to proceed short.
	Shortfall decimal.Decimal
}

// SplitResult reports the outcome of a layer split
type SplitResult struct {
	Source *inventory.CostLayer // coarse layer after the decrement
	Minted *inventory.CostLayer // new finer-grained layer
}

// ItemDelta is the monetary correction computed for one item by a re-costing
// run, together with the accounts it posts against.
type ItemDelta struct {
	ItemID           uuid.UUID
	ItemSKU          string
	InventoryAccount string
	COGSAccount      string
	Delta            decimal.Decimal
}

// ItemFailure records a per-item failure during a batch run
type ItemFailure struct {
	ItemID uuid.UUID
	Err    error
}

// RunSummary is the run-level report of a re-costing batch
type RunSummary struct {
	StartedAt      time.Time
	FinishedAt     time.Time
	ItemsScanned   int
	ItemsCorrected int
	TotalDelta     decimal.Decimal
	JournalEntryID *uuid.UUID // nil when every delta was zero
	Failures       []ItemFailure
}

// Partial reports whether any item failed while others were corrected
func (s *RunSummary) Partial() bool {
	return len(s.Failures) > 0 && s.ItemsCorrected > 0
}
