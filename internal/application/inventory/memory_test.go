package inventory

import (
	"context"
	"sort"

	"github.com/erp/costengine/internal/domain/inventory"
	"github.com/erp/costengine/internal/domain/ledger"
	"github.com/erp/costengine/internal/domain/shared"
	"github.com/google/uuid"
)

// In-memory repository fakes used by the application service tests. They
// intentionally store pointers so mutations made by services are visible
// without a persistence round trip.

type memoryItemRepo struct {
	items map[uuid.UUID]*inventory.Item
}

func newMemoryItemRepo() *memoryItemRepo {
	return &memoryItemRepo{items: make(map[uuid.UUID]*inventory.Item)}
}

func (r *memoryItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *memoryItemRepo) FindBySKU(_ context.Context, sku string) (*inventory.Item, error) {
	for _, item := range r.items {
		if item.SKU == sku {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryItemRepo) Save(_ context.Context, item *inventory.Item) error {
	r.items[item.ID] = item
	return nil
}

type memoryLayerRepo struct {
	layers map[uuid.UUID]*inventory.CostLayer
}

func newMemoryLayerRepo() *memoryLayerRepo {
	return &memoryLayerRepo{layers: make(map[uuid.UUID]*inventory.CostLayer)}
}

func (r *memoryLayerRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.CostLayer, error) {
	layer, ok := r.layers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return layer, nil
}

func (r *memoryLayerRepo) FindAvailableFIFO(_ context.Context, itemID, warehouseID uuid.UUID) ([]*inventory.CostLayer, error) {
	var out []*inventory.CostLayer
	for _, layer := range r.layers {
		if layer.ItemID == itemID && layer.WarehouseID == warehouseID && layer.HasStock() {
			out = append(out, layer)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *memoryLayerRepo) FindByOriginMove(_ context.Context, moveID uuid.UUID) ([]*inventory.CostLayer, error) {
	var out []*inventory.CostLayer
	for _, layer := range r.layers {
		if layer.OriginMoveID != nil && *layer.OriginMoveID == moveID {
			out = append(out, layer)
		}
	}
	return out, nil
}

func (r *memoryLayerRepo) Save(_ context.Context, layer *inventory.CostLayer) error {
	r.layers[layer.ID] = layer
	return nil
}

func (r *memoryLayerRepo) SaveAll(ctx context.Context, layers []*inventory.CostLayer) error {
	for _, layer := range layers {
		if err := r.Save(ctx, layer); err != nil {
			return err
		}
	}
	return nil
}

type memoryMoveRepo struct {
	moves map[uuid.UUID]*inventory.ReceiptMove
	items *memoryItemRepo
}

func newMemoryMoveRepo(items *memoryItemRepo) *memoryMoveRepo {
	return &memoryMoveRepo{moves: make(map[uuid.UUID]*inventory.ReceiptMove), items: items}
}

func (r *memoryMoveRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.ReceiptMove, error) {
	move, ok := r.moves[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return move, nil
}

func (r *memoryMoveRepo) FindPendingNormalization(_ context.Context) ([]*inventory.ReceiptMove, error) {
	var out []*inventory.ReceiptMove
	for _, move := range r.moves {
		item, ok := r.items.items[move.ItemID]
		if !ok {
			continue
		}
		if move.NeedsNormalization(item.BaseUnit) {
			out = append(out, move)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *memoryMoveRepo) Save(_ context.Context, move *inventory.ReceiptMove) error {
	r.moves[move.ID] = move
	return nil
}

type memoryConsumptionRepo struct {
	records map[uuid.UUID]*inventory.Consumption
}

func newMemoryConsumptionRepo() *memoryConsumptionRepo {
	return &memoryConsumptionRepo{records: make(map[uuid.UUID]*inventory.Consumption)}
}

func (r *memoryConsumptionRepo) FindByLayer(_ context.Context, layerID uuid.UUID) ([]*inventory.Consumption, error) {
	var out []*inventory.Consumption
	for _, rec := range r.records {
		if rec.LayerID == layerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memoryConsumptionRepo) FindByMoveOut(_ context.Context, moveOutID uuid.UUID) ([]*inventory.Consumption, error) {
	var out []*inventory.Consumption
	for _, rec := range r.records {
		if rec.MoveOutID == moveOutID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memoryConsumptionRepo) Save(_ context.Context, rec *inventory.Consumption) error {
	r.records[rec.ID] = rec
	return nil
}

func (r *memoryConsumptionRepo) SaveAll(ctx context.Context, records []*inventory.Consumption) error {
	for _, rec := range records {
		if err := r.Save(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

type memoryJournalRepo struct {
	entries map[uuid.UUID]*ledger.JournalEntry
}

func newMemoryJournalRepo() *memoryJournalRepo {
	return &memoryJournalRepo{entries: make(map[uuid.UUID]*ledger.JournalEntry)}
}

func (r *memoryJournalRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.JournalEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return entry, nil
}

func (r *memoryJournalRepo) FindBySource(_ context.Context, sourceType, sourceID string) ([]*ledger.JournalEntry, error) {
	var out []*ledger.JournalEntry
	for _, entry := range r.entries {
		if entry.SourceType == sourceType && entry.SourceID == sourceID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *memoryJournalRepo) Save(_ context.Context, entry *ledger.JournalEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

// testEnv wires the fakes behind a NoOpTransactionScope
type testEnv struct {
	items        *memoryItemRepo
	layers       *memoryLayerRepo
	moves        *memoryMoveRepo
	consumptions *memoryConsumptionRepo
	journal      *memoryJournalRepo
	scope        *NoOpTransactionScope
}

func newTestEnv() *testEnv {
	items := newMemoryItemRepo()
	layers := newMemoryLayerRepo()
	moves := newMemoryMoveRepo(items)
	consumptions := newMemoryConsumptionRepo()
	journal := newMemoryJournalRepo()
	return &testEnv{
		items:        items,
		layers:       layers,
		moves:        moves,
		consumptions: consumptions,
		journal:      journal,
		scope:        NewNoOpTransactionScope(items, layers, moves, consumptions, journal),
	}
}
