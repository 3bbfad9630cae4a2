package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/erp/costengine/internal/domain/inventory"
	"github.com/erp/costengine/internal/domain/shared"
	"github.com/erp/costengine/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecostService detects layers whose originating receipt was recorded in a
// unit other than the item's base unit, recomputes their unit cost in the
// base unit, propagates the correction to every dependent consumption
// record, and posts the accumulated monetary delta to the ledger.
//
// Each item's apply phase runs in its own transaction: one item's failure
// never aborts another item's correction, but every failure is reported in
// the run summary. Normalizing the receipt move makes the run idempotent - a
// rescan finds nothing left to fix.
type RecostService struct {
	scope   TransactionScope
	adapter *PostingAdapter
	logger  *zap.Logger
	now     func() time.Time
}

// NewRecostService creates a new RecostService
func NewRecostService(scope TransactionScope, adapter *PostingAdapter, logger *zap.Logger) *RecostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecostService{
		scope:   scope,
		adapter: adapter,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes one re-costing batch. It returns a summary even when some
// items failed; the returned error is non-nil only when the scan itself or
// the final ledger posting failed.
func (s *RecostService) Run(ctx context.Context) (*RunSummary, error) {
	runID := uuid.New()
	summary := &RunSummary{
		StartedAt:  s.now(),
		TotalDelta: decimal.Zero,
	}

	var pending []*inventory.ReceiptMove
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		pending, err = repos.Moves().FindPendingNormalization(ctx)
		return err
	})
	if err != nil {
		return summary, err
	}

	groups := make(map[uuid.UUID][]*inventory.ReceiptMove)
	for _, move := range pending {
		groups[move.ItemID] = append(groups[move.ItemID], move)
	}
	itemIDs := make([]uuid.UUID, 0, len(groups))
	for id := range groups {
		itemIDs = append(itemIDs, id)
	}
	sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i].String() < itemIDs[j].String() })
	summary.ItemsScanned = len(itemIDs)

	deltas := make([]ItemDelta, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		delta, err := s.recostItem(ctx, itemID, groups[itemID])
		if err != nil {
			summary.Failures = append(summary.Failures, ItemFailure{ItemID: itemID, Err: err})
			s.logger.Error("item re-costing failed",
				zap.String("run_id", runID.String()),
				zap.String("item_id", itemID.String()),
				zap.Bool("retryable", shared.IsRetryable(err)),
				zap.Error(err),
			)
			continue
		}
		deltas = append(deltas, delta)
		summary.ItemsCorrected++
		summary.TotalDelta = summary.TotalDelta.Add(delta.Delta)
		s.logger.Info("item re-costed",
			zap.String("run_id", runID.String()),
			zap.String("item_id", itemID.String()),
			zap.String("sku", delta.ItemSKU),
			zap.String("delta", delta.Delta.String()),
		)
	}

	if len(deltas) > 0 {
		err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			entry, err := s.adapter.Post(ctx, repos.Journal(), s.now(), runID.String(), deltas)
			if err != nil {
				return err
			}
			if entry != nil {
				id := entry.ID
				summary.JournalEntryID = &id
			}
			return nil
		})
		if err != nil {
			summary.FinishedAt = s.now()
			return summary, err
		}
	}

	summary.FinishedAt = s.now()
	s.logger.Info("re-costing run finished",
		zap.String("run_id", runID.String()),
		zap.Int("items_scanned", summary.ItemsScanned),
		zap.Int("items_corrected", summary.ItemsCorrected),
		zap.Int("items_failed", len(summary.Failures)),
		zap.String("total_delta", summary.TotalDelta.String()),
		zap.Bool("partial", summary.Partial()),
	)
	return summary, nil
}

// recostItem normalizes all pending moves of one item inside a single
// transaction: move, layers, and every dependent consumption record are
// corrected together or not at all.
func (s *RecostService) recostItem(ctx context.Context, itemID uuid.UUID, moves []*inventory.ReceiptMove) (ItemDelta, error) {
	var delta ItemDelta
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.Items().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		conv := item.Converter()
		accum := decimal.Zero

		for _, move := range moves {
			if !move.NeedsNormalization(item.BaseUnit) {
				continue
			}

			factor, err := conv.Convert(decimal.NewFromInt(1), move.Unit, item.BaseUnit)
			if err != nil {
				return err
			}
			// A zero factor would poison every dependent record.
			if factor.IsZero() {
				return shared.ErrDivisionByZero
			}
			newUnitCost := move.UnitCost.Div(factor)

			layers, err := repos.Layers().FindByOriginMove(ctx, move.ID)
			if err != nil {
				return err
			}
			for _, layer := range layers {
				oldValue := valueobject.Round2(layer.RemainingQty.Mul(layer.UnitCost))
				newValue := valueobject.Round2(layer.RemainingQty.Mul(newUnitCost))
				accum = accum.Add(newValue.Sub(oldValue))

				if err := layer.SetUnitCost(newUnitCost); err != nil {
					return err
				}
				if err := repos.Layers().Save(ctx, layer); err != nil {
					return err
				}

				records, err := repos.Consumptions().FindByLayer(ctx, layer.ID)
				if err != nil {
					return err
				}
				for _, rec := range records {
					if err := rec.Reprice(newUnitCost); err != nil {
						return err
					}
				}
				if err := repos.Consumptions().SaveAll(ctx, records); err != nil {
					return err
				}
			}

			qtyBase, err := conv.Convert(move.Quantity, move.Unit, item.BaseUnit)
			if err != nil {
				return err
			}
			move.Normalize(item.BaseUnit, qtyBase, newUnitCost)
			if err := repos.Moves().Save(ctx, move); err != nil {
				return err
			}
		}

		delta = ItemDelta{
			ItemID:           item.ID,
			ItemSKU:          item.SKU,
			InventoryAccount: item.InventoryAccountCode,
			COGSAccount:      item.COGSAccountCode,
			Delta:            accum,
		}
		return nil
	})
	return delta, err
}
