package inventory

import (
	"context"

	"github.com/erp/costengine/internal/domain/inventory"
	"github.com/erp/costengine/internal/domain/shared"
	"github.com/erp/costengine/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NegativeStockPolicy decides whether an allocation may proceed when the
// available layers cannot cover the request. The engine's own contract is
// only to report the unsatisfied remainder; what to do with the deficit
// (backfill layers, blocking, approvals) lives outside the engine.
type NegativeStockPolicy interface {
	// AllowShortfall returns true when an allocation for the item+warehouse
	// may complete with the given unsatisfied remainder.
	AllowShortfall(ctx context.Context, itemID, warehouseID uuid.UUID, shortfall decimal.Decimal) bool
}

// DenyNegativeStock is the default policy: any shortfall fails the allocation
type DenyNegativeStock struct{}

// AllowShortfall always returns false
func (DenyNegativeStock) AllowShortfall(context.Context, uuid.UUID, uuid.UUID, decimal.Decimal) bool {
	return false
}

// AllocationService allocates issue requests against cost layers in FIFO
// order, minting one consumption record per layer drawn.
type AllocationService struct {
	scope  TransactionScope
	policy NegativeStockPolicy
	logger *zap.Logger
}

// NewAllocationService creates a new AllocationService with the default
// deny-negative-stock policy.
func NewAllocationService(scope TransactionScope, logger *zap.Logger) *AllocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationService{scope: scope, policy: DenyNegativeStock{}, logger: logger}
}

// SetNegativeStockPolicy replaces the shortfall policy
func (s *AllocationService) SetNegativeStockPolicy(policy NegativeStockPolicy) {
	if policy != nil {
		s.policy = policy
	}
}

// Allocate converts the requested quantity to the item's base unit, draws
// down layers FIFO inside a single transaction, and mints consumption
// records snapshotting each layer's unit cost. The whole allocation commits
// or rolls back as one unit; concurrent allocations against the same
// item+warehouse are serialized by the row locks the layer query takes.
func (s *AllocationService) Allocate(ctx context.Context, req AllocateRequest) (*AllocateResult, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	var result *AllocateResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.Items().FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		qtyBase, err := item.ToBaseUnit(req.Quantity, req.Unit)
		if err != nil {
			return err
		}

		layers, err := repos.Layers().FindAvailableFIFO(ctx, req.ItemID, req.WarehouseID)
		if err != nil {
			return err
		}

		plan, err := inventory.BuildAllocationPlan(qtyBase, layers)
		if err != nil {
			return err
		}
		if !plan.FullyAllocated && !s.policy.AllowShortfall(ctx, req.ItemID, req.WarehouseID, plan.Shortfall) {
			return shared.ErrInsufficientStock
		}

		byID := make(map[uuid.UUID]*inventory.CostLayer, len(layers))
		for _, layer := range layers {
			byID[layer.ID] = layer
		}

		records := make([]*inventory.Consumption, 0, len(plan.Takes))
		touched := make([]*inventory.CostLayer, 0, len(plan.Takes))
		for _, take := range plan.Takes {
			layer := byID[take.LayerID]
			if layer == nil {
				return shared.ErrNotFound
			}
			if err := layer.Decrement(take.Qty); err != nil {
				return err
			}
			rec, err := inventory.NewConsumption(req.MoveOutID, layer.ID, take.Qty, take.UnitCost)
			if err != nil {
				return err
			}
			records = append(records, rec)
			touched = append(touched, layer)
		}

		if err := repos.Layers().SaveAll(ctx, touched); err != nil {
			return err
		}
		if err := repos.Consumptions().SaveAll(ctx, records); err != nil {
			return err
		}

		result = &AllocateResult{
			Consumptions: records,
			Allocated:    plan.Allocated,
			TotalCost:    plan.TotalCost,
			Shortfall:    plan.Shortfall,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("issue allocated",
		zap.String("item_id", req.ItemID.String()),
		zap.String("move_out_id", req.MoveOutID.String()),
		zap.String("allocated_base", result.Allocated.String()),
		zap.String("shortfall", result.Shortfall.String()),
		zap.Int("layers_drawn", len(result.Consumptions)),
	)
	return result, nil
}

// SplitLayer synthesizes a finer-grained layer out of a coarse one, e.g. to
// sell grams out of a kilogram layer. The coarse layer is decremented by the
// coarse-equivalent quantity and a new layer is created in the target unit's
// base with the unit cost converted inversely. Both steps are atomic: either
// the decrement and the creation both commit, or neither does.
func (s *AllocationService) SplitLayer(
	ctx context.Context,
	layerID uuid.UUID,
	coarseQty decimal.Decimal,
	coarseUnit, fineUnit valueobject.Unit,
) (*SplitResult, error) {
	if coarseQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Split quantity must be positive")
	}

	var result *SplitResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		source, err := repos.Layers().FindByID(ctx, layerID)
		if err != nil {
			return err
		}
		item, err := repos.Items().FindByID(ctx, source.ItemID)
		if err != nil {
			return err
		}
		conv := item.Converter()

		fineQty, err := conv.Convert(coarseQty, coarseUnit, fineUnit)
		if err != nil {
			return err
		}
		fineCost, err := conv.ConvertUnitPrice(source.UnitCost, coarseUnit, fineUnit)
		if err != nil {
			return err
		}

		if err := source.Decrement(coarseQty); err != nil {
			return err
		}
		// The minted layer carries no origin move: its cost is already final
		// and must not be rewritten from the originating receipt's recorded
		// cost by a later re-costing run.
		minted, err := inventory.NewCostLayer(source.ItemID, source.WarehouseID, fineQty, fineCost, nil)
		if err != nil {
			return err
		}
		// Splitting changes granularity, not age: the minted stock keeps the
		// source's FIFO position.
		minted.CreatedAt = source.CreatedAt
		minted.LotNumber = source.LotNumber
		minted.ExpiryDate = source.ExpiryDate

		if err := repos.Layers().Save(ctx, source); err != nil {
			return err
		}
		if err := repos.Layers().Save(ctx, minted); err != nil {
			return err
		}

		result = &SplitResult{Source: source, Minted: minted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("layer split",
		zap.String("source_layer_id", result.Source.ID.String()),
		zap.String("minted_layer_id", result.Minted.ID.String()),
		zap.String("minted_qty", result.Minted.RemainingQty.String()),
	)
	return result, nil
}
