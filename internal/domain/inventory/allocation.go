package inventory

import (
	"sort"

	"github.com/erp/costengine/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LayerTake records how much a single layer contributes to an allocation
type LayerTake struct {
	LayerID        uuid.UUID
	Qty            decimal.Decimal // amount taken, base unit
	UnitCost       decimal.Decimal // layer unit cost at planning time
	TotalCost      decimal.Decimal // Qty * UnitCost
	RemainingAfter decimal.Decimal // layer remainder once the take is applied
	FullyConsumed  bool
}

// AllocationPlan is the result of planning an issue against a set of layers.
// Layers are drawn strictly in creation order (FIFO); expiry dates never
// reorder candidates mid-allocation.
type AllocationPlan struct {
	Takes          []LayerTake
	Allocated      decimal.Decimal
	TotalCost      decimal.Decimal
	Shortfall      decimal.Decimal // unsatisfied remainder, zero when fully allocated
	FullyAllocated bool
}

// WeightedUnitCost returns the blended cost per unit of the allocated
// quantity, zero when nothing was allocated.
func (p *AllocationPlan) WeightedUnitCost() decimal.Decimal {
	if !p.Allocated.IsPositive() {
		return decimal.Zero
	}
	return p.TotalCost.Div(p.Allocated).Round(4)
}

// BuildAllocationPlan greedily plans a draw of requestedQty (base unit)
// against the given layers in FIFO order. The plan is pure calculation:
// applying the decrements and minting consumption records is the caller's
// job, inside a transaction.
func BuildAllocationPlan(requestedQty decimal.Decimal, layers []*CostLayer) (*AllocationPlan, error) {
	if requestedQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	// Repositories return layers FIFO-ordered; re-sorting gives ad hoc
	// callers the same guarantee.
	sorted := make([]*CostLayer, len(layers))
	copy(sorted, layers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	plan := &AllocationPlan{
		Takes:     make([]LayerTake, 0, len(sorted)),
		Allocated: decimal.Zero,
		TotalCost: decimal.Zero,
	}
	remaining := requestedQty

	for _, layer := range sorted {
		if remaining.IsZero() {
			break
		}
		if !layer.HasStock() {
			continue
		}

		take := decimal.Min(remaining, layer.RemainingQty)
		after := layer.RemainingQty.Sub(take)
		cost := take.Mul(layer.UnitCost)

		plan.Takes = append(plan.Takes, LayerTake{
			LayerID:        layer.ID,
			Qty:            take,
			UnitCost:       layer.UnitCost,
			TotalCost:      cost,
			RemainingAfter: after,
			FullyConsumed:  after.IsZero(),
		})
		plan.Allocated = plan.Allocated.Add(take)
		plan.TotalCost = plan.TotalCost.Add(cost)
		remaining = remaining.Sub(take)
	}

	plan.Shortfall = remaining
	plan.FullyAllocated = remaining.IsZero()
	return plan, nil
}
