package inventory

import (
	"context"

	"github.com/erp/costengine/internal/domain/inventory"
	"github.com/erp/costengine/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptService posts stock receipts: each receipt creates one receipt move
// and one cost layer holding the base-unit quantity.
type ReceiptService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(scope TransactionScope, logger *zap.Logger) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{scope: scope, logger: logger}
}

// PostReceipt records a receipt move and creates its cost layer atomically.
//
// The layer's quantity is always converted to the item's base unit. When the
// recorded unit differs from the base unit, the recorded unit cost is kept on
// the layer as an interim value and the move retains the original unit and
// cost; the re-costing run later normalizes both. When the recorded unit is
// already the base unit, the layer is final.
func (s *ReceiptService) PostReceipt(ctx context.Context, req ReceiptRequest) (*ReceiptResult, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
	}
	if req.UnitCost.IsNegative() {
		return nil, shared.ErrInvalidLayer
	}

	var result *ReceiptResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.Items().FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		qtyBase, err := item.ToBaseUnit(req.Quantity, req.Unit)
		if err != nil {
			return err
		}

		move, err := inventory.NewReceiptMove(
			req.ItemID, req.WarehouseID,
			req.Unit, req.Quantity, req.UnitCost,
			req.SourceType, req.SourceID,
		)
		if err != nil {
			return err
		}
		if err := repos.Moves().Save(ctx, move); err != nil {
			return err
		}

		pending := move.NeedsNormalization(item.BaseUnit)
		layer, err := inventory.NewCostLayer(req.ItemID, req.WarehouseID, qtyBase, req.UnitCost, &move.ID)
		if err != nil {
			return err
		}
		layer.LotNumber = req.LotNumber
		layer.ExpiryDate = req.ExpiryDate
		if err := repos.Layers().Save(ctx, layer); err != nil {
			return err
		}

		result = &ReceiptResult{Move: move, Layer: layer, PendingNormalization: pending}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("receipt posted",
		zap.String("item_id", req.ItemID.String()),
		zap.String("warehouse_id", req.WarehouseID.String()),
		zap.String("layer_id", result.Layer.ID.String()),
		zap.String("qty_base", result.Layer.RemainingQty.String()),
		zap.Bool("pending_normalization", result.PendingNormalization),
	)
	return result, nil
}

// CreateManualLayer creates a layer with no originating receipt move, for
// manual IN adjustments. Quantity and cost must already be in the item's base
// unit.
func (s *ReceiptService) CreateManualLayer(
	ctx context.Context,
	itemID, warehouseID uuid.UUID,
	qtyBase, unitCostBase decimal.Decimal,
) (*inventory.CostLayer, error) {
	var layer *inventory.CostLayer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Items().FindByID(ctx, itemID); err != nil {
			return err
		}
		var err error
		layer, err = inventory.NewCostLayer(itemID, warehouseID, qtyBase, unitCostBase, nil)
		if err != nil {
			return err
		}
		return repos.Layers().Save(ctx, layer)
	})
	if err != nil {
		return nil, err
	}
	return layer, nil
}
