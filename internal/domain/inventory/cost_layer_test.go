package inventory

import (
	"testing"

	"github.com/erp/costengine/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCostLayer(t *testing.T) {
	itemID := uuid.New()
	warehouseID := uuid.New()

	t.Run("creates layer with valid inputs", func(t *testing.T) {
		moveID := uuid.New()
		layer, err := NewCostLayer(itemID, warehouseID, decimal.NewFromInt(100), decimal.NewFromFloat(2.5), &moveID)

		require.NoError(t, err)
		assert.Equal(t, itemID, layer.ItemID)
		assert.Equal(t, warehouseID, layer.WarehouseID)
		assert.True(t, layer.RemainingQty.Equal(decimal.NewFromInt(100)))
		assert.True(t, layer.UnitCost.Equal(decimal.NewFromFloat(2.5)))
		require.NotNil(t, layer.OriginMoveID)
		assert.Equal(t, moveID, *layer.OriginMoveID)
	})

	t.Run("allows manual layer without origin move", func(t *testing.T) {
		layer, err := NewCostLayer(itemID, warehouseID, decimal.NewFromInt(5), decimal.NewFromInt(10), nil)

		require.NoError(t, err)
		assert.Nil(t, layer.OriginMoveID)
	})

	t.Run("allows zero quantity and zero cost", func(t *testing.T) {
		layer, err := NewCostLayer(itemID, warehouseID, decimal.Zero, decimal.Zero, nil)

		require.NoError(t, err)
		assert.False(t, layer.HasStock())
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewCostLayer(itemID, warehouseID, decimal.NewFromInt(-1), decimal.NewFromInt(10), nil)
		assert.ErrorIs(t, err, shared.ErrInvalidLayer)
	})

	t.Run("rejects negative unit cost", func(t *testing.T) {
		_, err := NewCostLayer(itemID, warehouseID, decimal.NewFromInt(1), decimal.NewFromInt(-10), nil)
		assert.ErrorIs(t, err, shared.ErrInvalidLayer)
	})
}

func TestCostLayer_Decrement(t *testing.T) {
	newLayer := func(qty int64) *CostLayer {
		layer, err := NewCostLayer(uuid.New(), uuid.New(), decimal.NewFromInt(qty), decimal.NewFromInt(3), nil)
		require.NoError(t, err)
		return layer
	}

	t.Run("decrements remaining quantity", func(t *testing.T) {
		layer := newLayer(10)

		err := layer.Decrement(decimal.NewFromInt(4))

		require.NoError(t, err)
		assert.True(t, layer.RemainingQty.Equal(decimal.NewFromInt(6)))
	})

	t.Run("drains layer to exactly zero", func(t *testing.T) {
		layer := newLayer(10)

		err := layer.Decrement(decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.True(t, layer.RemainingQty.IsZero())
		assert.False(t, layer.HasStock())
	})

	t.Run("rejects draw beyond remaining quantity", func(t *testing.T) {
		layer := newLayer(10)

		err := layer.Decrement(decimal.NewFromInt(11))

		assert.ErrorIs(t, err, shared.ErrInsufficientLayerQuantity)
		assert.True(t, layer.RemainingQty.Equal(decimal.NewFromInt(10)), "failed decrement must not mutate the layer")
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		layer := newLayer(10)

		assert.Error(t, layer.Decrement(decimal.Zero))
		assert.Error(t, layer.Decrement(decimal.NewFromInt(-2)))
	})
}

func TestCostLayer_SetUnitCost(t *testing.T) {
	t.Run("overwrites cost without touching quantity", func(t *testing.T) {
		layer, err := NewCostLayer(uuid.New(), uuid.New(), decimal.NewFromInt(8000), decimal.NewFromInt(2000), nil)
		require.NoError(t, err)

		err = layer.SetUnitCost(decimal.NewFromInt(2))

		require.NoError(t, err)
		assert.True(t, layer.UnitCost.Equal(decimal.NewFromInt(2)))
		assert.True(t, layer.RemainingQty.Equal(decimal.NewFromInt(8000)))
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		layer, err := NewCostLayer(uuid.New(), uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1), nil)
		require.NoError(t, err)

		assert.ErrorIs(t, layer.SetUnitCost(decimal.NewFromInt(-1)), shared.ErrInvalidLayer)
	})
}

func TestConsumption(t *testing.T) {
	t.Run("creates record with snapshot cost", func(t *testing.T) {
		rec, err := NewConsumption(uuid.New(), uuid.New(), decimal.NewFromInt(5), decimal.NewFromFloat(2.5))

		require.NoError(t, err)
		assert.True(t, rec.Cost().Equal(decimal.NewFromFloat(12.5)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewConsumption(uuid.New(), uuid.New(), decimal.Zero, decimal.NewFromInt(1))
		assert.Error(t, err)
	})

	t.Run("reprices snapshot", func(t *testing.T) {
		rec, err := NewConsumption(uuid.New(), uuid.New(), decimal.NewFromInt(2000), decimal.NewFromInt(2000))
		require.NoError(t, err)

		require.NoError(t, rec.Reprice(decimal.NewFromInt(2)))

		assert.True(t, rec.UnitCost.Equal(decimal.NewFromInt(2)))
		assert.True(t, rec.Qty.Equal(decimal.NewFromInt(2000)), "quantity is immutable")
	})
}
