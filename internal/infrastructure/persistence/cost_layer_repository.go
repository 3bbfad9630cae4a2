package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erp/costengine/internal/domain/inventory"
	"github.com/erp/costengine/internal/domain/shared"
)

// GormCostLayerRepository implements CostLayerRepository using GORM
type GormCostLayerRepository struct {
	db *gorm.DB
}

// NewGormCostLayerRepository creates a new GormCostLayerRepository
func NewGormCostLayerRepository(db *gorm.DB) *GormCostLayerRepository {
	return &GormCostLayerRepository{db: db}
}

// FindByID finds a cost layer by its ID
func (r *GormCostLayerRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.CostLayer, error) {
	var layer inventory.CostLayer
	if err := r.db.WithContext(ctx).First(&layer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &layer, nil
}

// FindAvailableFIFO finds layers with remaining stock in strict receipt order.
// Rows are locked FOR UPDATE so concurrent allocations against the same item
// serialize instead of double-consuming a layer.
func (r *GormCostLayerRepository) FindAvailableFIFO(ctx context.Context, itemID, warehouseID uuid.UUID) ([]*inventory.CostLayer, error) {
	var layers []*inventory.CostLayer
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_id = ? AND warehouse_id = ? AND remaining_qty > 0", itemID, warehouseID).
		Order("created_at ASC, id ASC").
		Find(&layers).Error; err != nil {
		return nil, err
	}
	return layers, nil
}

// FindByOriginMove finds the layers minted by a receipt move
func (r *GormCostLayerRepository) FindByOriginMove(ctx context.Context, moveID uuid.UUID) ([]*inventory.CostLayer, error) {
	var layers []*inventory.CostLayer
	if err := r.db.WithContext(ctx).
		Where("origin_move_id = ?", moveID).
		Order("created_at ASC").
		Find(&layers).Error; err != nil {
		return nil, err
	}
	return layers, nil
}

// Save creates or updates a cost layer
func (r *GormCostLayerRepository) Save(ctx context.Context, layer *inventory.CostLayer) error {
	return r.db.WithContext(ctx).Save(layer).Error
}

// SaveAll creates or updates multiple cost layers
func (r *GormCostLayerRepository) SaveAll(ctx context.Context, layers []*inventory.CostLayer) error {
	if len(layers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&layers).Error
}

// Ensure GormCostLayerRepository implements CostLayerRepository
var _ inventory.CostLayerRepository = (*GormCostLayerRepository)(nil)
