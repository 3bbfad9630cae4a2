package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/costengine/internal/domain/inventory"
)

// GormConsumptionRepository implements ConsumptionRepository using GORM
type GormConsumptionRepository struct {
	db *gorm.DB
}

// NewGormConsumptionRepository creates a new GormConsumptionRepository
func NewGormConsumptionRepository(db *gorm.DB) *GormConsumptionRepository {
	return &GormConsumptionRepository{db: db}
}

// FindByLayer finds all consumption records drawn from a layer
func (r *GormConsumptionRepository) FindByLayer(ctx context.Context, layerID uuid.UUID) ([]*inventory.Consumption, error) {
	var records []*inventory.Consumption
	if err := r.db.WithContext(ctx).
		Where("layer_id = ?", layerID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByMoveOut finds all consumption records belonging to an outbound move
func (r *GormConsumptionRepository) FindByMoveOut(ctx context.Context, moveOutID uuid.UUID) ([]*inventory.Consumption, error) {
	var records []*inventory.Consumption
	if err := r.db.WithContext(ctx).
		Where("move_out_id = ?", moveOutID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a consumption record
func (r *GormConsumptionRepository) Save(ctx context.Context, record *inventory.Consumption) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveAll creates or updates multiple consumption records
func (r *GormConsumptionRepository) SaveAll(ctx context.Context, records []*inventory.Consumption) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&records).Error
}

// Ensure GormConsumptionRepository implements ConsumptionRepository
var _ inventory.ConsumptionRepository = (*GormConsumptionRepository)(nil)
