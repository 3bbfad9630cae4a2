package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/costengine/internal/domain/inventory"
	"github.com/erp/costengine/internal/domain/shared"
)

// GormReceiptMoveRepository implements ReceiptMoveRepository using GORM
type GormReceiptMoveRepository struct {
	db *gorm.DB
}

// NewGormReceiptMoveRepository creates a new GormReceiptMoveRepository
func NewGormReceiptMoveRepository(db *gorm.DB) *GormReceiptMoveRepository {
	return &GormReceiptMoveRepository{db: db}
}

// FindByID finds a receipt move by its ID
func (r *GormReceiptMoveRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ReceiptMove, error) {
	var move inventory.ReceiptMove
	if err := r.db.WithContext(ctx).First(&move, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &move, nil
}

// FindPendingNormalization finds moves still recorded in a unit other than
// their item's base unit
func (r *GormReceiptMoveRepository) FindPendingNormalization(ctx context.Context) ([]*inventory.ReceiptMove, error) {
	var moves []*inventory.ReceiptMove
	if err := r.db.WithContext(ctx).
		Model(&inventory.ReceiptMove{}).
		Joins("JOIN items ON items.id = receipt_moves.item_id").
		Where("receipt_moves.unit <> items.base_unit").
		Order("receipt_moves.created_at ASC").
		Find(&moves).Error; err != nil {
		return nil, err
	}
	return moves, nil
}

// Save creates or updates a receipt move
func (r *GormReceiptMoveRepository) Save(ctx context.Context, move *inventory.ReceiptMove) error {
	return r.db.WithContext(ctx).Save(move).Error
}

// Ensure GormReceiptMoveRepository implements ReceiptMoveRepository
var _ inventory.ReceiptMoveRepository = (*GormReceiptMoveRepository)(nil)
