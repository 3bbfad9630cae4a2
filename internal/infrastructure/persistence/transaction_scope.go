package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/erp/costengine/internal/application/inventory"
	"github.com/erp/costengine/internal/domain/inventory"
	"github.com/erp/costengine/internal/domain/ledger"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Items returns the item repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Items() inventory.ItemRepository {
	return NewGormItemRepository(r.tx)
}

// Layers returns the cost layer repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Layers() inventory.CostLayerRepository {
	return NewGormCostLayerRepository(r.tx)
}

// Moves returns the receipt move repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Moves() inventory.ReceiptMoveRepository {
	return NewGormReceiptMoveRepository(r.tx)
}

// Consumptions returns the consumption repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Consumptions() inventory.ConsumptionRepository {
	return NewGormConsumptionRepository(r.tx)
}

// Journal returns the journal entry repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Journal() ledger.JournalEntryRepository {
	return NewGormJournalEntryRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
