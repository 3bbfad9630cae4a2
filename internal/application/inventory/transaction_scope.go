package inventory

import (
	"context"

	"github.com/erp/costengine/internal/domain/inventory"
	"github.com/erp/costengine/internal/domain/ledger"
)

// TransactionScope provides transactional access to the engine's repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and are committed or
// rolled back atomically. No engine operation is allowed to partially commit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all engine repositories within
// a transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// Items returns the item repository scoped to the current transaction
	Items() inventory.ItemRepository
	// Layers returns the cost layer repository scoped to the current transaction
	Layers() inventory.CostLayerRepository
	// Moves returns the receipt move repository scoped to the current transaction
	Moves() inventory.ReceiptMoveRepository
	// Consumptions returns the consumption repository scoped to the current transaction
	Consumptions() inventory.ConsumptionRepository
	// Journal returns the journal entry repository scoped to the current transaction
	Journal() ledger.JournalEntryRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	items        inventory.ItemRepository
	layers       inventory.CostLayerRepository
	moves        inventory.ReceiptMoveRepository
	consumptions inventory.ConsumptionRepository
	journal      ledger.JournalEntryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	items inventory.ItemRepository,
	layers inventory.CostLayerRepository,
	moves inventory.ReceiptMoveRepository,
	consumptions inventory.ConsumptionRepository,
	journal ledger.JournalEntryRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		items:        items,
		layers:       layers,
		moves:        moves,
		consumptions: consumptions,
		journal:      journal,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Items returns the item repository
func (s *NoOpTransactionScope) Items() inventory.ItemRepository { return s.items }

// Layers returns the cost layer repository
func (s *NoOpTransactionScope) Layers() inventory.CostLayerRepository { return s.layers }

// Moves returns the receipt move repository
func (s *NoOpTransactionScope) Moves() inventory.ReceiptMoveRepository { return s.moves }

// Consumptions returns the consumption repository
func (s *NoOpTransactionScope) Consumptions() inventory.ConsumptionRepository {
	return s.consumptions
}

// Journal returns the journal entry repository
func (s *NoOpTransactionScope) Journal() ledger.JournalEntryRepository { return s.journal }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
