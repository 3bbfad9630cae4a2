package ledger

import (
	"context"

	"github.com/google/uuid"
)

// JournalEntryRepository defines the interface for journal entry persistence
type JournalEntryRepository interface {
	// FindByID finds a journal entry with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*JournalEntry, error)

	// FindBySource finds entries produced by a given source event
	FindBySource(ctx context.Context, sourceType, sourceID string) ([]*JournalEntry, error)

	// Save persists a journal entry together with its lines
	Save(ctx context.Context, entry *JournalEntry) error
}
