package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/costengine/internal/domain/ledger"
	"github.com/erp/costengine/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// SourceTypeRecost tags journal entries produced by a re-costing run
const SourceTypeRecost = "INVENTORY_RECOST"

// AccountDefaults holds the fallback ledger accounts used when an item does
// not carry its own. Resolved once at startup from configuration instead of
// being scattered through engine logic as literals.
type AccountDefaults struct {
	InventoryAccount string
	COGSAccount      string
}

// PostingAdapter turns per-item monetary deltas into one balanced journal
// entry. It refuses to post an entry whose debits and credits do not match
// exactly - an unbalanced entry corrupts the ledger irrecoverably.
type PostingAdapter struct {
	defaults AccountDefaults
	logger   *zap.Logger
}

// NewPostingAdapter creates a new PostingAdapter
func NewPostingAdapter(defaults AccountDefaults, logger *zap.Logger) *PostingAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostingAdapter{defaults: defaults, logger: logger}
}

// ResolveAccounts fills empty per-item account codes from the configured defaults
func (a *PostingAdapter) ResolveAccounts(d ItemDelta) ItemDelta {
	if d.InventoryAccount == "" {
		d.InventoryAccount = a.defaults.InventoryAccount
	}
	if d.COGSAccount == "" {
		d.COGSAccount = a.defaults.COGSAccount
	}
	return d
}

// BuildEntry constructs a single merged, validated journal entry for the
// deltas of one re-costing run. Items with a zero delta produce no lines.
// Returns nil when nothing needs posting.
func (a *PostingAdapter) BuildEntry(date time.Time, sourceID string, deltas []ItemDelta) (*ledger.JournalEntry, error) {
	entry := ledger.NewJournalEntry(date, SourceTypeRecost, sourceID, "Inventory cost normalization")

	for _, d := range deltas {
		d = a.ResolveAccounts(d)
		amount := valueobject.Round2(d.Delta.Abs())
		if amount.IsZero() {
			continue
		}
		desc := fmt.Sprintf("Recost %s", d.ItemSKU)
		if d.Delta.IsPositive() {
			// Inventory value increased: debit inventory, credit COGS.
			if err := entry.AddDebit(d.InventoryAccount, amount, desc); err != nil {
				return nil, err
			}
			if err := entry.AddCredit(d.COGSAccount, amount, desc); err != nil {
				return nil, err
			}
		} else {
			if err := entry.AddCredit(d.InventoryAccount, amount, desc); err != nil {
				return nil, err
			}
			if err := entry.AddDebit(d.COGSAccount, amount, desc); err != nil {
				return nil, err
			}
		}
	}

	if len(entry.Lines) == 0 {
		return nil, nil
	}

	entry.MergeLines()
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Post builds and persists the journal entry for a run's deltas using the
// given repository, which is expected to be scoped to the caller's
// transaction. Returns nil entry when every delta was zero.
func (a *PostingAdapter) Post(
	ctx context.Context,
	repo ledger.JournalEntryRepository,
	date time.Time,
	sourceID string,
	deltas []ItemDelta,
) (*ledger.JournalEntry, error) {
	entry, err := a.BuildEntry(date, sourceID, deltas)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		a.logger.Debug("no journal lines to post", zap.String("source_id", sourceID))
		return nil, nil
	}
	if err := repo.Save(ctx, entry); err != nil {
		return nil, err
	}
	a.logger.Info("journal entry posted",
		zap.String("entry_id", entry.ID.String()),
		zap.String("source_id", sourceID),
		zap.Int("lines", len(entry.Lines)),
		zap.String("total_debit", entry.TotalDebit().String()),
	)
	return entry, nil
}
