package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/erp/costengine/internal/domain/shared"
	"github.com/erp/costengine/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalLine is one side of a double-entry posting. Exactly one of Debit or
// Credit is non-zero.
type JournalLine struct {
	shared.BaseEntity
	EntryID     uuid.UUID
	AccountCode string
	Debit       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Credit      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description string
}

// JournalEntry is a balanced set of journal lines with traceability back to
// the inventory event that produced it.
type JournalEntry struct {
	shared.BaseEntity
	Date        time.Time
	SourceType  string
	SourceID    string
	Description string
	Lines       []JournalLine `gorm:"foreignKey:EntryID"`
}

// NewJournalEntry creates an empty journal entry header
func NewJournalEntry(date time.Time, sourceType, sourceID, description string) *JournalEntry {
	return &JournalEntry{
		BaseEntity:  shared.NewBaseEntity(),
		Date:        date,
		SourceType:  sourceType,
		SourceID:    sourceID,
		Description: description,
		Lines:       make([]JournalLine, 0),
	}
}

// AddDebit appends a debit line. Amounts are rounded to 2 decimal places.
func (e *JournalEntry) AddDebit(accountCode string, amount decimal.Decimal, description string) error {
	return e.addLine(accountCode, amount, decimal.Zero, description)
}

// AddCredit appends a credit line. Amounts are rounded to 2 decimal places.
func (e *JournalEntry) AddCredit(accountCode string, amount decimal.Decimal, description string) error {
	return e.addLine(accountCode, decimal.Zero, amount, description)
}

func (e *JournalEntry) addLine(accountCode string, debit, credit decimal.Decimal, description string) error {
	if accountCode == "" {
		return shared.NewDomainError("INVALID_ACCOUNT", "Account code cannot be empty")
	}
	amount := debit.Add(credit)
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Journal line amount must be positive")
	}
	e.Lines = append(e.Lines, JournalLine{
		BaseEntity:  shared.NewBaseEntity(),
		EntryID:     e.ID,
		AccountCode: accountCode,
		Debit:       valueobject.Round2(debit),
		Credit:      valueobject.Round2(credit),
		Description: description,
	})
	return nil
}

// TotalDebit sums all debit amounts
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredit sums all credit amounts
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// IsBalanced reports whether total debits equal total credits exactly
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}

// Validate checks the entry's invariants: at least one line, every line
// one-sided, and debits equal to credits. An unbalanced entry must never
// reach the ledger.
func (e *JournalEntry) Validate() error {
	if len(e.Lines) == 0 {
		return shared.NewDomainError("EMPTY_ENTRY", "Journal entry must have at least one line")
	}
	for _, line := range e.Lines {
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return shared.NewDomainError("TWO_SIDED_LINE", "Journal line cannot carry both debit and credit")
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Journal line amounts cannot be negative")
		}
	}
	if !e.IsBalanced() {
		return shared.ErrUnbalancedEntry
	}
	return nil
}

// MergeLines collapses lines that share the same (account, debit, credit)
// triple into one line, concatenating their descriptions. Line order is kept
// stable by first occurrence.
func (e *JournalEntry) MergeLines() {
	type key struct {
		account string
		debit   string
		credit  string
	}
	merged := make(map[key]*JournalLine)
	order := make([]key, 0, len(e.Lines))

	for _, line := range e.Lines {
		k := key{line.AccountCode, line.Debit.String(), line.Credit.String()}
		if existing, ok := merged[k]; ok {
			if line.Description != "" {
				if existing.Description != "" {
					existing.Description += "; " + line.Description
				} else {
					existing.Description = line.Description
				}
			}
			continue
		}
		copied := line
		merged[k] = &copied
		order = append(order, k)
	}

	lines := make([]JournalLine, 0, len(order))
	for _, k := range order {
		lines = append(lines, *merged[k])
	}
	e.Lines = lines
}

// SortLinesByAccount orders lines by account code for stable presentation
func (e *JournalEntry) SortLinesByAccount() {
	sort.SliceStable(e.Lines, func(i, j int) bool {
		if e.Lines[i].AccountCode != e.Lines[j].AccountCode {
			return strings.Compare(e.Lines[i].AccountCode, e.Lines[j].AccountCode) < 0
		}
		return e.Lines[i].Debit.GreaterThan(e.Lines[j].Debit)
	})
}
