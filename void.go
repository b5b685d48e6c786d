package bookkeeper

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iho/bookkeeper/internal/metrics"
)

// Void reverses a committed journal: it flags the journal and its rows as
// voided and commits a brand-new journal holding the exact opposite rows,
// so balances return to their pre-entry values. Voided is terminal; voiding
// a voided journal fails with ErrJournalAlreadyVoided.
//
// An empty reason derives one from the journal's memo by cycling void tags,
// so repeated void/unvoid cycles stay legible. The derived reason becomes
// the reversing journal's memo.
//
// Any step that observes unexpected state (missing rows, a concurrent void)
// aborts with a ConsistencyError instead of proceeding with a corrupted
// reversal. Run inside a session (mongostore.WithTransaction) to make the
// whole operation atomic.
func (b *Book) Void(ctx context.Context, journalID bson.ObjectID, reason string) (*Journal, error) {
	journal, err := b.store.Journals().Get(ctx, journalID, b.name)
	if err != nil {
		return nil, fmt.Errorf("bookkeeper: load journal: %w", err)
	}
	if journal == nil {
		return nil, ErrJournalNotFound
	}
	if journal.Voided {
		return nil, ErrJournalAlreadyVoided
	}

	if reason == "" {
		reason = voidReason(journal.Memo)
	}

	originals, err := b.store.Transactions().FindByIDs(ctx, journal.Transactions)
	if err != nil {
		return nil, fmt.Errorf("bookkeeper: load journal transactions: %w", err)
	}
	if len(originals) != len(journal.Transactions) {
		return nil, &ConsistencyError{
			Op: "void",
			Reason: fmt.Sprintf("journal %s references %d transactions but %d were found",
				journalID.Hex(), len(journal.Transactions), len(originals)),
		}
	}

	entry := b.Entry(reason, WithDate(journal.Datetime), WithOriginalJournal(journal))
	entry.SetApproved(journal.Approved)
	for _, tx := range reverseTransactions(originals) {
		if tx.Credit != 0 {
			entry.Credit(tx.Accounts, tx.Credit, tx.Meta)
		} else {
			entry.Debit(tx.Accounts, tx.Debit, tx.Meta)
		}
	}

	matched, err := b.store.Journals().MarkVoided(ctx, journalID, b.name, reason)
	if err != nil {
		return nil, fmt.Errorf("bookkeeper: void journal: %w", err)
	}
	if matched == 0 {
		return nil, &ConsistencyError{
			Op:     "void",
			Reason: fmt.Sprintf("journal %s was voided concurrently", journalID.Hex()),
		}
	}

	matched, err = b.store.Transactions().MarkVoided(ctx, journalID, reason)
	if err != nil {
		return nil, fmt.Errorf("bookkeeper: void transactions: %w", err)
	}
	if matched != int64(len(journal.Transactions)) {
		return nil, &ConsistencyError{
			Op: "void",
			Reason: fmt.Sprintf("voided %d of %d transactions of journal %s",
				matched, len(journal.Transactions), journalID.Hex()),
		}
	}

	reversal, err := entry.Commit(ctx)
	if err != nil {
		return nil, err
	}

	metrics.Default().JournalsVoided.Inc()
	return reversal, nil
}

// reverseTransactions produces the equal-and-opposite row set for a list of
// rows: each credit becomes a debit of the same amount and vice versa, with
// account and metadata preserved and journal- or void-specific fields left
// behind.
func reverseTransactions(rows []*Transaction) []*Transaction {
	out := make([]*Transaction, len(rows))
	for i, row := range rows {
		reversed := &Transaction{
			Credit:      row.Debit,
			Debit:       row.Credit,
			AccountPath: row.AccountPath,
			Accounts:    row.Accounts,
		}
		if len(row.Meta) > 0 {
			reversed.Meta = make(map[string]any, len(row.Meta))
			for k, v := range row.Meta {
				reversed.Meta[k] = v
			}
		}
		out[i] = reversed
	}
	return out
}

// voidReason cycles the memo's void tag: a plain memo becomes "[VOID] memo",
// a voided one becomes "[UNVOID] ...", and unvoid/revoid alternate from
// there.
func voidReason(memo string) string {
	switch {
	case strings.HasPrefix(memo, "[VOID]"):
		return "[UNVOID]" + strings.TrimPrefix(memo, "[VOID]")
	case strings.HasPrefix(memo, "[UNVOID]"):
		return "[REVOID]" + strings.TrimPrefix(memo, "[UNVOID]")
	case strings.HasPrefix(memo, "[REVOID]"):
		return "[UNVOID]" + strings.TrimPrefix(memo, "[REVOID]")
	default:
		return "[VOID] " + memo
	}
}
