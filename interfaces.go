package bookkeeper

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FindOptions controls a TransactionRepository.Find call.
type FindOptions struct {
	Sort  bson.D
	Skip  int64
	Limit int64
}

// AggregateTotals is the result of summing matched transaction rows.
// LastID is the highest row id seen; it is the zero ObjectID when Notes is 0.
type AggregateTotals struct {
	Credit float64
	Debit  float64
	Notes  int64
	LastID bson.ObjectID
}

// TransactionRepository is the ledger row collection as the core needs it.
type TransactionRepository interface {
	InsertMany(ctx context.Context, txs []*Transaction) error
	Find(ctx context.Context, filter bson.M, opt FindOptions) ([]*Transaction, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*Transaction, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	// SumByFilter aggregates credit, debit, row count and the maximum row id
	// over matching rows. hintIDIndex asks the store to prefer the row-id
	// index; the caller sets it when the filtered id range is known small.
	SumByFilter(ctx context.Context, filter bson.M, hintIDIndex bool) (AggregateTotals, error)
	// MarkVoided flips voided/void_reason on every row of a journal and
	// returns the matched row count.
	MarkVoided(ctx context.Context, journalID bson.ObjectID, reason string) (int64, error)
	// DeleteByJournal removes every row referencing a journal. Used only as
	// compensation after a failed non-transactional commit.
	DeleteByJournal(ctx context.Context, journalID bson.ObjectID) error
	DistinctAccounts(ctx context.Context, filter bson.M) ([]string, error)
}

// JournalRepository is the journal collection as the core needs it.
type JournalRepository interface {
	Insert(ctx context.Context, j *Journal) error
	// Get returns (nil, nil) when no journal with the id exists in the book.
	Get(ctx context.Context, id bson.ObjectID, book string) (*Journal, error)
	// MarkVoided flips voided/void_reason, conditional on the journal not
	// being voided yet, and returns the matched count. Zero means a
	// concurrent caller won the void.
	MarkVoided(ctx context.Context, id bson.ObjectID, book, reason string) (int64, error)
}

// SnapshotRepository is the balance snapshot cache collection.
type SnapshotRepository interface {
	// Latest returns the most recently inserted snapshot for the key,
	// or (nil, nil) when none exists.
	Latest(ctx context.Context, key string) (*BalanceSnapshot, error)
	Insert(ctx context.Context, s *BalanceSnapshot) error
}

// LockRepository is the write-lock registry collection. Touch upserts the
// per-(book, account) record, bumping its version counter, so that two
// concurrent sessions touching the same account produce a write conflict at
// commit time instead of a silent lost update.
type LockRepository interface {
	Touch(ctx context.Context, book, account string) error
}

// Store bundles the collections the core depends on.
type Store interface {
	Transactions() TransactionRepository
	Journals() JournalRepository
	Snapshots() SnapshotRepository
	Locks() LockRepository
	// InTransaction reports whether ctx carries an active multi-document
	// transaction. It decides whether Entry.Commit relies on the store's
	// atomicity or on manual compensation.
	InTransaction(ctx context.Context) bool
}
