package bookkeeper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iho/bookkeeper/internal/metrics"
	"github.com/iho/bookkeeper/internal/mquery"
)

// Entry is an in-progress, not-yet-persisted set of balanced transaction
// rows plus their owning journal. Credit and Debit are chainable; a builder
// error (for example an over-deep account path) is recorded and reported by
// Commit before anything is written.
type Entry struct {
	book         *Book
	journal      *Journal
	transactions []*Transaction
	err          error
}

// Entry opens a new entry on the book. The journal datetime defaults to now.
func (b *Book) Entry(memo string, opts ...EntryOption) *Entry {
	cfg := entryConfig{datetime: time.Now().UTC()}
	for _, opt := range opts {
		opt(&cfg)
	}

	journal := &Journal{
		ID:       bson.NewObjectID(),
		Datetime: cfg.datetime,
		Memo:     memo,
		Book:     b.name,
	}
	if cfg.originalJournal != nil {
		journal.OriginalJournal = cfg.originalJournal.ID
	}

	return &Entry{book: b, journal: journal}
}

// Credit appends a credit leg. meta keys naming transaction schema fields
// are set on the row itself; everything else lands in the row's metadata.
func (e *Entry) Credit(account string, amount float64, meta ...map[string]any) *Entry {
	return e.post(account, amount, 0, meta)
}

// Debit appends a debit leg.
func (e *Entry) Debit(account string, amount float64, meta ...map[string]any) *Entry {
	return e.post(account, 0, amount, meta)
}

// SetApproved sets the entry's approval flag, copied onto every row at
// commit time.
func (e *Entry) SetApproved(approved bool) *Entry {
	e.journal.Approved = approved
	return e
}

// Err returns the first builder error, if any.
func (e *Entry) Err() error { return e.err }

func (e *Entry) post(account string, credit, debit float64, meta []map[string]any) *Entry {
	if e.err != nil {
		return e
	}

	path := strings.Split(account, ":")
	if len(path) > e.book.cfg.maxAccountPath {
		e.err = &AccountPathError{Account: account, MaxDepth: e.book.cfg.maxAccountPath}
		return e
	}

	tx := &Transaction{
		ID:              bson.NewObjectID(),
		Credit:          credit,
		Debit:           debit,
		Datetime:        e.journal.Datetime,
		AccountPath:     path,
		Accounts:        account,
		Book:            e.book.name,
		Memo:            e.journal.Memo,
		Journal:         e.journal.ID,
		OriginalJournal: e.journal.OriginalJournal,
	}
	for _, m := range meta {
		routeRowFields(tx, m)
	}

	e.transactions = append(e.transactions, tx)
	return e
}

// routeRowFields applies caller-supplied extra fields to a pending row:
// known schema fields directly, the rest into the metadata map. Fields that
// carry the row's identity or its balance contribution (_id, credit, debit,
// book, accounts, account_path, _journal) cannot be overridden this way and
// fall through to metadata.
func routeRowFields(tx *Transaction, fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "memo":
			if v, ok := value.(string); ok {
				tx.Memo = v
				continue
			}
		case "datetime":
			if t, ok := mquery.ParseDate(value); ok {
				tx.Datetime = t
				continue
			}
		case "timestamp":
			if t, ok := mquery.ParseDate(value); ok {
				tx.Timestamp = t
				continue
			}
		case "voided":
			if v, ok := value.(bool); ok {
				tx.Voided = v
				continue
			}
		case "void_reason":
			if v, ok := value.(string); ok {
				tx.VoidReason = v
				continue
			}
		case "approved":
			if v, ok := value.(bool); ok {
				tx.Approved = v
				continue
			}
		case "_original_journal":
			switch v := value.(type) {
			case bson.ObjectID:
				tx.OriginalJournal = v
				continue
			case string:
				if id, err := bson.ObjectIDFromHex(v); err == nil {
					tx.OriginalJournal = id
					continue
				}
			}
		}
		if tx.Meta == nil {
			tx.Meta = make(map[string]any)
		}
		tx.Meta[key] = value
	}
}

// Commit validates the zero-sum invariant and persists the entry: every
// transaction row first, then the journal row carrying the row ids.
//
// Inside a session context all writes are atomic under the caller's
// transaction. Outside one, a failure while saving the journal triggers
// best-effort asynchronous cleanup of the already-written rows; that
// compensation is not atomic with the failed insert and is a documented
// consistency risk, not a guarantee.
func (e *Entry) Commit(ctx context.Context, opts ...CommitOption) (*Journal, error) {
	if e.err != nil {
		return nil, e.err
	}

	var cfg commitConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(e.transactions) == 0 {
		return nil, ErrEmptyEntry
	}

	inTxn := e.book.store.InTransaction(ctx)
	if len(cfg.writeLocks) > 0 && !inTxn {
		return nil, ErrSessionRequired
	}

	total := decimal.Zero
	for _, tx := range e.transactions {
		tx.Approved = e.journal.Approved
		if tx.Timestamp.IsZero() {
			tx.Timestamp = time.Now().UTC()
		}
		total = total.Add(decimal.NewFromFloat(tx.Credit)).Sub(decimal.NewFromFloat(tx.Debit))
	}
	total = total.Round(int32(e.book.cfg.precision))
	if !total.IsZero() {
		metrics.Default().CommitFailures.WithLabelValues("unbalanced").Inc()
		totalF, _ := total.Float64()
		return nil, &UnbalancedError{Total: totalF}
	}

	e.journal.Transactions = make([]bson.ObjectID, len(e.transactions))
	for i, tx := range e.transactions {
		e.journal.Transactions[i] = tx.ID
	}

	if err := e.book.store.Transactions().InsertMany(ctx, e.transactions); err != nil {
		metrics.Default().CommitFailures.WithLabelValues("storage").Inc()
		return nil, fmt.Errorf("bookkeeper: failure to save transactions: %w", err)
	}

	if err := e.book.store.Journals().Insert(ctx, e.journal); err != nil {
		metrics.Default().CommitFailures.WithLabelValues("storage").Inc()
		if !inTxn {
			go e.book.cleanupFailedCommit(e.journal.ID)
		}
		return nil, fmt.Errorf("bookkeeper: failure to save journal: %w", err)
	}

	// Locks go last so the conflict window stays as small as possible and a
	// losing transaction aborts right before commit.
	if len(cfg.writeLocks) > 0 {
		if err := e.book.WriteLockAccounts(ctx, cfg.writeLocks); err != nil {
			return nil, err
		}
	}

	metrics.Default().EntriesCommitted.Inc()
	return e.journal, nil
}

// cleanupFailedCommit deletes the transaction rows of a journal that failed
// to save. Runs detached from the caller.
func (b *Book) cleanupFailedCommit(journalID bson.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := b.store.Transactions().DeleteByJournal(ctx, journalID); err != nil {
		b.cfg.logger.Error().
			Err(err).
			Str("book", b.name).
			Str("journal", journalID.Hex()).
			Msg("can't clean up transactions after failed journal save")
	}
}
