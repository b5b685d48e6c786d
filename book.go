package bookkeeper

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iho/bookkeeper/internal/mquery"
)

// Book is a named ledger namespace. All rows and journals it creates or
// reads are scoped to its name. Books are cheap; any number of them may
// share one Store.
type Book struct {
	store Store
	name  string
	cfg   bookConfig
}

// New creates a Book over the given store.
func New(store Store, name string, opts ...Option) (*Book, error) {
	if name == "" {
		return nil, &ConfigError{Option: "name", Reason: "must not be empty"}
	}
	cfg := bookConfig{
		precision:        defaultPrecision,
		maxAccountPath:   defaultMaxAccountPath,
		snapshotInterval: defaultSnapshotInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Book{store: store, name: name, cfg: cfg}, nil
}

// Name returns the book's name.
func (b *Book) Name() string { return b.name }

// Query is a logical ledger query. Account takes a single account string or
// a []string of accounts; a path shorter than the book's maximum depth
// matches the account and all its descendants. StartDate and EndDate accept
// a time.Time, a Unix-millisecond epoch number, or a numeric or parseable
// date string. Filter carries extra conditions: keys naming transaction
// schema fields filter at the top level, everything else filters the row's
// metadata (values may use store-native operators such as $in).
type Query struct {
	Account   any
	StartDate any
	EndDate   any
	Filter    map[string]any
	Page      int
	PerPage   int
}

func (b *Book) filterFor(q Query) bson.M {
	return mquery.Build(mquery.Input{
		Book:           b.name,
		Account:        q.Account,
		StartDate:      q.StartDate,
		EndDate:        q.EndDate,
		Filter:         q.Filter,
		MaxAccountPath: b.cfg.maxAccountPath,
	})
}

// LedgerResult is a page of transaction rows plus the total match count.
type LedgerResult struct {
	Results []*Transaction
	Total   int64
}

// Ledger lists transaction rows matching the query, newest first. With
// PerPage set the listing is paginated and Total is the full match count;
// without it everything is returned and Total equals len(Results).
func (b *Book) Ledger(ctx context.Context, q Query) (*LedgerResult, error) {
	filter := b.filterFor(q)

	opt := FindOptions{
		Sort: bson.D{{Key: "datetime", Value: -1}, {Key: "timestamp", Value: -1}},
	}
	paginated := q.PerPage > 0
	if paginated {
		page := q.Page
		if page < 1 {
			page = 1
		}
		opt.Skip = int64(page-1) * int64(q.PerPage)
		opt.Limit = int64(q.PerPage)
	}

	results, err := b.store.Transactions().Find(ctx, filter, opt)
	if err != nil {
		return nil, fmt.Errorf("bookkeeper: ledger query: %w", err)
	}

	total := int64(len(results))
	if paginated {
		total, err = b.store.Transactions().Count(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("bookkeeper: ledger count: %w", err)
		}
	}

	return &LedgerResult{Results: results, Total: total}, nil
}

// ListAccounts returns every account path prefix ever used in the book,
// including intermediate prefixes, sorted and de-duplicated.
func (b *Book) ListAccounts(ctx context.Context) ([]string, error) {
	full, err := b.store.Transactions().DistinctAccounts(ctx, bson.M{"book": b.name})
	if err != nil {
		return nil, fmt.Errorf("bookkeeper: list accounts: %w", err)
	}

	seen := make(map[string]struct{})
	for _, account := range full {
		parts := strings.Split(account, ":")
		for i := 1; i <= len(parts); i++ {
			seen[strings.Join(parts[:i], ":")] = struct{}{}
		}
	}

	accounts := make([]string, 0, len(seen))
	for account := range seen {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	return accounts, nil
}

// WriteLockAccounts touches the write-lock record of each distinct account
// inside the caller's transaction, so that concurrent transactions touching
// the same account surface a write conflict at commit instead of silently
// losing an update. Call it as the last statement of the business
// transaction. It is a conflict detector, not a mutex: contending callers
// must retry the whole transaction.
func (b *Book) WriteLockAccounts(ctx context.Context, accounts []string) error {
	if !b.store.InTransaction(ctx) {
		return ErrSessionRequired
	}
	for _, account := range dedupeSorted(accounts) {
		if err := b.store.Locks().Touch(ctx, b.name, account); err != nil {
			return fmt.Errorf("bookkeeper: write lock %s: %w", account, err)
		}
	}
	return nil
}

func dedupeSorted(accounts []string) []string {
	seen := make(map[string]struct{}, len(accounts))
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
