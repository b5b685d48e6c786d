// Package memstore is an in-process implementation of the bookkeeper
// storage interfaces for tests. It evaluates the subset of the query
// language the filter translator emits: top-level equality, dotted
// account_path and meta lookups, $or/$and, range operators on ids and
// dates, and $in/$ne.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iho/bookkeeper"
)

type sessionKey struct{}

// WithSession marks ctx as carrying a transactional session, so code under
// test takes its in-transaction paths.
func WithSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, true)
}

// Lock is one write-lock registry record.
type Lock struct {
	Book      string
	Account   string
	Version   int64
	UpdatedAt time.Time
}

// Store implements bookkeeper.Store in memory.
type Store struct {
	mu           sync.Mutex
	transactions []*bookkeeper.Transaction
	journals     map[bson.ObjectID]*bookkeeper.Journal
	snapshots    []*bookkeeper.BalanceSnapshot
	locks        map[string]*Lock

	// Failure injection for protocol tests.
	FailJournalInsert     error
	FailTransactionInsert error
	FailAggregate         error

	deleteByJournalCalls chan bson.ObjectID
}

// New creates an empty store.
func New() *Store {
	return &Store{
		journals:             make(map[bson.ObjectID]*bookkeeper.Journal),
		locks:                make(map[string]*Lock),
		deleteByJournalCalls: make(chan bson.ObjectID, 16),
	}
}

func (s *Store) Transactions() bookkeeper.TransactionRepository { return (*txRepo)(s) }
func (s *Store) Journals() bookkeeper.JournalRepository         { return (*journalRepo)(s) }
func (s *Store) Snapshots() bookkeeper.SnapshotRepository       { return (*snapRepo)(s) }
func (s *Store) Locks() bookkeeper.LockRepository               { return (*lockRepo)(s) }

func (s *Store) InTransaction(ctx context.Context) bool {
	v, _ := ctx.Value(sessionKey{}).(bool)
	return v
}

// TransactionCount returns the number of stored rows.
func (s *Store) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

// LatestSnapshot returns the most recent snapshot for a key, or nil.
func (s *Store) LatestSnapshot(key string) *bookkeeper.BalanceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestSnapshotLocked(key)
}

func (s *Store) latestSnapshotLocked(key string) *bookkeeper.BalanceSnapshot {
	var best *bookkeeper.BalanceSnapshot
	for _, snap := range s.snapshots {
		if snap.Key != key {
			continue
		}
		if best == nil || bytes.Compare(snap.ID[:], best.ID[:]) > 0 {
			best = snap
		}
	}
	return best
}

// TamperSnapshot overwrites the cached balance of every snapshot for a key.
// Used to prove the cache is consulted rather than bypassed.
func (s *Store) TamperSnapshot(key string, balance float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range s.snapshots {
		if snap.Key == key {
			snap.Balance = balance
		}
	}
}

// SnapshotKeys returns the distinct cache keys of the stored snapshots.
func (s *Store) SnapshotKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{})
	var keys []string
	for _, snap := range s.snapshots {
		if _, dup := seen[snap.Key]; dup {
			continue
		}
		seen[snap.Key] = struct{}{}
		keys = append(keys, snap.Key)
	}
	sort.Strings(keys)
	return keys
}

// SnapshotCount returns the number of stored snapshots.
func (s *Store) SnapshotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

// LockRecord returns the lock record for (book, account), or nil.
func (s *Store) LockRecord(book, account string) *Lock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locks[book+"\x00"+account]
}

// WaitDeleteByJournal blocks until the compensation delete for a failed
// commit has run, or the timeout expires.
func (s *Store) WaitDeleteByJournal(timeout time.Duration) (bson.ObjectID, bool) {
	select {
	case id := <-s.deleteByJournalCalls:
		return id, true
	case <-time.After(timeout):
		return bson.ObjectID{}, false
	}
}

// ==================== Transaction rows ====================

type txRepo Store

func (r *txRepo) InsertMany(_ context.Context, txs []*bookkeeper.Transaction) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailTransactionInsert != nil {
		return s.FailTransactionInsert
	}
	s.transactions = append(s.transactions, txs...)
	return nil
}

func (r *txRepo) Find(_ context.Context, filter bson.M, opt bookkeeper.FindOptions) ([]*bookkeeper.Transaction, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*bookkeeper.Transaction
	for _, tx := range s.transactions {
		if matchTx(tx, filter) {
			matched = append(matched, tx)
		}
	}
	sortTxs(matched, opt.Sort)

	if opt.Skip > 0 {
		if opt.Skip >= int64(len(matched)) {
			return nil, nil
		}
		matched = matched[opt.Skip:]
	}
	if opt.Limit > 0 && int64(len(matched)) > opt.Limit {
		matched = matched[:opt.Limit]
	}
	return matched, nil
}

func (r *txRepo) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*bookkeeper.Transaction, error) {
	in := make(bson.A, len(ids))
	for i, id := range ids {
		in[i] = id
	}
	return r.Find(ctx, bson.M{"_id": bson.M{"$in": in}}, bookkeeper.FindOptions{})
}

func (r *txRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	matched, err := r.Find(ctx, filter, bookkeeper.FindOptions{})
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (r *txRepo) SumByFilter(_ context.Context, filter bson.M, _ bool) (bookkeeper.AggregateTotals, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAggregate != nil {
		return bookkeeper.AggregateTotals{}, s.FailAggregate
	}

	var totals bookkeeper.AggregateTotals
	for _, tx := range s.transactions {
		if !matchTx(tx, filter) {
			continue
		}
		totals.Credit += tx.Credit
		totals.Debit += tx.Debit
		totals.Notes++
		if bytes.Compare(tx.ID[:], totals.LastID[:]) > 0 {
			totals.LastID = tx.ID
		}
	}
	return totals, nil
}

func (r *txRepo) MarkVoided(_ context.Context, journalID bson.ObjectID, reason string) (int64, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched int64
	for _, tx := range s.transactions {
		if tx.Journal == journalID {
			tx.Voided = true
			tx.VoidReason = reason
			matched++
		}
	}
	return matched, nil
}

func (r *txRepo) DeleteByJournal(_ context.Context, journalID bson.ObjectID) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.transactions[:0]
	for _, tx := range s.transactions {
		if tx.Journal != journalID {
			kept = append(kept, tx)
		}
	}
	s.transactions = kept

	select {
	case s.deleteByJournalCalls <- journalID:
	default:
	}
	return nil
}

func (r *txRepo) DistinctAccounts(_ context.Context, filter bson.M) ([]string, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	for _, tx := range s.transactions {
		if matchTx(tx, filter) {
			seen[tx.Accounts] = struct{}{}
		}
	}
	accounts := make([]string, 0, len(seen))
	for a := range seen {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)
	return accounts, nil
}

// ==================== Journals ====================

type journalRepo Store

func (r *journalRepo) Insert(_ context.Context, j *bookkeeper.Journal) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailJournalInsert != nil {
		return s.FailJournalInsert
	}
	copied := *j
	s.journals[j.ID] = &copied
	return nil
}

func (r *journalRepo) Get(_ context.Context, id bson.ObjectID, book string) (*bookkeeper.Journal, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.journals[id]
	if !ok || j.Book != book {
		return nil, nil
	}
	copied := *j
	return &copied, nil
}

func (r *journalRepo) MarkVoided(_ context.Context, id bson.ObjectID, book, reason string) (int64, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.journals[id]
	if !ok || j.Book != book || j.Voided {
		return 0, nil
	}
	j.Voided = true
	j.VoidReason = reason
	return 1, nil
}

// ==================== Balance snapshots ====================

type snapRepo Store

func (r *snapRepo) Latest(_ context.Context, key string) (*bookkeeper.BalanceSnapshot, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.latestSnapshotLocked(key)
	if snap == nil {
		return nil, nil
	}
	copied := *snap
	return &copied, nil
}

func (r *snapRepo) Insert(_ context.Context, snap *bookkeeper.BalanceSnapshot) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *snap
	s.snapshots = append(s.snapshots, &copied)
	return nil
}

// ==================== Write locks ====================

type lockRepo Store

func (r *lockRepo) Touch(_ context.Context, book, account string) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	key := book + "\x00" + account
	lock, ok := s.locks[key]
	if !ok {
		lock = &Lock{Book: book, Account: account}
		s.locks[key] = lock
	}
	lock.Version++
	lock.UpdatedAt = time.Now().UTC()
	return nil
}

// ==================== Filter evaluation ====================

func matchTx(tx *bookkeeper.Transaction, filter bson.M) bool {
	for key, cond := range filter {
		switch key {
		case "$or":
			if !matchAny(tx, cond) {
				return false
			}
		case "$and":
			if !matchAll(tx, cond) {
				return false
			}
		default:
			field, ok := txField(tx, key)
			if !ok || !matchValue(field, cond) {
				return false
			}
		}
	}
	return true
}

func branches(cond any) []bson.M {
	var out []bson.M
	appendBranch := func(v any) {
		switch b := v.(type) {
		case bson.M:
			out = append(out, b)
		case map[string]any:
			out = append(out, bson.M(b))
		}
	}
	switch list := cond.(type) {
	case bson.A:
		for _, v := range list {
			appendBranch(v)
		}
	case []any:
		for _, v := range list {
			appendBranch(v)
		}
	case []bson.M:
		out = list
	}
	return out
}

func matchAny(tx *bookkeeper.Transaction, cond any) bool {
	for _, branch := range branches(cond) {
		if matchTx(tx, branch) {
			return true
		}
	}
	return false
}

func matchAll(tx *bookkeeper.Transaction, cond any) bool {
	for _, branch := range branches(cond) {
		if !matchTx(tx, branch) {
			return false
		}
	}
	return true
}

func txField(tx *bookkeeper.Transaction, key string) (any, bool) {
	switch key {
	case "_id":
		return tx.ID, true
	case "credit":
		return tx.Credit, true
	case "debit":
		return tx.Debit, true
	case "datetime":
		return tx.Datetime, true
	case "timestamp":
		return tx.Timestamp, true
	case "accounts":
		return tx.Accounts, true
	case "book":
		return tx.Book, true
	case "memo":
		return tx.Memo, true
	case "_journal":
		return tx.Journal, true
	case "_original_journal":
		return tx.OriginalJournal, true
	case "voided":
		return tx.Voided, true
	case "void_reason":
		return tx.VoidReason, true
	case "approved":
		return tx.Approved, true
	}
	if idx, ok := strings.CutPrefix(key, "account_path."); ok {
		i, err := strconv.Atoi(idx)
		if err != nil || i >= len(tx.AccountPath) {
			return nil, false
		}
		return tx.AccountPath[i], true
	}
	if metaKey, ok := strings.CutPrefix(key, "meta."); ok {
		v, exists := tx.Meta[metaKey]
		return v, exists
	}
	return nil, false
}

func matchValue(field any, cond any) bool {
	ops, isOps := asDoc(cond)
	if !isOps {
		return equal(field, cond)
	}
	for op, arg := range ops {
		switch op {
		case "$gt":
			if compare(field, arg) <= 0 {
				return false
			}
		case "$gte":
			if compare(field, arg) < 0 {
				return false
			}
		case "$lt":
			if compare(field, arg) >= 0 {
				return false
			}
		case "$lte":
			if compare(field, arg) > 0 {
				return false
			}
		case "$ne":
			if equal(field, arg) {
				return false
			}
		case "$in":
			found := false
			for _, candidate := range asList(arg) {
				if equal(field, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func asDoc(v any) (bson.M, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case map[string]any:
		return bson.M(d), true
	}
	return nil, false
}

func asList(v any) []any {
	switch l := v.(type) {
	case bson.A:
		return l
	case []any:
		return l
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out
	}
	return nil
}

func equal(a, b any) bool {
	if oa, ok := a.(bson.ObjectID); ok {
		ob, ok := b.(bson.ObjectID)
		return ok && oa == ob
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if na, ok := asFloat(a); ok {
		nb, ok := asFloat(b)
		return ok && na == nb
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func compare(a, b any) int {
	if oa, ok := a.(bson.ObjectID); ok {
		if ob, ok := b.(bson.ObjectID); ok {
			return bytes.Compare(oa[:], ob[:])
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	na, aok := asFloat(a)
	nb, bok := asFloat(b)
	if aok && bok {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

func sortTxs(txs []*bookkeeper.Transaction, order bson.D) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(txs, func(i, j int) bool {
		for _, field := range order {
			a, _ := txField(txs[i], field.Key)
			b, _ := txField(txs[j], field.Key)
			c := compare(a, b)
			if c == 0 {
				continue
			}
			if dir, ok := field.Value.(int); ok && dir < 0 {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
