package bookkeeper

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iho/bookkeeper/internal/metrics"
	"github.com/iho/bookkeeper/internal/mquery"
)

// BalanceResult is a balance sum plus the number of rows behind it.
type BalanceResult struct {
	Balance float64
	Notes   int64
}

// Balance computes the signed sum of credit-debit over rows matching the
// query, rounded to the book's precision.
//
// With snapshotting enabled the most recent snapshot for the query's cache
// key is used as a starting point and only rows inserted after its
// high-water mark are aggregated. A snapshot older than the snapshot
// interval additionally schedules a full background refresh; the in-flight
// call is never blocked or failed by it. With no snapshot yet, the query
// aggregates from scratch and persists a snapshot synchronously so the next
// call is cheap.
//
// The high-water mark is a row id, not a timestamp: backdated entries are
// still picked up because ids grow in insertion order regardless of the
// rows' logical datetime.
func (b *Book) Balance(ctx context.Context, q Query) (BalanceResult, error) {
	timer := time.Now()
	defer func() {
		metrics.Default().BalanceDuration.Observe(time.Since(timer).Seconds())
	}()

	// Pagination has no meaning for an aggregate.
	q.Page, q.PerPage = 0, 0

	filter := b.filterFor(q)

	// The cache key is (book, account, meta) only, so a date-bounded query
	// cannot be answered from a snapshot.
	_, dated := filter["datetime"]

	if b.cfg.snapshotInterval == 0 || dated {
		totals, err := b.store.Transactions().SumByFilter(ctx, filter, false)
		if err != nil {
			return BalanceResult{}, fmt.Errorf("bookkeeper: balance aggregation: %w", err)
		}
		return BalanceResult{Balance: b.round(totals.Credit, totals.Debit), Notes: totals.Notes}, nil
	}

	account := mquery.AccountString(q.Account)
	meta := canonicalMeta(q.Filter)
	key := snapshotKey(b.name, account, meta)

	snap, err := b.store.Snapshots().Latest(ctx, key)
	if err != nil {
		return BalanceResult{}, fmt.Errorf("bookkeeper: balance snapshot lookup: %w", err)
	}

	if snap == nil {
		metrics.Default().SnapshotMisses.Inc()
		totals, err := b.store.Transactions().SumByFilter(ctx, filter, false)
		if err != nil {
			return BalanceResult{}, fmt.Errorf("bookkeeper: balance aggregation: %w", err)
		}
		balance := b.round(totals.Credit, totals.Debit)
		if totals.Notes > 0 {
			s := b.newSnapshot(key, account, meta, totals.LastID, balance, totals.Notes)
			if err := b.store.Snapshots().Insert(ctx, s); err != nil {
				return BalanceResult{}, fmt.Errorf("bookkeeper: balance snapshot insert: %w", err)
			}
		}
		return BalanceResult{Balance: balance, Notes: totals.Notes}, nil
	}

	metrics.Default().SnapshotHits.Inc()

	incremental := make(bson.M, len(filter)+1)
	for k, v := range filter {
		incremental[k] = v
	}
	incremental["_id"] = bson.M{"$gt": snap.Transaction}

	// When the high-water mark is recent the id range past it is small, so
	// the row-id index beats any compound index.
	hint := time.Since(snap.Transaction.Timestamp()) < b.cfg.snapshotExpiry

	totals, err := b.store.Transactions().SumByFilter(ctx, incremental, hint)
	if err != nil {
		return BalanceResult{}, fmt.Errorf("bookkeeper: balance aggregation: %w", err)
	}

	delta := b.roundDecimal(totals.Credit, totals.Debit)
	balance, _ := decimal.NewFromFloat(snap.Balance).Add(delta).
		Round(int32(b.cfg.precision)).Float64()

	if time.Since(snap.CreatedAt) > b.cfg.snapshotInterval {
		b.refreshSnapshot(key, account, meta, filter)
	}

	return BalanceResult{Balance: balance, Notes: snap.Notes + totals.Notes}, nil
}

// refreshSnapshot re-aggregates the full filter from scratch in the
// background and persists the result as a fresh snapshot. Failures are
// logged, never surfaced; a refresh in flight at process exit is abandoned.
func (b *Book) refreshSnapshot(key, account, meta string, filter bson.M) {
	metrics.Default().SnapshotRefreshes.Inc()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				metrics.Default().RefreshFailures.Inc()
				b.cfg.logger.Error().
					Any("panic", r).
					Str("book", b.name).
					Msg("balance snapshot refresh panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		totals, err := b.store.Transactions().SumByFilter(ctx, filter, false)
		if err == nil && totals.Notes > 0 {
			balance := b.round(totals.Credit, totals.Debit)
			s := b.newSnapshot(key, account, meta, totals.LastID, balance, totals.Notes)
			err = b.store.Snapshots().Insert(ctx, s)
		}
		if err != nil {
			metrics.Default().RefreshFailures.Inc()
			b.cfg.logger.Error().
				Err(err).
				Str("book", b.name).
				Str("account", account).
				Msg("balance snapshot refresh failed")
		}
	}()
}

func (b *Book) newSnapshot(key, account, meta string, lastID bson.ObjectID, balance float64, notes int64) *BalanceSnapshot {
	now := time.Now().UTC()
	return &BalanceSnapshot{
		ID:          bson.NewObjectID(),
		Key:         key,
		Book:        b.name,
		Account:     account,
		Meta:        meta,
		Transaction: lastID,
		Balance:     balance,
		Notes:       notes,
		CreatedAt:   now,
		ExpireAt:    now.Add(b.cfg.snapshotExpiry),
	}
}

func (b *Book) round(credit, debit float64) float64 {
	f, _ := b.roundDecimal(credit, debit).Float64()
	return f
}

func (b *Book) roundDecimal(credit, debit float64) decimal.Decimal {
	return decimal.NewFromFloat(credit).
		Sub(decimal.NewFromFloat(debit)).
		Round(int32(b.cfg.precision))
}

// canonicalMeta flattens a query's extra filter into a canonical string, so
// the cache key is insensitive to map iteration order and to operator
// wrapping. Date bounds and the account selector are part of the key through
// their own slots, not here.
func canonicalMeta(filter map[string]any) string {
	if len(filter) == 0 {
		return ""
	}
	pruned := make(map[string]any, len(filter))
	for k, v := range filter {
		switch k {
		case "start_date", "end_date", "account", "book":
			continue
		}
		pruned[k] = v
	}
	return strings.Join(mquery.Flatten(pruned), "&")
}

func snapshotKey(book, account, meta string) string {
	sum := sha256.Sum256([]byte(book + "\x00" + account + "\x00" + meta))
	return hex.EncodeToString(sum[:])
}
