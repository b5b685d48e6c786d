// Package mongostore implements the bookkeeper storage interfaces on
// MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"

	"github.com/iho/bookkeeper"
)

// Collection name constants.
const (
	colTransactions = "ledger_transactions"
	colJournals     = "ledger_journals"
	colSnapshots    = "ledger_balance_snapshots"
	colLocks        = "ledger_locks"
)

// compile-time interface check
var _ bookkeeper.Store = (*Store)(nil)

// Store implements bookkeeper.Store on a mongo database.
type Store struct {
	db           *mongo.Database
	transactions *transactionRepo
	journals     *journalRepo
	snapshots    *snapshotRepo
	locks        *lockRepo
}

// New creates a Store over the given database.
func New(db *mongo.Database) *Store {
	// Void flag flips are the point of no return for a void, so outside a
	// session they go through handles with a journaled write concern.
	durable := options.Collection().SetWriteConcern(writeconcern.Journaled())

	return &Store{
		db: db,
		transactions: &transactionRepo{
			coll:    db.Collection(colTransactions),
			durable: db.Collection(colTransactions, durable),
		},
		journals: &journalRepo{
			coll:    db.Collection(colJournals),
			durable: db.Collection(colJournals, durable),
		},
		snapshots: &snapshotRepo{coll: db.Collection(colSnapshots)},
		locks:     &lockRepo{coll: db.Collection(colLocks)},
	}
}

func (s *Store) Transactions() bookkeeper.TransactionRepository { return s.transactions }
func (s *Store) Journals() bookkeeper.JournalRepository         { return s.journals }
func (s *Store) Snapshots() bookkeeper.SnapshotRepository       { return s.snapshots }
func (s *Store) Locks() bookkeeper.LockRepository               { return s.locks }

// InTransaction reports whether ctx carries a mongo session.
func (s *Store) InTransaction(ctx context.Context) bool {
	return mongo.SessionFromContext(ctx) != nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// inSession reports whether ctx carries a mongo session, in which case the
// session's write concern governs and the plain handle is used.
func inSession(ctx context.Context) bool {
	return mongo.SessionFromContext(ctx) != nil
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// ==================== Transaction rows ====================

type transactionRepo struct {
	coll    *mongo.Collection
	durable *mongo.Collection
}

func (r *transactionRepo) InsertMany(ctx context.Context, txs []*bookkeeper.Transaction) error {
	docs := make([]any, len(txs))
	for i, tx := range txs {
		docs[i] = tx
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("bookkeeper/mongo: insert transactions: %w", err)
	}
	return nil
}

func (r *transactionRepo) Find(ctx context.Context, filter bson.M, opt bookkeeper.FindOptions) ([]*bookkeeper.Transaction, error) {
	fo := options.Find()
	if opt.Sort != nil {
		fo.SetSort(opt.Sort)
	}
	if opt.Skip > 0 {
		fo.SetSkip(opt.Skip)
	}
	if opt.Limit > 0 {
		fo.SetLimit(opt.Limit)
	}

	cursor, err := r.coll.Find(ctx, filter, fo)
	if err != nil {
		return nil, fmt.Errorf("bookkeeper/mongo: find transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*bookkeeper.Transaction
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("bookkeeper/mongo: decode transactions: %w", err)
	}
	return results, nil
}

func (r *transactionRepo) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*bookkeeper.Transaction, error) {
	return r.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, bookkeeper.FindOptions{})
}

func (r *transactionRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("bookkeeper/mongo: count transactions: %w", err)
	}
	return n, nil
}

func (r *transactionRepo) SumByFilter(ctx context.Context, filter bson.M, hintIDIndex bool) (bookkeeper.AggregateTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"credit":  bson.M{"$sum": "$credit"},
			"debit":   bson.M{"$sum": "$debit"},
			"notes":   bson.M{"$sum": 1},
			"last_id": bson.M{"$max": "$_id"},
		}}},
	}

	ao := options.Aggregate()
	if hintIDIndex {
		ao.SetHint(bson.D{{Key: "_id", Value: 1}})
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline, ao)
	if err != nil {
		return bookkeeper.AggregateTotals{}, fmt.Errorf("bookkeeper/mongo: aggregate balance: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Credit float64       `bson:"credit"`
		Debit  float64       `bson:"debit"`
		Notes  int64         `bson:"notes"`
		LastID bson.ObjectID `bson:"last_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return bookkeeper.AggregateTotals{}, fmt.Errorf("bookkeeper/mongo: decode balance aggregate: %w", err)
	}
	if len(rows) == 0 {
		return bookkeeper.AggregateTotals{}, nil
	}
	return bookkeeper.AggregateTotals{
		Credit: rows[0].Credit,
		Debit:  rows[0].Debit,
		Notes:  rows[0].Notes,
		LastID: rows[0].LastID,
	}, nil
}

func (r *transactionRepo) MarkVoided(ctx context.Context, journalID bson.ObjectID, reason string) (int64, error) {
	coll := r.durable
	if inSession(ctx) {
		coll = r.coll
	}
	res, err := coll.UpdateMany(ctx,
		bson.M{"_journal": journalID},
		bson.M{"$set": bson.M{"voided": true, "void_reason": reason}},
	)
	if err != nil {
		return 0, fmt.Errorf("bookkeeper/mongo: void transactions: %w", err)
	}
	return res.MatchedCount, nil
}

func (r *transactionRepo) DeleteByJournal(ctx context.Context, journalID bson.ObjectID) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"_journal": journalID}); err != nil {
		return fmt.Errorf("bookkeeper/mongo: delete transactions: %w", err)
	}
	return nil
}

func (r *transactionRepo) DistinctAccounts(ctx context.Context, filter bson.M) ([]string, error) {
	var accounts []string
	if err := r.coll.Distinct(ctx, "accounts", filter).Decode(&accounts); err != nil {
		return nil, fmt.Errorf("bookkeeper/mongo: distinct accounts: %w", err)
	}
	return accounts, nil
}

// ==================== Journals ====================

type journalRepo struct {
	coll    *mongo.Collection
	durable *mongo.Collection
}

func (r *journalRepo) Insert(ctx context.Context, j *bookkeeper.Journal) error {
	if _, err := r.coll.InsertOne(ctx, j); err != nil {
		return fmt.Errorf("bookkeeper/mongo: insert journal: %w", err)
	}
	return nil
}

func (r *journalRepo) Get(ctx context.Context, id bson.ObjectID, book string) (*bookkeeper.Journal, error) {
	var j bookkeeper.Journal
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "book": book}).Decode(&j)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("bookkeeper/mongo: get journal: %w", err)
	}
	return &j, nil
}

func (r *journalRepo) MarkVoided(ctx context.Context, id bson.ObjectID, book, reason string) (int64, error) {
	coll := r.durable
	if inSession(ctx) {
		coll = r.coll
	}
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "book": book, "voided": false},
		bson.M{"$set": bson.M{"voided": true, "void_reason": reason}},
	)
	if err != nil {
		return 0, fmt.Errorf("bookkeeper/mongo: void journal: %w", err)
	}
	return res.MatchedCount, nil
}

// ==================== Balance snapshots ====================

type snapshotRepo struct {
	coll *mongo.Collection
}

func (r *snapshotRepo) Latest(ctx context.Context, key string) (*bookkeeper.BalanceSnapshot, error) {
	// Most recent by descending id: ids are monotonic in insertion order,
	// which timestamps are not.
	var s bookkeeper.BalanceSnapshot
	err := r.coll.FindOne(ctx,
		bson.M{"key": key},
		options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}}),
	).Decode(&s)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("bookkeeper/mongo: get snapshot: %w", err)
	}
	return &s, nil
}

func (r *snapshotRepo) Insert(ctx context.Context, s *bookkeeper.BalanceSnapshot) error {
	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("bookkeeper/mongo: insert snapshot: %w", err)
	}
	return nil
}

// ==================== Write locks ====================

type lockRepo struct {
	coll *mongo.Collection
}

func (r *lockRepo) Touch(ctx context.Context, book, account string) error {
	// The record is created from the filter fields on first upsert; after
	// that every touch is a write to the same document, which is what forces
	// the conflict between concurrent sessions.
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"book": book, "account": account},
		bson.M{
			"$set": bson.M{"updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("bookkeeper/mongo: touch write lock: %w", err)
	}
	return nil
}
