package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Default TTLs for the ephemeral collections, in seconds. Snapshot documents
// additionally carry their own expire_at stamped by the book.
const lockExpireSeconds = 24 * 60 * 60

// EnsureIndexes creates the indexes the ledger query patterns rely on:
// account and date lookups on rows, the journal back-reference used by void
// and compensation, snapshot key lookups, and the TTL and uniqueness
// constraints on the two ephemeral collections.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colTransactions: {
			{Keys: bson.D{{Key: "_journal", Value: 1}}},
			{Keys: bson.D{
				{Key: "book", Value: 1},
				{Key: "accounts", Value: 1},
				{Key: "datetime", Value: -1},
				{Key: "timestamp", Value: -1},
			}},
			{Keys: bson.D{
				{Key: "book", Value: 1},
				{Key: "account_path", Value: 1},
				{Key: "datetime", Value: -1},
			}},
		},
		colJournals: {
			{Keys: bson.D{{Key: "book", Value: 1}, {Key: "datetime", Value: -1}}},
			{
				Keys:    bson.D{{Key: "_original_journal", Value: 1}},
				Options: options.Index().SetSparse(true),
			},
		},
		colSnapshots: {
			{Keys: bson.D{{Key: "key", Value: 1}, {Key: "_id", Value: -1}}},
			{
				Keys:    bson.D{{Key: "expire_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		},
		colLocks: {
			{
				Keys:    bson.D{{Key: "book", Value: 1}, {Key: "account", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "updated_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(lockExpireSeconds),
			},
		},
	}

	for col, models := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("bookkeeper/mongo: ensure %s indexes: %w", col, err)
		}
	}
	return nil
}
