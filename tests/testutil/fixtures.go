package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/iho/bookkeeper/mongostore"
)

// TestDB provides an isolated MongoDB database per test.
type TestDB struct {
	Client *mongo.Client
	DB     *mongo.Database
	Store  *mongostore.Store
	t      *testing.T
}

// NewTestDB connects to the test MongoDB instance and creates a throwaway
// database with the ledger indexes in place. Transactions require the
// instance to be a replica set.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	url := os.Getenv("MONGODB_URL")
	if url == "" {
		url = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(url))
	if err != nil {
		t.Fatalf("failed to connect to test mongodb: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Fatalf("failed to ping test mongodb: %v", err)
	}

	db := client.Database("bookkeeper_test_" + bson.NewObjectID().Hex())
	store := mongostore.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("failed to create indexes: %v", err)
	}

	return &TestDB{
		Client: client,
		DB:     db,
		Store:  store,
		t:      t,
	}
}

// Cleanup drops the throwaway database and disconnects.
func (db *TestDB) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.DB.Drop(ctx); err != nil {
		db.t.Logf("failed to drop test database: %v", err)
	}
	if err := db.Client.Disconnect(ctx); err != nil {
		db.t.Logf("failed to disconnect: %v", err)
	}
}
