package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iho/bookkeeper"
	"github.com/iho/bookkeeper/mongostore"
	"github.com/iho/bookkeeper/tests/testutil"
)

func TestConcurrentCommits(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	book, err := bookkeeper.New(testDB.Store, "concurrent")
	if err != nil {
		t.Fatalf("failed to create book: %v", err)
	}

	const workers = 10
	const entriesPerWorker = 5

	var wg sync.WaitGroup
	errs := make(chan error, workers*entriesPerWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < entriesPerWorker; i++ {
				_, err := book.Entry("concurrent sale").
					Credit("Income", 10).
					Debit("Assets", 10).
					Commit(ctx)
				if err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent commit failed: %v", err)
	}

	income, err := book.Balance(ctx, bookkeeper.Query{Account: "Income"})
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if want := float64(workers * entriesPerWorker * 10); income.Balance != want {
		t.Errorf("expected Income balance %v, got %v", want, income.Balance)
	}

	whole, err := book.Balance(ctx, bookkeeper.Query{})
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if whole.Balance != 0 {
		t.Errorf("expected whole-book balance 0, got %v", whole.Balance)
	}
}

// Requires a replica set; the write-lock registry only works inside
// transactions.
func TestWriteLockConflictRetry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	book, err := bookkeeper.New(testDB.Store, "locking")
	if err != nil {
		t.Fatalf("failed to create book: %v", err)
	}

	retrier := mongostore.NewRetrier(zerolog.Nop())

	const workers = 5
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := testDB.Store.WithTransaction(ctx, retrier, func(sc context.Context) error {
				_, err := book.Entry("guarded").
					Credit("Income", 10).
					Debit("Assets:Cash", 10).
					Commit(sc, bookkeeper.WithWriteLocks("Assets:Cash"))
				return err
			})
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("locked commit failed after retries: %v", err)
	}

	cash, err := book.Balance(ctx, bookkeeper.Query{Account: "Assets:Cash"})
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if cash.Balance != -float64(workers*10) {
		t.Errorf("expected Assets:Cash balance %v, got %v", -float64(workers*10), cash.Balance)
	}

	// Every committed transaction bumped the shared lock record, so its
	// version counts the commits that actually went through the registry.
	var lock struct {
		Version int64 `bson:"version"`
	}
	err = testDB.DB.Collection("ledger_locks").
		FindOne(ctx, bson.M{"book": "locking", "account": "Assets:Cash"}).
		Decode(&lock)
	if err != nil {
		t.Fatalf("lock record lookup failed: %v", err)
	}
	if lock.Version != workers {
		t.Errorf("expected lock version %d, got %d", workers, lock.Version)
	}
}
