package bookkeeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/mock/gomock"

	"github.com/iho/bookkeeper"
	"github.com/iho/bookkeeper/internal/mocks"
)

// Verifies the exact call sequence of the manual compensation path: rows
// written, journal write fails, the rows are deleted by journal id.
func TestCommitCompensationCallSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txRepo := mocks.NewMockTransactionRepository(ctrl)
	journalRepo := mocks.NewMockJournalRepository(ctrl)
	store := mocks.NewMockStore(ctrl)

	store.EXPECT().InTransaction(gomock.Any()).Return(false).AnyTimes()
	store.EXPECT().Transactions().Return(txRepo).AnyTimes()
	store.EXPECT().Journals().Return(journalRepo).AnyTimes()

	var journalID bson.ObjectID
	deleted := make(chan bson.ObjectID, 1)

	txRepo.EXPECT().
		InsertMany(gomock.Any(), gomock.Len(2)).
		Return(nil)
	journalRepo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, j *bookkeeper.Journal) error {
			journalID = j.ID
			return errors.New("primary stepped down")
		})
	txRepo.EXPECT().
		DeleteByJournal(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id bson.ObjectID) error {
			deleted <- id
			return nil
		})

	book, err := bookkeeper.New(store, "test")
	if err != nil {
		t.Fatalf("failed to create book: %v", err)
	}

	_, err = book.Entry("doomed").
		Credit("Income", 10).
		Debit("Assets", 10).
		Commit(context.Background())
	if err == nil {
		t.Fatal("expected commit to fail")
	}

	select {
	case id := <-deleted:
		if id != journalID {
			t.Errorf("compensation deleted journal %s, expected %s", id.Hex(), journalID.Hex())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("compensation delete never ran")
	}
}

// A snapshot lookup failure must fail the balance query rather than fall
// back to a silent full aggregation.
func TestBalanceSnapshotLookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snapRepo := mocks.NewMockSnapshotRepository(ctrl)
	store := mocks.NewMockStore(ctrl)

	store.EXPECT().Snapshots().Return(snapRepo).AnyTimes()

	lookupErr := errors.New("snapshot collection unavailable")
	snapRepo.EXPECT().
		Latest(gomock.Any(), gomock.Any()).
		Return(nil, lookupErr)

	book, err := bookkeeper.New(store, "test")
	if err != nil {
		t.Fatalf("failed to create book: %v", err)
	}

	_, err = book.Balance(context.Background(), bookkeeper.Query{Account: "Income"})
	if !errors.Is(err, lookupErr) {
		t.Errorf("expected snapshot lookup error surfaced, got %v", err)
	}
}
