package integration

import (
	"context"
	"testing"

	"github.com/iho/bookkeeper"
	"github.com/iho/bookkeeper/tests/testutil"
)

func TestEntryLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	book, err := bookkeeper.New(testDB.Store, "lifecycle")
	if err != nil {
		t.Fatalf("failed to create book: %v", err)
	}

	// Commit a balanced entry.
	journal, err := book.Entry("invoice 1").
		Credit("Income:Sales", 500).
		Debit("Assets:Receivable", 500).
		SetApproved(true).
		Commit(ctx)
	if err != nil {
		t.Fatalf("failed to commit entry: %v", err)
	}

	// The ledger shows both rows.
	rows, err := book.Ledger(ctx, bookkeeper.Query{})
	if err != nil {
		t.Fatalf("ledger failed: %v", err)
	}
	if rows.Total != 2 {
		t.Fatalf("expected 2 rows, got %d", rows.Total)
	}

	// Balances reflect the entry on both sides.
	income, err := book.Balance(ctx, bookkeeper.Query{Account: "Income"})
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if income.Balance != 500 {
		t.Errorf("expected Income balance 500, got %v", income.Balance)
	}
	receivable, err := book.Balance(ctx, bookkeeper.Query{Account: "Assets:Receivable"})
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if receivable.Balance != -500 {
		t.Errorf("expected Assets:Receivable balance -500, got %v", receivable.Balance)
	}

	// Void the entry and verify both balances return to zero.
	reversal, err := book.Void(ctx, journal.ID, "")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if reversal.OriginalJournal != journal.ID {
		t.Error("expected reversal to reference the original journal")
	}

	income, err = book.Balance(ctx, bookkeeper.Query{Account: "Income"})
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if income.Balance != 0 {
		t.Errorf("expected Income balance 0 after void, got %v", income.Balance)
	}

	// Voiding again must fail.
	if _, err := book.Void(ctx, journal.ID, ""); err != bookkeeper.ErrJournalAlreadyVoided {
		t.Errorf("expected ErrJournalAlreadyVoided, got %v", err)
	}

	// All account prefixes appear in the listing.
	accounts, err := book.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("list accounts failed: %v", err)
	}
	want := map[string]bool{"Income": true, "Income:Sales": true, "Assets": true, "Assets:Receivable": true}
	for _, account := range accounts {
		delete(want, account)
	}
	if len(want) != 0 {
		t.Errorf("missing accounts in listing: %v (got %v)", want, accounts)
	}
}

func TestBalanceSnapshotRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	book, err := bookkeeper.New(testDB.Store, "snapshots")
	if err != nil {
		t.Fatalf("failed to create book: %v", err)
	}

	for i := 0; i < 10; i++ {
		if _, err := book.Entry("drip").
			Credit("Income", 10).
			Debit("Assets", 10).
			Commit(ctx); err != nil {
			t.Fatalf("failed to commit entry: %v", err)
		}
	}

	// First call aggregates cold and persists a snapshot.
	first, err := book.Balance(ctx, bookkeeper.Query{Account: "Income"})
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if first.Balance != 100 {
		t.Fatalf("expected balance 100, got %v", first.Balance)
	}

	// More rows after the snapshot's high-water mark.
	if _, err := book.Entry("late").
		Credit("Income", 5).
		Debit("Assets", 5).
		Commit(ctx); err != nil {
		t.Fatalf("failed to commit entry: %v", err)
	}

	second, err := book.Balance(ctx, bookkeeper.Query{Account: "Income"})
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if second.Balance != 105 {
		t.Errorf("expected incremental balance 105, got %v", second.Balance)
	}
	if second.Notes != 11 {
		t.Errorf("expected 11 rows counted, got %d", second.Notes)
	}
}
