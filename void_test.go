package bookkeeper_test

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iho/bookkeeper"
)

func TestVoidReversesEntry(t *testing.T) {
	book, _ := newTestBook(t, bookkeeper.WithSnapshotInterval(0))
	ctx := context.Background()

	journal := mustCommit(t, book, "invoice 7", "Income", "Assets:Receivable", 120)

	reversal, err := book.Void(ctx, journal.ID, "")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if reversal.OriginalJournal != journal.ID {
		t.Errorf("expected reversal to reference the original journal")
	}
	if reversal.Memo != "[VOID] invoice 7" {
		t.Errorf("expected derived void memo, got %q", reversal.Memo)
	}
	if !reversal.Datetime.Equal(journal.Datetime) {
		t.Errorf("expected reversal dated to the original entry")
	}

	income, err := book.Balance(ctx, bookkeeper.Query{Account: "Income"})
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if income.Balance != 0 {
		t.Errorf("expected Income back to 0 after void, got %v", income.Balance)
	}

	receivable, err := book.Balance(ctx, bookkeeper.Query{Account: "Assets:Receivable"})
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if receivable.Balance != 0 {
		t.Errorf("expected Assets:Receivable back to 0 after void, got %v", receivable.Balance)
	}
}

func TestVoidMarksOriginalRows(t *testing.T) {
	book, _ := newTestBook(t)
	ctx := context.Background()

	journal := mustCommit(t, book, "invoice 8", "Income", "Assets", 50)
	if _, err := book.Void(ctx, journal.ID, "entered twice"); err != nil {
		t.Fatalf("void failed: %v", err)
	}

	rows, err := book.Ledger(ctx, bookkeeper.Query{Filter: map[string]any{"_journal": journal.ID.Hex()}})
	if err != nil {
		t.Fatalf("ledger failed: %v", err)
	}
	if len(rows.Results) != 2 {
		t.Fatalf("expected the 2 original rows, got %d", len(rows.Results))
	}
	for _, tx := range rows.Results {
		if !tx.Voided {
			t.Errorf("row %s not marked voided", tx.ID.Hex())
		}
		if tx.VoidReason != "entered twice" {
			t.Errorf("expected custom void reason on row, got %q", tx.VoidReason)
		}
	}
}

func TestVoidIsTerminal(t *testing.T) {
	book, _ := newTestBook(t)
	ctx := context.Background()

	journal := mustCommit(t, book, "invoice 9", "Income", "Assets", 10)
	if _, err := book.Void(ctx, journal.ID, ""); err != nil {
		t.Fatalf("void failed: %v", err)
	}

	_, err := book.Void(ctx, journal.ID, "")
	if !errors.Is(err, bookkeeper.ErrJournalAlreadyVoided) {
		t.Errorf("expected ErrJournalAlreadyVoided, got %v", err)
	}
}

func TestVoidUnknownJournal(t *testing.T) {
	book, _ := newTestBook(t)

	_, err := book.Void(context.Background(), bson.NewObjectID(), "")
	if !errors.Is(err, bookkeeper.ErrJournalNotFound) {
		t.Errorf("expected ErrJournalNotFound, got %v", err)
	}
}

func TestVoidWrongBook(t *testing.T) {
	book, store := newTestBook(t)
	other, err := bookkeeper.New(store, "other")
	if err != nil {
		t.Fatalf("failed to create book: %v", err)
	}

	journal := mustCommit(t, book, "scoped", "Income", "Assets", 10)

	_, err = other.Void(context.Background(), journal.ID, "")
	if !errors.Is(err, bookkeeper.ErrJournalNotFound) {
		t.Errorf("expected ErrJournalNotFound from another book, got %v", err)
	}
}

func TestVoidReasonCycling(t *testing.T) {
	book, _ := newTestBook(t)
	ctx := context.Background()

	journal := mustCommit(t, book, "cycle me", "Income", "Assets", 10)

	// Void the entry, then keep voiding each reversal: the derived memo
	// alternates between unvoid and revoid after the first void.
	r1, err := book.Void(ctx, journal.ID, "")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if r1.Memo != "[VOID] cycle me" {
		t.Errorf("expected [VOID] memo, got %q", r1.Memo)
	}

	r2, err := book.Void(ctx, r1.ID, "")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if r2.Memo != "[UNVOID] cycle me" {
		t.Errorf("expected [UNVOID] memo, got %q", r2.Memo)
	}

	r3, err := book.Void(ctx, r2.ID, "")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if r3.Memo != "[REVOID] cycle me" {
		t.Errorf("expected [REVOID] memo, got %q", r3.Memo)
	}

	r4, err := book.Void(ctx, r3.ID, "")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if r4.Memo != "[UNVOID] cycle me" {
		t.Errorf("expected [UNVOID] memo again, got %q", r4.Memo)
	}
}

func TestVoidMissingRowsFailsConsistently(t *testing.T) {
	book, store := newTestBook(t)
	ctx := context.Background()

	journal := mustCommit(t, book, "orphaned", "Income", "Assets", 10)

	// Simulate rows lost to a partially failed write.
	if err := store.Transactions().DeleteByJournal(ctx, journal.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, err := book.Void(ctx, journal.ID, "")
	var consistency *bookkeeper.ConsistencyError
	if !errors.As(err, &consistency) {
		t.Fatalf("expected ConsistencyError, got %v", err)
	}

	// The journal must not have been flagged on the failed path.
	repeat, repeatErr := book.Void(ctx, journal.ID, "")
	if repeat != nil || errors.Is(repeatErr, bookkeeper.ErrJournalAlreadyVoided) {
		t.Errorf("journal was voided despite the aborted reversal")
	}
}

func TestVoidKeepsMetaOnReversal(t *testing.T) {
	book, _ := newTestBook(t)
	ctx := context.Background()

	journal, err := book.Entry("tagged").
		Credit("Income", 30, map[string]any{"clientId": "c-1"}).
		Debit("Assets", 30, map[string]any{"clientId": "c-1"}).
		Commit(ctx)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	reversal, err := book.Void(ctx, journal.ID, "")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}

	rows, err := book.Ledger(ctx, bookkeeper.Query{Filter: map[string]any{"_journal": reversal.ID.Hex()}})
	if err != nil {
		t.Fatalf("ledger failed: %v", err)
	}
	if len(rows.Results) != 2 {
		t.Fatalf("expected 2 reversal rows, got %d", len(rows.Results))
	}
	for _, tx := range rows.Results {
		if tx.Meta["clientId"] != "c-1" {
			t.Errorf("expected meta carried onto reversal row, got %v", tx.Meta)
		}
		if tx.OriginalJournal != journal.ID {
			t.Errorf("expected reversal row to reference the original journal")
		}
	}
}
