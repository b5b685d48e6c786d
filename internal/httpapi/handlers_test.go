package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iho/bookkeeper"
	"github.com/iho/bookkeeper/internal/memstore"
)

func newTestServer(t *testing.T) (http.Handler, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	handler := NewHandler(func(name string) (*bookkeeper.Book, error) {
		return bookkeeper.New(store, name)
	})
	return NewRouter(handler, zerolog.Nop()), store
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPostEntry(t *testing.T) {
	router, store := newTestServer(t)

	rec := postJSON(t, router, "/api/v1/books/main/entries", postEntryRequest{
		Memo: "invoice 12",
		Legs: []entryLeg{
			{Account: "Income:Sales", Credit: 100},
			{Account: "Assets:Receivable", Debit: 100},
		},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.TransactionCount() != 2 {
		t.Errorf("expected 2 stored rows, got %d", store.TransactionCount())
	}

	var journal bookkeeper.Journal
	if err := json.Unmarshal(rec.Body.Bytes(), &journal); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if journal.Memo != "invoice 12" || journal.Book != "main" {
		t.Errorf("unexpected journal in response: %+v", journal)
	}
}

func TestPostEntryUnbalanced(t *testing.T) {
	router, store := newTestServer(t)

	rec := postJSON(t, router, "/api/v1/books/main/entries", postEntryRequest{
		Memo: "bad",
		Legs: []entryLeg{
			{Account: "Income", Credit: 100},
			{Account: "Assets", Debit: 50},
		},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.TransactionCount() != 0 {
		t.Errorf("expected nothing stored, got %d rows", store.TransactionCount())
	}
}

func TestBalanceEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	rec := postJSON(t, router, "/api/v1/books/main/entries", postEntryRequest{
		Memo: "seed",
		Legs: []entryLeg{
			{Account: "Income", Credit: 75},
			{Account: "Assets", Debit: 75},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seeding failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = get(t, router, "/api/v1/books/main/balance?account=Income")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result bookkeeper.BalanceResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Balance != 75 || result.Notes != 1 {
		t.Errorf("unexpected balance: %+v", result)
	}
}

func TestLedgerEndpointMetaFilter(t *testing.T) {
	router, _ := newTestServer(t)

	rec := postJSON(t, router, "/api/v1/books/main/entries", postEntryRequest{
		Memo: "tagged",
		Legs: []entryLeg{
			{Account: "Income", Credit: 30, Meta: map[string]any{"clientId": "c-1"}},
			{Account: "Assets", Debit: 30},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seeding failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = get(t, router, "/api/v1/books/main/ledger?clientId=c-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result bookkeeper.LedgerResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("expected 1 matching row, got %d", result.Total)
	}
}

func TestVoidEndpointNotFound(t *testing.T) {
	router, _ := newTestServer(t)

	rec := postJSON(t, router, "/api/v1/books/main/journals/"+bson.NewObjectID().Hex()+"/void", voidRequest{})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown journal, got %d", rec.Code)
	}

	rec = postJSON(t, router, "/api/v1/books/main/journals/not-an-id/void", voidRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	rec := get(t, router, "/health")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", bookkeeper.ErrJournalNotFound, http.StatusNotFound},
		{"already voided", bookkeeper.ErrJournalAlreadyVoided, http.StatusConflict},
		{"session required", bookkeeper.ErrSessionRequired, http.StatusBadRequest},
		{"empty entry", bookkeeper.ErrEmptyEntry, http.StatusBadRequest},
		{"unbalanced", &bookkeeper.UnbalancedError{Total: 1}, http.StatusBadRequest},
		{"account depth", &bookkeeper.AccountPathError{Account: "a:b:c:d", MaxDepth: 3}, http.StatusBadRequest},
		{"consistency", &bookkeeper.ConsistencyError{Op: "void", Reason: "races"}, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
