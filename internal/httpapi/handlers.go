package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iho/bookkeeper"
)

// Handler serves ledger operations over HTTP. Books are resolved per
// request by name, all sharing one store.
type Handler struct {
	books func(name string) (*bookkeeper.Book, error)
}

// NewHandler creates a Handler around a book factory.
func NewHandler(books func(name string) (*bookkeeper.Book, error)) *Handler {
	return &Handler{books: books}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type entryLeg struct {
	Account string         `json:"account"`
	Credit  float64        `json:"credit,omitempty"`
	Debit   float64        `json:"debit,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type postEntryRequest struct {
	Memo     string     `json:"memo"`
	Date     *time.Time `json:"date,omitempty"`
	Approved bool       `json:"approved"`
	Legs     []entryLeg `json:"legs"`
}

type voidRequest struct {
	Reason string `json:"reason,omitempty"`
}

// PostEntry commits one balanced journal entry.
func (h *Handler) PostEntry(w http.ResponseWriter, r *http.Request) {
	book, ok := h.book(w, r)
	if !ok {
		return
	}

	var req postEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(req.Legs) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request body", "entry needs at least one leg")
		return
	}

	var opts []bookkeeper.EntryOption
	if req.Date != nil {
		opts = append(opts, bookkeeper.WithDate(*req.Date))
	}

	entry := book.Entry(req.Memo, opts...).SetApproved(req.Approved)
	for _, leg := range req.Legs {
		if leg.Credit != 0 {
			entry.Credit(leg.Account, leg.Credit, leg.Meta)
		} else {
			entry.Debit(leg.Account, leg.Debit, leg.Meta)
		}
	}

	journal, err := entry.Commit(r.Context())
	if err != nil {
		writeError(w, statusFor(err), "commit failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, journal)
}

// Balance answers a balance query.
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	book, ok := h.book(w, r)
	if !ok {
		return
	}

	result, err := book.Balance(r.Context(), queryFrom(r))
	if err != nil {
		writeError(w, statusFor(err), "balance failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Ledger lists transaction rows.
func (h *Handler) Ledger(w http.ResponseWriter, r *http.Request) {
	book, ok := h.book(w, r)
	if !ok {
		return
	}

	result, err := book.Ledger(r.Context(), queryFrom(r))
	if err != nil {
		writeError(w, statusFor(err), "ledger failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Void reverses a committed journal.
func (h *Handler) Void(w http.ResponseWriter, r *http.Request) {
	book, ok := h.book(w, r)
	if !ok {
		return
	}

	journalID, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid journal id", err.Error())
		return
	}

	var req voidRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	reversal, err := book.Void(r.Context(), journalID, req.Reason)
	if err != nil {
		writeError(w, statusFor(err), "void failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reversal)
}

// Accounts lists every account prefix used in the book.
func (h *Handler) Accounts(w http.ResponseWriter, r *http.Request) {
	book, ok := h.book(w, r)
	if !ok {
		return
	}

	accounts, err := book.ListAccounts(r.Context())
	if err != nil {
		writeError(w, statusFor(err), "list accounts failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (h *Handler) book(w http.ResponseWriter, r *http.Request) (*bookkeeper.Book, bool) {
	book, err := h.books(chi.URLParam(r, "book"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book", err.Error())
		return nil, false
	}
	return book, true
}

// queryFrom builds a ledger query from URL parameters. Unknown parameters
// become filter conditions, so metadata filtering works straight from the
// query string.
func queryFrom(r *http.Request) bookkeeper.Query {
	values := r.URL.Query()
	q := bookkeeper.Query{}

	if accounts, ok := values["account"]; ok {
		if len(accounts) == 1 {
			q.Account = accounts[0]
		} else {
			q.Account = accounts
		}
	}
	if v := values.Get("start_date"); v != "" {
		q.StartDate = v
	}
	if v := values.Get("end_date"); v != "" {
		q.EndDate = v
	}
	q.Page, _ = strconv.Atoi(values.Get("page"))
	q.PerPage, _ = strconv.Atoi(values.Get("per_page"))

	for key, vals := range values {
		switch key {
		case "account", "start_date", "end_date", "page", "per_page":
			continue
		}
		if len(vals) > 0 {
			if q.Filter == nil {
				q.Filter = make(map[string]any)
			}
			q.Filter[key] = vals[0]
		}
	}
	return q
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Message: details})
}

// statusFor maps ledger errors to HTTP status codes.
func statusFor(err error) int {
	var (
		unbalanced  *bookkeeper.UnbalancedError
		accountPath *bookkeeper.AccountPathError
		consistency *bookkeeper.ConsistencyError
	)
	switch {
	case errors.Is(err, bookkeeper.ErrJournalNotFound):
		return http.StatusNotFound
	case errors.Is(err, bookkeeper.ErrJournalAlreadyVoided):
		return http.StatusConflict
	case errors.Is(err, bookkeeper.ErrSessionRequired):
		return http.StatusBadRequest
	case errors.Is(err, bookkeeper.ErrEmptyEntry):
		return http.StatusBadRequest
	case errors.As(err, &unbalanced), errors.As(err, &accountPath):
		return http.StatusBadRequest
	case errors.As(err, &consistency):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
