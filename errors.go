package bookkeeper

import (
	"errors"
	"fmt"
)

var (
	// ErrJournalNotFound is returned by Book.Void when no journal with the
	// given id exists in the book.
	ErrJournalNotFound = errors.New("journal not found")

	// ErrJournalAlreadyVoided is returned by Book.Void for a journal that
	// was already voided. Voided is a terminal state.
	ErrJournalAlreadyVoided = errors.New("journal already voided")

	// ErrSessionRequired is returned when a write lock is requested outside
	// a transactional session context. The lock registry only detects
	// conflicts between transactions, so touching it outside one is
	// meaningless.
	ErrSessionRequired = errors.New("write lock requires a session context")

	// ErrEmptyEntry is returned by Entry.Commit when the entry holds no
	// credit or debit rows.
	ErrEmptyEntry = errors.New("entry has no transactions")
)

// ConfigError reports an invalid Book option.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid book option %s: %s", e.Option, e.Reason)
}

// AccountPathError reports an account path deeper than the book allows.
type AccountPathError struct {
	Account  string
	MaxDepth int
}

func (e *AccountPathError) Error() string {
	return fmt.Sprintf("account path %q exceeds maximum depth %d", e.Account, e.MaxDepth)
}

// UnbalancedError is returned by Entry.Commit when the rounded sum of
// credit-debit over the pending rows is nonzero. Total carries the offending
// sum so callers can report it without re-deriving.
type UnbalancedError struct {
	Total float64
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("journal is not balanced: total %v", e.Total)
}

// ConsistencyError signals that a commit or void step observed state the
// ledger invariants forbid, for example a journal whose recorded row count
// does not match the rows found, or a void racing with a concurrent void.
// The operation is aborted rather than proceeding with a corrupted reversal.
type ConsistencyError struct {
	Op     string
	Reason string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
