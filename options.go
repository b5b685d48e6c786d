package bookkeeper

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultPrecision        = 8
	defaultMaxAccountPath   = 3
	defaultSnapshotInterval = 24 * time.Hour
)

type bookConfig struct {
	precision        int
	maxAccountPath   int
	snapshotInterval time.Duration
	snapshotExpiry   time.Duration
	expirySet        bool
	logger           zerolog.Logger
}

// Option configures a Book.
type Option func(*bookConfig)

// WithPrecision sets the number of decimal digits every balance sum is
// rounded to. Zero gives integer-only accounting. Default 8.
func WithPrecision(digits int) Option {
	return func(c *bookConfig) { c.precision = digits }
}

// WithMaxAccountPath sets the maximum account path depth. Default 3.
func WithMaxAccountPath(depth int) Option {
	return func(c *bookConfig) { c.maxAccountPath = depth }
}

// WithSnapshotInterval sets how old a balance snapshot may grow before a
// background refresh is scheduled. Zero disables snapshotting entirely and
// every balance query aggregates from scratch. Default 24h.
func WithSnapshotInterval(d time.Duration) Option {
	return func(c *bookConfig) { c.snapshotInterval = d }
}

// WithSnapshotExpiry sets the TTL stamped onto snapshot documents.
// Default 2x the snapshot interval.
func WithSnapshotExpiry(d time.Duration) Option {
	return func(c *bookConfig) {
		c.snapshotExpiry = d
		c.expirySet = true
	}
}

// WithLogger sets the logger used for background refresh and compensation
// failures. Default is a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *bookConfig) { c.logger = l }
}

func (c *bookConfig) validate() error {
	if c.precision < 0 || c.precision > 15 {
		return &ConfigError{Option: "precision", Reason: "must be between 0 and 15"}
	}
	if c.maxAccountPath < 1 {
		return &ConfigError{Option: "maxAccountPath", Reason: "must be at least 1"}
	}
	if c.snapshotInterval < 0 {
		return &ConfigError{Option: "snapshotInterval", Reason: "must not be negative"}
	}
	if c.snapshotExpiry < 0 {
		return &ConfigError{Option: "snapshotExpiry", Reason: "must not be negative"}
	}
	if !c.expirySet {
		c.snapshotExpiry = 2 * c.snapshotInterval
	}
	return nil
}

type commitConfig struct {
	writeLocks []string
}

// CommitOption configures a single Entry.Commit call.
type CommitOption func(*commitConfig)

// WithWriteLocks touches the write-lock registry for the given accounts
// after the journal write, as the last statement of the commit. Requires a
// session context; Commit fails with ErrSessionRequired otherwise.
func WithWriteLocks(accounts ...string) CommitOption {
	return func(c *commitConfig) { c.writeLocks = append(c.writeLocks, accounts...) }
}

type entryConfig struct {
	datetime        time.Time
	originalJournal *Journal
}

// EntryOption configures a new Entry.
type EntryOption func(*entryConfig)

// WithDate sets the journal's logical datetime. Backdating is supported;
// the physical insert timestamp on each row is always the commit time.
func WithDate(t time.Time) EntryOption {
	return func(c *entryConfig) { c.datetime = t }
}

// WithOriginalJournal marks the entry as a reversal of the given journal.
func WithOriginalJournal(j *Journal) EntryOption {
	return func(c *entryConfig) { c.originalJournal = j }
}
