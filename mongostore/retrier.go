package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Retrier retries transaction bodies that fail with transient transaction
// errors, which is how the write-lock registry surfaces a detected conflict:
// the losing session aborts and must rerun its whole business transaction.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
}

// NewRetrier creates a retrier with default settings.
func NewRetrier(logger zerolog.Logger) *Retrier {
	return &Retrier{
		maxRetries:      3,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxElapsedTime:  10 * time.Second,
		logger:          logger,
	}
}

// Retry executes an operation with exponential backoff on retryable errors.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		r.logger.Warn().
			Err(err).
			Int("retry", retryCount).
			Msg("transient transaction error, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}

// IsRetryable reports whether an error is a transient transaction failure:
// a write conflict between sessions or an unknown commit result.
func IsRetryable(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorLabel("TransientTransactionError") ||
			se.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}

// WithTransaction runs fn inside a mongo session transaction, retrying the
// whole body on transient failures. The context passed to fn carries the
// session; every store call made with it participates in the transaction.
func (s *Store) WithTransaction(ctx context.Context, r *Retrier, fn func(ctx context.Context) error) error {
	return r.Retry(ctx, func() error {
		session, err := s.db.Client().StartSession()
		if err != nil {
			return err
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sc context.Context) (any, error) {
			return nil, fn(sc)
		})
		return err
	})
}
