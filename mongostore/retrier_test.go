package mongostore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iho/bookkeeper/mongostore"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "transient transaction error",
			err:  mongo.CommandError{Code: 112, Name: "WriteConflict", Labels: []string{"TransientTransactionError"}},
			want: true,
		},
		{
			name: "unknown commit result",
			err:  mongo.CommandError{Code: 50, Labels: []string{"UnknownTransactionCommitResult"}},
			want: true,
		},
		{
			name: "wrapped transient error",
			err:  errors.Join(errors.New("transaction body"), mongo.CommandError{Labels: []string{"TransientTransactionError"}}),
			want: true,
		},
		{
			name: "server error without labels",
			err:  mongo.CommandError{Code: 11000, Name: "DuplicateKey"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mongostore.IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := mongostore.NewRetrier(zerolog.Nop())

	calls := 0
	wantErr := errors.New("not retryable")
	err := r.Retry(context.Background(), func() error {
		calls++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("expected the permanent error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", calls)
	}
}

func TestRetrierRetriesTransientErrors(t *testing.T) {
	r := mongostore.NewRetrier(zerolog.Nop())

	calls := 0
	err := r.Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return mongo.CommandError{Labels: []string{"TransientTransactionError"}}
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected eventual success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	r := mongostore.NewRetrier(zerolog.Nop())

	calls := 0
	err := r.Retry(context.Background(), func() error {
		calls++
		return mongo.CommandError{Labels: []string{"TransientTransactionError"}}
	})

	if err == nil {
		t.Fatal("expected the transient error to surface after exhausting retries")
	}
	// 1 initial attempt plus 3 retries.
	if calls != 4 {
		t.Errorf("expected 4 attempts, got %d", calls)
	}
}
