// Package metrics holds the Prometheus instrumentation for the ledger core.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	EntriesCommitted prometheus.Counter
	CommitFailures   *prometheus.CounterVec
	JournalsVoided   prometheus.Counter

	SnapshotHits      prometheus.Counter
	SnapshotMisses    prometheus.Counter
	SnapshotRefreshes prometheus.Counter
	RefreshFailures   prometheus.Counter

	BalanceDuration prometheus.Histogram
}

var (
	once sync.Once
	def  *Metrics
)

// Default returns the process-wide metrics set, registering it on first use.
func Default() *Metrics {
	once.Do(func() {
		def = &Metrics{
			EntriesCommitted: promauto.NewCounter(prometheus.CounterOpts{
				Name: "bookkeeper_entries_committed_total",
				Help: "Total number of journal entries committed",
			}),
			CommitFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "bookkeeper_commit_failures_total",
					Help: "Total number of failed commits by reason",
				},
				[]string{"reason"},
			),
			JournalsVoided: promauto.NewCounter(prometheus.CounterOpts{
				Name: "bookkeeper_journals_voided_total",
				Help: "Total number of journals voided",
			}),
			SnapshotHits: promauto.NewCounter(prometheus.CounterOpts{
				Name: "bookkeeper_balance_snapshot_hits_total",
				Help: "Balance queries answered incrementally from a snapshot",
			}),
			SnapshotMisses: promauto.NewCounter(prometheus.CounterOpts{
				Name: "bookkeeper_balance_snapshot_misses_total",
				Help: "Balance queries aggregated from scratch",
			}),
			SnapshotRefreshes: promauto.NewCounter(prometheus.CounterOpts{
				Name: "bookkeeper_balance_snapshot_refreshes_total",
				Help: "Background snapshot refreshes started",
			}),
			RefreshFailures: promauto.NewCounter(prometheus.CounterOpts{
				Name: "bookkeeper_balance_snapshot_refresh_failures_total",
				Help: "Background snapshot refreshes that failed",
			}),
			BalanceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "bookkeeper_balance_duration_seconds",
				Help:    "Duration of balance queries",
				Buckets: prometheus.DefBuckets,
			}),
		}
	})
	return def
}
