// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedgen_rows_processed_total",
			Help: "Total number of feed rows processed, by result status",
		},
		[]string{"status"},
	)

	RowsAutoApproved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedgen_rows_auto_approved_total",
			Help: "Total number of generated rows approved without review",
		},
	)

	RowDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedgen_row_duration_seconds",
			Help:    "Duration of processing a single feed row in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
	)

	ModelCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedgen_model_calls_total",
			Help: "Total number of language model calls, by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	RateLimitWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedgen_rate_limit_waits_total",
			Help: "Total number of fixed-delay waits after a provider rate limit",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedgen_cache_lookups_total",
			Help: "Total number of page cache lookups, by result",
		},
		[]string{"result"},
	)

	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedgen_exports_total",
			Help: "Total number of exports, by outcome",
		},
		[]string{"outcome"},
	)

	RunsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedgen_runs_active",
			Help: "Number of generation runs currently in progress",
		},
	)
)

// Model call outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeBlocked     = "blocked"
	OutcomeError       = "error"
)
