package fetcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesFetchedTotal tracks non-empty pages consumed per provider.
	PagesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_fetcher_pages_total",
			Help: "Total number of non-empty transaction pages fetched",
		},
		[]string{"provider"},
	)

	// RetriesTotal tracks page request retries per provider.
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_fetcher_retries_total",
			Help: "Total number of page request retries",
		},
		[]string{"provider"},
	)

	// FallbacksTotal counts primary-to-secondary provider fallbacks.
	FallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resolver_fetcher_fallbacks_total",
		Help: "Total number of fallbacks to the secondary provider",
	})

	// TransfersCollectedTotal tracks normalized in-window transfers.
	TransfersCollectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_fetcher_transfers_collected_total",
			Help: "Total number of canonical transfers collected",
		},
		[]string{"provider"},
	)

	// FetchDurationSeconds tracks full per-wallet fetch duration.
	FetchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resolver_fetcher_duration_seconds",
			Help:    "Duration of per-wallet transfer collection",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"provider"},
	)
)
