package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolutionsTotal tracks resolution runs by outcome.
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_resolutions_total",
			Help: "Total number of competition resolutions",
		},
		[]string{"outcome"},
	)

	// ResolutionDurationSeconds tracks end-to-end resolution latency.
	ResolutionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "resolver_resolution_duration_seconds",
		Help:    "Duration of full competition resolutions",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})
)
