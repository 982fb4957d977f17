package provider

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks page requests by provider and outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_provider_requests_total",
			Help: "Total number of provider page requests",
		},
		[]string{"provider", "outcome"},
	)

	// RequestDurationSeconds tracks page request latency per provider.
	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resolver_provider_request_duration_seconds",
			Help:    "Duration of provider page requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// RecordsFetchedTotal tracks raw records returned per provider.
	RecordsFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_provider_records_fetched_total",
			Help: "Total number of raw transaction records fetched",
		},
		[]string{"provider"},
	)
)
