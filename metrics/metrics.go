// Package metrics exposes the service's prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CRMFetches counts upstream CRM API calls by endpoint and outcome.
	CRMFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "funnelboard_crm_fetches_total",
		Help: "CRM API fetches by endpoint path and outcome",
	}, []string{"path", "outcome"})

	// CRMFetchDuration tracks upstream latency per endpoint.
	CRMFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "funnelboard_crm_fetch_duration_seconds",
		Help:    "CRM API fetch duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	// ClassifierRuns counts funnel classifications by channel and variant.
	ClassifierRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "funnelboard_classifier_runs_total",
		Help: "Funnel classifier runs by channel and schema variant",
	}, []string{"channel", "variant"})

	// CacheHits and CacheMisses track the performance cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funnelboard_cache_hits_total",
		Help: "Performance cache hits",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funnelboard_cache_misses_total",
		Help: "Performance cache misses",
	})

	// SnapshotRuns counts snapshot worker sweeps by outcome.
	SnapshotRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "funnelboard_snapshot_runs_total",
		Help: "Snapshot worker sweeps by outcome",
	}, []string{"outcome"})
)
