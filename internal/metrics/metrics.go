// Package metrics holds the service's prometheus collectors. Counters are
// registered once at package init and shared across adapters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts cache hits partitioned by the tier that served them.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "embed_cache_hits_total",
		Help: "Cache hits by tier",
	}, []string{"tier"})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "embed_cache_misses_total",
		Help: "Requests not satisfied by any cache tier",
	})

	// PrimaryFailures counts absorbed primary-store errors. These never
	// surface to callers, so the counter is the main operational signal for
	// a degraded primary.
	PrimaryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "embed_cache_primary_failures_total",
		Help: "Primary cache errors absorbed by the fallback path",
	})

	UpstreamFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "embed_upstream_fetches_total",
		Help: "Upstream oEmbed fetches by outcome",
	}, []string{"outcome"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "embed_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter",
	})
)
