// Package metrics exposes Prometheus instrumentation for the price layer.
// All methods are safe on a nil *Metrics so components can run uninstrumented.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "stockwise"

// Metrics holds the collectors registered on a private registry
type Metrics struct {
	registry         *prometheus.Registry
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	lastKnownGood    prometheus.Counter
	providerFailures *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "price_cache",
			Name:      "hits_total",
			Help:      "Price lookups served from a fresh cache entry.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "price_cache",
			Name:      "misses_total",
			Help:      "Price lookups that went to the provider (missing or stale entry).",
		}),
		lastKnownGood: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "price_cache",
			Name:      "last_known_good_total",
			Help:      "Provider failures answered with a last-known-good price.",
		}),
		providerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "price_provider",
			Name:      "failures_total",
			Help:      "Per-symbol provider failures that degraded to a zero price.",
		}, []string{"provider"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "price_provider",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching a single symbol from the provider.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		}, []string{"provider"}),
	}

	m.registry.MustRegister(
		m.cacheHits,
		m.cacheMisses,
		m.lastKnownGood,
		m.providerFailures,
		m.providerLatency,
	)

	return m
}

// Registry returns the registry backing the /metrics endpoint
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// CacheHit records a fresh cache hit
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// CacheMiss records a lookup that required the provider
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// LastKnownGoodUsed records a failure answered from the last-known-good store
func (m *Metrics) LastKnownGoodUsed() {
	if m == nil {
		return
	}
	m.lastKnownGood.Inc()
}

// ProviderFailure records a failed symbol fetch
func (m *Metrics) ProviderFailure(provider string) {
	if m == nil {
		return
	}
	m.providerFailures.WithLabelValues(provider).Inc()
}

// ObserveProviderLatency records how long a single-symbol fetch took
func (m *Metrics) ObserveProviderLatency(provider string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerLatency.WithLabelValues(provider).Observe(d.Seconds())
}
