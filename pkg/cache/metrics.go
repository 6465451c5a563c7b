package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the cache counters. A nil *Metrics is valid and records
// nothing, so callers without a registry pay nothing.
type Metrics struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	invalidations prometheus.Counter
}

// NewMetrics registers the cache counters with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "foundry_cache_hits_total",
			Help: "Artifact cache hits (fresh entry served).",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "foundry_cache_misses_total",
			Help: "Artifact cache misses (entry compiled or refreshed).",
		}),
		invalidations: factory.NewCounter(prometheus.CounterOpts{
			Name: "foundry_cache_invalidations_total",
			Help: "Artifact cache entries dropped.",
		}),
	}
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *Metrics) invalidation() {
	if m != nil {
		m.invalidations.Inc()
	}
}
