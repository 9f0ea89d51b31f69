package cache

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Snapshot is a point-in-time copy of the hit/miss counters.
type Snapshot struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Metrics counts lookups across every cache tier that shares it. Counters are
// cumulative for the life of the process and are never reset.
type Metrics struct {
	hits   atomic.Int64
	misses atomic.Int64

	hitsTotal   *prometheus.CounterVec
	missesTotal *prometheus.CounterVec
}

// NewMetrics creates shared counters and registers their Prometheus mirrors
// with reg. A nil reg keeps the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		hitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "comfort_cache_hits_total",
			Help: "Cache lookups served from a live entry.",
		}, []string{"tier"}),
		missesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "comfort_cache_misses_total",
			Help: "Cache lookups that had to load the value.",
		}, []string{"tier"}),
	}
}

func (m *Metrics) hit(tier string) {
	if m == nil {
		return
	}
	m.hits.Add(1)
	m.hitsTotal.WithLabelValues(tier).Inc()
}

func (m *Metrics) miss(tier string) {
	if m == nil {
		return
	}
	m.misses.Add(1)
	m.missesTotal.WithLabelValues(tier).Inc()
}

// Snapshot returns the current totals across all tiers.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
	}
}
