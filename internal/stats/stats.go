package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FetchMetrics collects per-fetch counters for the GET-record engine.
type FetchMetrics struct {
	outcomes   *prometheus.CounterVec
	earlyExits prometheus.Counter
	inflight   prometheus.Gauge
	duration   prometheus.Histogram
}

// NewFetchMetrics builds the collector set and registers it with reg
// when reg is non-nil.
func NewFetchMetrics(reg prometheus.Registerer) *FetchMetrics {
	m := &FetchMetrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autonomi_fetch_outcomes_total",
			Help: "Terminal fetch outcomes by kind.",
		}, []string{"outcome"}),
		earlyExits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autonomi_fetch_early_exits_total",
			Help: "Fetches resolved by the self-verifying chunk fast path.",
		}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "autonomi_fetch_inflight",
			Help: "Currently pending GET-record queries.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "autonomi_fetch_duration_seconds",
			Help:    "Time from registration to terminal delivery.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.outcomes, m.earlyExits, m.inflight, m.duration)
	}
	return m
}

// QueryStarted records a newly registered fetch.
func (m *FetchMetrics) QueryStarted() {
	if m == nil {
		return
	}
	m.inflight.Inc()
}

// QueryResolved records a terminal delivery with its outcome label and
// the time the query spent pending.
func (m *FetchMetrics) QueryResolved(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.inflight.Dec()
	m.outcomes.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}

// EarlyExit records a fetch resolved by the chunk fast path.
func (m *FetchMetrics) EarlyExit() {
	if m == nil {
		return
	}
	m.earlyExits.Inc()
}
