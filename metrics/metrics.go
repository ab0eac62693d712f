// Package metrics exposes Prometheus counters for remote calls, caches and
// skipped work. A nil *Manager is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	remoteCalls     *prometheus.CounterVec
	remoteFailures  *prometheus.CounterVec
	remoteLatency   *prometheus.HistogramVec
	throttleWait    prometheus.Histogram
	datasetCache    *prometheus.CounterVec
	identitySources *prometheus.CounterVec
	skipped         *prometheus.CounterVec
	rowsCollected   *prometheus.CounterVec
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "nbacorpus",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(collectors.NewGoCollector())
	}

	m.remoteCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "remote",
		Name:      "calls_total",
		Help:      "Remote stats API calls by endpoint.",
	}, []string{"endpoint"})
	m.remoteFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "remote",
		Name:      "failures_total",
		Help:      "Remote stats API calls that failed, by endpoint.",
	}, []string{"endpoint"})
	m.remoteLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "remote",
		Name:      "call_duration_seconds",
		Help:      "Remote stats API call latency.",
		Buckets:   m.buckets,
	}, []string{"endpoint"})
	m.throttleWait = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "throttle",
		Name:      "wait_seconds",
		Help:      "Time spent waiting on rate-limit gates.",
		Buckets:   m.buckets,
	})
	m.datasetCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "dataset",
		Name:      "cache_lookups_total",
		Help:      "Season dataset cache lookups by result (hit, miss, error).",
	}, []string{"result"})
	m.identitySources = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "identity",
		Name:      "resolutions_total",
		Help:      "Player identity resolutions by source (explicit, local, remote, not_found).",
	}, []string{"source"})
	m.skipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "skipped_total",
		Help:      "Units of batch work skipped after a failure, by kind (player, season).",
	}, []string{"kind"})
	m.rowsCollected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "rows_total",
		Help:      "Game log rows collected, by season.",
	}, []string{"season"})

	m.registry.MustRegister(
		m.remoteCalls,
		m.remoteFailures,
		m.remoteLatency,
		m.throttleWait,
		m.datasetCache,
		m.identitySources,
		m.skipped,
		m.rowsCollected,
	)
	return m
}

func (m *Manager) RemoteCall(endpoint string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.remoteCalls.WithLabelValues(endpoint).Inc()
	m.remoteLatency.WithLabelValues(endpoint).Observe(d.Seconds())
	if err != nil {
		m.remoteFailures.WithLabelValues(endpoint).Inc()
	}
}

func (m *Manager) ThrottleWait(d time.Duration) {
	if m == nil {
		return
	}
	m.throttleWait.Observe(d.Seconds())
}

func (m *Manager) DatasetCache(result string) {
	if m == nil {
		return
	}
	m.datasetCache.WithLabelValues(result).Inc()
}

func (m *Manager) IdentityResolved(source string) {
	if m == nil {
		return
	}
	m.identitySources.WithLabelValues(source).Inc()
}

func (m *Manager) Skipped(kind string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(kind).Inc()
}

func (m *Manager) RowsCollected(season string, n int) {
	if m == nil {
		return
	}
	m.rowsCollected.WithLabelValues(season).Add(float64(n))
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the manager's registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
