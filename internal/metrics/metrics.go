// Package metrics implements the observability hooks with Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/ifctree/pkg/observability"
)

const namespace = "ifctree"

// Metrics holds the collectors and implements every hook interface of
// package observability.
type Metrics struct {
	registry *prometheus.Registry

	materializations *prometheus.CounterVec
	duration         prometheus.Histogram
	selected         prometheus.Histogram
	memo             *prometheus.CounterVec
	memoResets       prometheus.Counter
	anomalies        *prometheus.CounterVec

	cache      *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	sessions prometheus.Gauge
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		materializations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "materializations_total",
			Help:      "Materialize calls by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "materialize_duration_seconds",
			Help:      "Latency of Materialize calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		selected: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_handles",
			Help:      "Number of handles per selection.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		memo: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memo_lookups_total",
			Help:      "Row memo lookups by result.",
		}, []string{"result"}),
		memoResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memo_resets_total",
			Help:      "Memo clears caused by empty selections.",
		}),
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_anomalies_total",
			Help:      "Missing entities and cycles recovered during traversal.",
		}, []string{"kind"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache operations by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Live viewer sessions.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.materializations, m.duration, m.selected, m.memo, m.memoResets, m.anomalies,
		m.cache, m.cacheBytes,
		m.requests, m.latency,
		m.sessions,
	)
	return m
}

// Register installs m as the process-wide hook implementation.
func (m *Metrics) Register() {
	observability.SetMaterializeHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// SetSessions records the number of live sessions.
func (m *Metrics) SetSessions(n int) { m.sessions.Set(float64(n)) }

func (m *Metrics) OnMaterializeStart(_ context.Context, _, handles int) {
	m.selected.Observe(float64(handles))
}

func (m *Metrics) OnMaterializeComplete(_ context.Context, _ int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.materializations.WithLabelValues(status).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *Metrics) OnMemoHit(context.Context, string)  { m.memo.WithLabelValues("hit").Inc() }
func (m *Metrics) OnMemoMiss(context.Context, string) { m.memo.WithLabelValues("miss").Inc() }
func (m *Metrics) OnMemoReset(context.Context)        { m.memoResets.Inc() }

func (m *Metrics) OnEntityMissing(context.Context, string, uint32) {
	m.anomalies.WithLabelValues("missing_entity").Inc()
}

func (m *Metrics) OnCycleDetected(context.Context, string, uint32) {
	m.anomalies.WithLabelValues("cycle").Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cache.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cache.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cache.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.MaterializeHooks = (*Metrics)(nil)
	_ observability.CacheHooks       = (*Metrics)(nil)
	_ observability.HTTPHooks        = (*Metrics)(nil)
)
