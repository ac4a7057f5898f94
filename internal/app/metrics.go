package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	registry        *prometheus.Registry
	fetchCache      *prometheus.CounterVec
	upstreamErrors  prometheus.Counter
	searchCache     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogstats_fetch_cache_total",
			Help: "Fetch cache lookups by result.",
		}, []string{"result"}),
		upstreamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogstats_upstream_errors_total",
			Help: "Failed upstream blog fetches.",
		}),
		searchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogstats_search_cache_total",
			Help: "Search cache lookups by result.",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blogstats_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "code"}),
	}
	m.registry.MustRegister(
		m.fetchCache,
		m.upstreamErrors,
		m.searchCache,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) fetchLookup(hit bool) {
	if m != nil {
		m.fetchCache.WithLabelValues(result(hit)).Inc()
	}
}

func (m *Metrics) upstreamError() {
	if m != nil {
		m.upstreamErrors.Inc()
	}
}

func (m *Metrics) searchLookup(hit bool) {
	if m != nil {
		m.searchCache.WithLabelValues(result(hit)).Inc()
	}
}

func (m *Metrics) observeRequest(path string, code int, d time.Duration) {
	if m != nil {
		m.requestDuration.WithLabelValues(routeLabel(path), strconv.Itoa(code)).Observe(d.Seconds())
	}
}

func result(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// routeLabel keeps the path label bounded to known routes.
func routeLabel(path string) string {
	switch path {
	case "/api/blog-stats", "/api/blog-search", "/api/blog-feed", "/health", "/metrics":
		return path
	}
	return "other"
}
