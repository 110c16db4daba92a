package providers

import (
	"emd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncUpstreamRequests(endpoint string, status int)
	ObserveUpstreamDuration(endpoint string, duration time.Duration)
	IncUpstreamRetries(name string)
	IncRefreshes()
	IncStaleDiscards()
	IncCacheHits()
	IncCacheMisses()
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamRetries  *prometheus.CounterVec
	refreshes        prometheus.Counter
	staleDiscards    prometheus.Counter
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncUpstreamRequests(endpoint string, status int) {
	m.upstreamTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveUpstreamDuration(endpoint string, duration time.Duration) {
	m.upstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncUpstreamRetries(name string) {
	m.upstreamRetries.WithLabelValues(name).Inc()
}

func (m *MetricsProvider) IncRefreshes() {
	m.refreshes.Inc()
}

func (m *MetricsProvider) IncStaleDiscards() {
	m.staleDiscards.Inc()
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "emd_requests_total",
			Help: "Total number of served HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "emd_request_duration_seconds",
			Help:    "Served HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		upstreamTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "emd_upstream_requests_total",
			Help: "Total number of requests issued to the email backend",
		}, []string{"endpoint", "status"}),

		upstreamDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "emd_upstream_request_duration_seconds",
			Help:    "Email backend request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		upstreamRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "emd_upstream_retries_total",
			Help: "Total number of bootstrap call retries",
		}, []string{"call"}),

		refreshes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "emd_refresh_total",
			Help: "Total number of dashboard refresh cycles issued",
		}),

		staleDiscards: promauto.NewCounter(prometheus.CounterOpts{
			Name: "emd_stale_responses_discarded_total",
			Help: "Responses discarded because a newer refresh superseded them",
		}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "emd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "emd_cache_misses_total",
			Help: "Total number of cache misses",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncUpstreamRequests(_ string, _ int)               {}
func (n *noopMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncUpstreamRetries(_ string)                       {}
func (n *noopMetrics) IncRefreshes()                                     {}
func (n *noopMetrics) IncStaleDiscards()                                 {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
