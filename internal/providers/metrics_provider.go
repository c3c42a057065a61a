package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"guildstore/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncCacheInvalidations()
	ObservePersistenceDuration(duration time.Duration)
	IncOperations(operation, outcome string)
	AddPurged(storageKey string, count int)
}

// KeyTrackerInterface exposes the storage keys seen by the repository.
type KeyTrackerInterface interface {
	Keys() []string
}

// TypeListerInterface exposes the discriminators known to the type registry.
type TypeListerInterface interface {
	GetRegisteredTypes() []string
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	cacheInvalidations  prometheus.Counter
	persistenceDuration prometheus.Histogram
	operationsTotal     *prometheus.CounterVec
	purgedTotal         *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncCacheInvalidations() {
	m.cacheInvalidations.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncOperations(operation, outcome string) {
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *MetricsProvider) AddPurged(storageKey string, count int) {
	if count <= 0 {
		return
	}
	m.purgedTotal.WithLabelValues(storageKey).Add(float64(count))
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

func NewMetricsProvider(conf *structures.Config, tracker KeyTrackerInterface, types TypeListerInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guildstore_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guildstore_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guildstore_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guildstore_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		cacheInvalidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guildstore_cache_invalidations_total",
			Help: "Total number of cached guild lists dropped after a write",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "guildstore_persistence_duration_seconds",
			Help:    "Duration of document persist operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		operationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guildstore_repository_operations_total",
			Help: "Repository operations by outcome (ok, error, disabled)",
		}, []string{"operation", "outcome"}),

		purgedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guildstore_purged_items_total",
			Help: "Total number of stale records removed by purge",
		}, []string{"storage_key"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "guildstore_known_storage_keys",
		Help: "Number of storage keys touched since start",
	}, func() float64 {
		return float64(len(tracker.Keys()))
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "guildstore_registered_types",
		Help: "Number of registered record type handlers",
	}, func() float64 {
		return float64(len(types.GetRegisteredTypes()))
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncCacheInvalidations()                           {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncOperations(_, _ string)                        {}
func (n *noopMetrics) AddPurged(_ string, _ int)                        {}
