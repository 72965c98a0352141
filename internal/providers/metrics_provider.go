package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"brs/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	AddRecordsArchived(count int)
	AddArchiveFailures(count int)
	ObserveSweepDuration(duration time.Duration)
	ObserveCompressionRatio(ratio float64)
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	recordsArchived  prometheus.Counter
	archiveFailures  prometheus.Counter
	sweepDuration    prometheus.Histogram
	compressionRatio prometheus.Histogram
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

func (m *MetricsProvider) AddRecordsArchived(count int) {
	m.recordsArchived.Add(float64(count))
}

func (m *MetricsProvider) AddArchiveFailures(count int) {
	m.archiveFailures.Add(float64(count))
}

func (m *MetricsProvider) ObserveSweepDuration(duration time.Duration) {
	m.sweepDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveCompressionRatio(ratio float64) {
	m.compressionRatio.Observe(ratio)
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
			Name: "brs_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brs_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "brs_cache_hits_total",
			Help: "Total number of archive read cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "brs_cache_misses_total",
			Help: "Total number of archive read cache misses",
		}),

		recordsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "brs_records_archived_total",
			Help: "Total number of records migrated to cold storage",
		}),

		archiveFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "brs_archive_failures_total",
			Help: "Total number of records that failed to archive",
		}),

		sweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "brs_sweep_duration_seconds",
			Help:    "Duration of archival sweep runs in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		compressionRatio: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "brs_archive_compression_ratio",
			Help:    "Compressed-to-original size ratio of archived records",
			Buckets: []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.7, 0.9, 1, 1.2},
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) AddRecordsArchived(_ int)                          {}
func (n *noopMetrics) AddArchiveFailures(_ int)                          {}
func (n *noopMetrics) ObserveSweepDuration(_ time.Duration)              {}
func (n *noopMetrics) ObserveCompressionRatio(_ float64)                 {}
