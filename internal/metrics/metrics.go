// Package metrics exposes Prometheus collectors for crawl activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Crawl outcomes used as the status label of CrawlsTotal.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RecordsFetched *prometheus.CounterVec
	CacheHitRate   prometheus.Gauge
	CrawlsTotal    *prometheus.CounterVec
	CrawlDuration  prometheus.Histogram
	MatrixRows     prometheus.Gauge
}

// New registers the collectors on reg. Passing prometheus.DefaultRegisterer
// exposes them through promhttp.Handler; tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RecordsFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "locmatrix_records_fetched_total",
			Help: "The total number of records fetched from the record store, by kind.",
		}, []string{"kind"}),
		CacheHitRate: factory.NewGauge(prometheus.GaugeOpts{
			Name: "locmatrix_cache_hit_rate_percent",
			Help: "Cache hit rate of the most recent crawl, in percent.",
		}),
		CrawlsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "locmatrix_crawls_total",
			Help: "The total number of crawls, by outcome.",
		}, []string{"status"}),
		CrawlDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "locmatrix_crawl_duration_seconds",
			Help:    "Duration of crawl operations.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		MatrixRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "locmatrix_matrix_rows",
			Help: "Number of rows produced by the most recent successful crawl.",
		}),
	}
}

// IncRecordsFetched counts one real fetch of the given record kind.
func (m *Metrics) IncRecordsFetched(kind string) {
	if m == nil {
		return
	}
	m.RecordsFetched.WithLabelValues(kind).Inc()
}

// SetCacheHitRate records the hit rate of a finished crawl.
func (m *Metrics) SetCacheHitRate(percent float64) {
	if m == nil {
		return
	}
	m.CacheHitRate.Set(percent)
}

// ObserveCrawl records the outcome of one crawl. rows is ignored for failures.
func (m *Metrics) ObserveCrawl(status string, elapsed time.Duration, rows int) {
	if m == nil {
		return
	}
	m.CrawlsTotal.WithLabelValues(status).Inc()
	m.CrawlDuration.Observe(elapsed.Seconds())
	if status == StatusSuccess {
		m.MatrixRows.Set(float64(rows))
	}
}
