package analytics

import (
	"context"
	"time"

	"github.com/dbsmedya/locmatrix/internal/matrix"
	"github.com/dbsmedya/locmatrix/internal/metrics"
)

// Prometheus forwards fetch counts and the cache hit rate to metrics
// collectors. Session fields have no metric and are ignored.
type Prometheus struct {
	metrics *metrics.Metrics
}

// NewPrometheus creates a reporter backed by m.
func NewPrometheus(m *metrics.Metrics) *Prometheus {
	return &Prometheus{metrics: m}
}

func (p *Prometheus) LogEntity(kind Kind)             { p.metrics.IncRecordsFetched(string(kind)) }
func (p *Prometheus) LogCacheHitRate(percent float64) { p.metrics.SetCacheHitRate(percent) }
func (p *Prometheus) LogContentType(string)           {}
func (p *Prometheus) LogUser(string)                  {}
func (p *Prometheus) LogRows(int)                     {}
func (p *Prometheus) LogLoadingTime(time.Duration)    {}
func (p *Prometheus) LogError(error)                  {}
func (p *Prometheus) LogFilters(matrix.Filters)       {}
func (p *Prometheus) Send(context.Context)            {}

// Multi fans every call out to several reporters in order.
type Multi []Reporter

// NewMulti drops nil reporters.
func NewMulti(reporters ...Reporter) Multi {
	out := make(Multi, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m Multi) LogEntity(kind Kind) {
	for _, r := range m {
		r.LogEntity(kind)
	}
}

func (m Multi) LogCacheHitRate(percent float64) {
	for _, r := range m {
		r.LogCacheHitRate(percent)
	}
}

func (m Multi) LogContentType(id string) {
	for _, r := range m {
		r.LogContentType(id)
	}
}

func (m Multi) LogUser(id string) {
	for _, r := range m {
		r.LogUser(id)
	}
}

func (m Multi) LogRows(count int) {
	for _, r := range m {
		r.LogRows(count)
	}
}

func (m Multi) LogLoadingTime(elapsed time.Duration) {
	for _, r := range m {
		r.LogLoadingTime(elapsed)
	}
}

func (m Multi) LogError(err error) {
	for _, r := range m {
		r.LogError(err)
	}
}

func (m Multi) LogFilters(filters matrix.Filters) {
	for _, r := range m {
		r.LogFilters(filters)
	}
}

func (m Multi) Send(ctx context.Context) {
	for _, r := range m {
		r.Send(ctx)
	}
}

var (
	_ Reporter = (*Collector)(nil)
	_ Reporter = (*Void)(nil)
	_ Reporter = (*Prometheus)(nil)
	_ Reporter = Multi(nil)
)
