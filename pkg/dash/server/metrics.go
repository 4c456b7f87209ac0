package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/komsit37/tickerdash/pkg/dash/pipeline"
)

// Metrics are the dashboard request counters exposed on /metrics.
type Metrics struct {
	Requests      *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	NoData        prometheus.Counter
}

// NewMetrics registers the dashboard metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickerdash_requests_total",
				Help: "Dashboard requests by outcome",
			},
			[]string{"status"},
		),
		FetchDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tickerdash_fetch_duration_seconds",
				Help:    "Time to fetch quote and history for one request",
				Buckets: prometheus.DefBuckets,
			}),
		NoData: f.NewCounter(
			prometheus.CounterOpts{
				Name: "tickerdash_no_data_total",
				Help: "Requests that returned no price history",
			}),
	}
}

// Observe records one finished request.
func (m *Metrics) Observe(res pipeline.Result) {
	m.Requests.WithLabelValues(res.Status.String()).Inc()
	if res.Status == pipeline.StatusInvalidInput {
		return
	}
	m.FetchDuration.Observe(res.Elapsed.Seconds())
	if res.OK() && res.Dashboard.Chart == nil {
		m.NoData.Inc()
	}
}
