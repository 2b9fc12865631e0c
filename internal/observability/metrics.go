package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_report"

// Metrics holds the Prometheus counters, histograms, and gauges for the poller.
type Metrics struct {
	PollsTotal       prometheus.Counter
	PollErrors       prometheus.Counter
	RecordsMapped    prometheus.Counter
	RecordsPublished prometheus.Counter
	PipelineRunning  prometheus.Gauge
	PollDuration     prometheus.Histogram

	// Rows per magnitude bucket in the latest snapshot.
	SnapshotRows *prometheus.GaugeVec // labels: bucket

	// USGS feed client metrics.
	FetchRequests *prometheus.CounterVec // labels: outcome={success,error,status}
	FetchDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PollsTotal,
		m.PollErrors,
		m.RecordsMapped,
		m.RecordsPublished,
		m.PipelineRunning,
		m.PollDuration,
		m.SnapshotRows,
		m.FetchRequests,
		m.FetchDuration,
	)
	return m
}

// NewUnregisteredMetrics creates Metrics that are never exported, for
// one-shot commands with no /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PollsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Total feed poll cycles attempted.",
		}),
		PollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_errors_total",
			Help:      "Poll cycles that failed to fetch or publish.",
		}),
		RecordsMapped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_mapped_total",
			Help:      "Earthquake records mapped from feed payloads.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Presented rows written to the sink.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the poller is active, 0 when shut down.",
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of a complete fetch-map-publish cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SnapshotRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_rows",
			Help:      "Rows in the latest snapshot by magnitude bucket.",
		}, []string{"bucket"}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "USGS feed requests by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "USGS feed request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
	}
}
