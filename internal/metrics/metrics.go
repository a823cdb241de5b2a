// Package metrics exposes prometheus instruments for the import pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Row and job results used as label values.
const (
	ResultCommitted = "committed"
	ResultFailed    = "failed"
)

type metrics struct {
	rowsTotal *prometheus.CounterVec
	jobsTotal *prometheus.CounterVec

	rowLatency *prometheus.HistogramVec
	jobLatency *prometheus.HistogramVec

	jobsRunning  prometheus.Gauge
	queueDepth   prometheus.Gauge
	referenceLen *prometheus.GaugeVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		rowsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bulk_import",
			Name:      "rows_total",
			Help:      "Total number of spreadsheet rows processed.",
		}, []string{"result"}),
		jobsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bulk_import",
			Name:      "jobs_total",
			Help:      "Total number of import jobs that reached a terminal status.",
		}, []string{"status"}),
		rowLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bulk_import",
			Name:      "row_duration_seconds",
			Help:      "Latency distribution for processing one row.",
			Buckets: []float64{
				0.001, 0.002, 0.005,
				0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5,
			},
		}, []string{"result"}),
		jobLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bulk_import",
			Name:      "job_duration_seconds",
			Help:      "Latency distribution for whole import jobs.",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"status"}),
		jobsRunning: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "bulk_import",
			Name:      "jobs_running",
			Help:      "Current number of import jobs in progress.",
		}),
		queueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "bulk_import",
			Name:      "queue_depth",
			Help:      "Current number of import jobs waiting in the daemon queue.",
		}),
		referenceLen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "bulk_import",
			Name:      "reference_entries",
			Help:      "Entries loaded per reference domain by the most recent job.",
		}, []string{"domain"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

// RowProcessed records one finished row.
func RowProcessed(result string, d time.Duration) {
	m := getMetrics()
	m.rowsTotal.WithLabelValues(result).Inc()
	m.rowLatency.WithLabelValues(result).Observe(d.Seconds())
}

// JobStarted marks a job as running.
func JobStarted() {
	getMetrics().jobsRunning.Inc()
}

// JobFinished records a job's terminal status and duration.
func JobFinished(status string, d time.Duration) {
	m := getMetrics()
	m.jobsRunning.Dec()
	m.jobsTotal.WithLabelValues(status).Inc()
	m.jobLatency.WithLabelValues(status).Observe(d.Seconds())
}

// QueueDepth sets the number of queued daemon jobs.
func QueueDepth(n int) {
	getMetrics().queueDepth.Set(float64(n))
}

// ReferenceEntries records the size of one reference domain.
func ReferenceEntries(domain string, n int) {
	getMetrics().referenceLen.WithLabelValues(domain).Set(float64(n))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
