package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	reportRequestsTotal   *prometheus.CounterVec
	reportLatencySeconds  *prometheus.HistogramVec
	reportErrorsTotal     *prometheus.CounterVec
	renderDurationSeconds *prometheus.HistogramVec
	reportRows            prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors for report observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		reportRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_requests_total",
			Help: "Total number of report requests served.",
		}, []string{"method", "route", "status"})

		reportLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "report_latency_seconds",
			Help:    "Latency distribution for report requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		reportErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "report_errors_total",
			Help: "Total number of error responses returned by report endpoints.",
		}, []string{"method", "route", "status"})

		renderDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "report_render_duration_seconds",
			Help:    "Time spent rendering a report into one output format.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}, []string{"format"})

		reportRows = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "report_rows",
			Help:    "Row count distribution of generated reports.",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000},
		})

		prometheus.MustRegister(reportRequestsTotal, reportLatencySeconds, reportErrorsTotal, renderDurationSeconds, reportRows)
	})
}

// ReportRequests exposes the counter for report requests.
func ReportRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return reportRequestsTotal
}

// ReportLatency exposes the latency histogram for report requests.
func ReportLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return reportLatencySeconds
}

// ReportErrors exposes the counter for report error responses.
func ReportErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return reportErrorsTotal
}

// RenderDuration exposes the per-format render duration histogram.
func RenderDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return renderDurationSeconds
}

// ReportRows exposes the generated row count histogram.
func ReportRows() prometheus.Histogram {
	RegisterMetrics()
	return reportRows
}
