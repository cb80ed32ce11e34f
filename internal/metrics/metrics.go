// Package metrics defines the Prometheus collectors served on /metrics.
//
// Naming follows Prometheus conventions: phonedesk_ prefix, _total for counters,
// _seconds for duration histograms.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector of this service.
var Registry = prometheus.NewRegistry()

var (
	// HTTPRequestsTotal counts requests by method, route template and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonedesk_http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "phonedesk_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// LedgerImportsTotal counts ledger imports by source (file, rows, google_sheets) and result.
	LedgerImportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonedesk_ledger_imports_total",
			Help: "Ledger imports by source and result.",
		},
		[]string{"source", "result"},
	)

	LedgerRowsImportedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonedesk_ledger_rows_imported_total",
			Help: "Report entries inserted by ledger imports.",
		},
		[]string{"source"},
	)

	// ConsultationMovesTotal counts move-to-report attempts by result.
	ConsultationMovesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonedesk_consultation_moves_total",
			Help: "Consultation to report moves by result.",
		},
		[]string{"result"},
	)

	// MaintenanceRemovedTotal counts rows removed by maintenance jobs.
	MaintenanceRemovedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonedesk_maintenance_removed_total",
			Help: "Rows removed by scheduled maintenance jobs.",
		},
		[]string{"job"},
	)

	MaintenanceRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonedesk_maintenance_runs_total",
			Help: "Scheduled maintenance job runs by job and result.",
		},
		[]string{"job", "result"},
	)
)

// Result labels.
const (
	ResultSuccess   = "success"
	ResultError     = "error"
	ResultConflict  = "conflict"
	ResultDuplicate = "duplicate"
	ResultRejected  = "rejected"
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		LedgerImportsTotal,
		LedgerRowsImportedTotal,
		ConsultationMovesTotal,
		MaintenanceRemovedTotal,
		MaintenanceRunsTotal,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordImport(source, result string, rows int) {
	LedgerImportsTotal.WithLabelValues(source, result).Inc()
	if rows > 0 {
		LedgerRowsImportedTotal.WithLabelValues(source).Add(float64(rows))
	}
}

func RecordMove(result string) {
	ConsultationMovesTotal.WithLabelValues(result).Inc()
}

func RecordMaintenance(job string, removed int64, err error) {
	if err != nil {
		MaintenanceRunsTotal.WithLabelValues(job, ResultError).Inc()
		return
	}
	MaintenanceRunsTotal.WithLabelValues(job, ResultSuccess).Inc()
	if removed > 0 {
		MaintenanceRemovedTotal.WithLabelValues(job).Add(float64(removed))
	}
}
