package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "ioforge_"

	resultSuccess = "success"
	resultError   = "error"

	assignOutcomeAssigned = "assigned"
	assignOutcomeRejected = "rejected"
	assignOutcomeError    = "error"

	assignModeManual = "manual"
	assignModeAuto   = "auto"
)

var (
	registerOnce sync.Once

	assignTotal   *prometheus.CounterVec
	assignLatency *prometheus.HistogramVec

	conflictScanTotal   *prometheus.CounterVec
	conflictScanLatency *prometheus.HistogramVec
	conflictsFound      *prometheus.CounterVec

	suggestionTotal *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		assignTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "assignments_total",
				Help: "Total channel assignment attempts by mode and outcome",
			},
			[]string{"mode", "outcome"},
		)
		assignLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "assignment_latency_seconds",
				Help:    "Channel assignment latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		)

		conflictScanTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "conflict_scans_total",
				Help: "Total conflict audits by result",
			},
			[]string{"result"},
		)
		conflictScanLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "conflict_scan_latency_seconds",
				Help:    "Conflict audit latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		conflictsFound = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "conflicts_found_total",
				Help: "Total conflicts found by kind",
			},
			[]string{"kind"},
		)

		suggestionTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "card_suggestions_total",
				Help: "Total hardware suggestion requests by result",
			},
			[]string{"result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total document exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Document export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			assignTotal,
			assignLatency,
			conflictScanTotal,
			conflictScanLatency,
			conflictsFound,
			suggestionTotal,
			exportTotal,
			exportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveAssignment records one assignment attempt.
func ObserveAssignment(mode, outcome string, duration time.Duration) {
	if mode == "" {
		mode = assignModeManual
	}
	if outcome == "" {
		outcome = assignOutcomeRejected
	}
	if assignTotal != nil {
		assignTotal.WithLabelValues(mode, outcome).Inc()
	}
	if assignLatency != nil {
		assignLatency.WithLabelValues(mode).Observe(duration.Seconds())
	}
}

// ObserveConflictScan records one full-snapshot audit.
func ObserveConflictScan(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if conflictScanTotal != nil {
		conflictScanTotal.WithLabelValues(result).Inc()
	}
	if conflictScanLatency != nil {
		conflictScanLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncConflictsFound increments per-kind conflict counters.
func IncConflictsFound(kind string, count int) {
	if count <= 0 {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	if conflictsFound != nil {
		conflictsFound.WithLabelValues(kind).Add(float64(count))
	}
}

// IncSuggestion increments the hardware suggestion counter.
func IncSuggestion(result string) {
	if result == "" {
		result = resultSuccess
	}
	if suggestionTotal != nil {
		suggestionTotal.WithLabelValues(result).Inc()
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	AssignOutcomeAssigned = assignOutcomeAssigned
	AssignOutcomeRejected = assignOutcomeRejected
	AssignOutcomeError    = assignOutcomeError

	AssignModeManual = assignModeManual
	AssignModeAuto   = assignModeAuto
)
