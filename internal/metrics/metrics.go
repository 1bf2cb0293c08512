// Package metrics exposes Prometheus counters for attendance admission,
// authentication and the audit trail.
//
// All collectors are registered against the default registry and served on
// the side-channel listener started by main:
//
//	GET http://<host>:<ATTENDANCE_METRICS_ADDR>/metrics
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "attendance"

var (
	// AdmissionDecisionsTotal counts check-in decisions by outcome and
	// rejection reason. Admitted check-ins carry reason "none".
	AdmissionDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admission_decisions_total",
			Help:      "Check-in admission decisions, by outcome and rejection reason.",
		},
		[]string{"outcome", "reason"},
	)

	CheckOutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Recorded check-outs.",
		},
	)

	// LoginsTotal counts login attempts by result ("success" or "failure").
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts, by result.",
		},
		[]string{"result"},
	)

	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Self-registration attempts, by result.",
		},
		[]string{"result"},
	)

	AuditEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_entries_total",
			Help:      "Audit entries recorded, by action and severity.",
		},
		[]string{"action", "severity"},
	)

	LeaveTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leave_transitions_total",
			Help:      "Leave requests entering a status.",
		},
		[]string{"status"},
	)

	PositionSamplesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "position_samples_total",
			Help:      "Position samples accepted into the live feed.",
		},
	)

	// ActiveCollectors is the number of principals whose devices are
	// expected to report positions.
	ActiveCollectors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_collectors",
			Help:      "Principals with live position collection enabled.",
		},
	)

	// HTTPRequestsTotal is labelled by route pattern, not raw URL, to keep
	// principal ids out of label values.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests processed, by method, route pattern and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies, by method and route pattern.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
