package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "healthyfood"

var (
	// Request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Label analysis metrics
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "label_analyses_total",
			Help:      "Total number of label analyses by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "label_analysis_duration_seconds",
			Help:      "Duration of label analyses in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 1.5, 2, 3, 5, 10},
		},
		[]string{"source"},
	)

	// Booking metrics
	AppointmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_total",
			Help:      "Total number of appointment submissions by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// Session metrics
	ShoppingListOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shopping_list_operations_total",
			Help:      "Total number of shopping list mutations",
		},
		[]string{"operation"},
	)
)

// Handler returns the HTTP handler for the metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAnalysis increments the analyses counter
func RecordAnalysis(source, outcome string) {
	AnalysesTotal.WithLabelValues(source, outcome).Inc()
}

// RecordAppointment increments the appointments counter
func RecordAppointment(kind, outcome string) {
	AppointmentsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordListOp increments the shopping list counter
func RecordListOp(operation string) {
	ShoppingListOpsTotal.WithLabelValues(operation).Inc()
}
