// Package metrics exposes Prometheus collectors for the bot and the
// back-office API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	updatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "center_updates_total",
			Help: "Chat updates handled, by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	flowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "center_form_flows_total",
			Help: "Conversation forms started, rejected answers and completions",
		},
		[]string{"flow", "event"},
	)

	ordersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "center_order_operations_total",
			Help: "Order operations, by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "center_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "center_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "path", "status"},
	)
)

// Form flow events.
const (
	FlowStarted   = "started"
	FlowInvalid   = "invalid"
	FlowCompleted = "completed"
)

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordUpdate counts one incoming chat update ("message" or "callback").
func RecordUpdate(kind string, success bool) {
	updatesTotal.WithLabelValues(kind, status(success)).Inc()
}

// RecordFlow counts a form event.
func RecordFlow(flow, event string) {
	flowsTotal.WithLabelValues(flow, event).Inc()
}

// RecordOrderOperation counts checkouts and payments.
func RecordOrderOperation(operation string, success bool) {
	ordersTotal.WithLabelValues(operation, status(success)).Inc()
}

// ObserveHTTP records one served request. Path should be the route pattern,
// not the raw URL, to keep label cardinality bounded.
func ObserveHTTP(method, path string, code int, elapsed time.Duration) {
	s := strconv.Itoa(code)
	httpRequestsTotal.WithLabelValues(method, path, s).Inc()
	httpRequestDuration.WithLabelValues(method, path, s).Observe(elapsed.Seconds())
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
