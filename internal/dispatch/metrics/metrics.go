// Package metrics provides observability for repository operation dispatch.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts dispatched repository operations and times them. A nil
// *Metrics is a valid no-op receiver so wiring stays optional in tests.
type Metrics struct {
	// Operation outcomes by operation name and status
	OperationTotal *prometheus.CounterVec

	// Operation latency by operation name
	OperationLatency *prometheus.HistogramVec
}

// New creates a Metrics instance with all dispatch metrics registered.
func New() *Metrics {
	return &Metrics{
		OperationTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cimrepo_operations_total",
			Help: "Total repository operations by operation and status",
		}, []string{"operation", "status"}),

		OperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cimrepo_operation_duration_seconds",
			Help:    "Duration of repository operations",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}, []string{"operation"}),
	}
}

// ObserveOperation records one completed operation.
func (m *Metrics) ObserveOperation(operation, status string, d time.Duration) {
	if m != nil {
		m.OperationTotal.WithLabelValues(operation, status).Inc()
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
