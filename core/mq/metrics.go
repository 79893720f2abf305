package mq

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Composite operation names reported to a MetricsCollector.
const (
	OpSubscribe   = "subscribe"
	OpUnsubscribe = "unsubscribe"
	OpAddChild    = "add_child"
	OpRemoveChild = "remove_child"
	OpClose       = "close"
)

// MetricsCollector receives composite queue metrics.
// Methods are called while the composite lock is held and must not block.
type MetricsCollector interface {
	// SetTopology records the current number of observers, children and bindings.
	SetTopology(observers, children, bindings int)

	// RecordOperation records a mutating operation and whether it took effect.
	RecordOperation(operation string, success bool)
}

// NoopMetrics discards all metrics.
type NoopMetrics struct{}

func (NoopMetrics) SetTopology(observers, children, bindings int)  {}
func (NoopMetrics) RecordOperation(operation string, success bool) {}

// PrometheusMetrics implements MetricsCollector with Prometheus collectors.
type PrometheusMetrics struct {
	observers  prometheus.Gauge
	children   prometheus.Gauge
	bindings   prometheus.Gauge
	operations *prometheus.CounterVec
}

// NewPrometheusMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewPrometheusMetrics(namespace string, reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		observers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "composite_observers",
			Help:      "Active composite observers",
		}),
		children: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "composite_children",
			Help:      "Attached child queue entries",
		}),
		bindings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "composite_bindings",
			Help:      "Live child-level subscriptions",
		}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "composite_operations_total",
			Help:      "Composite queue mutating operations",
		}, []string{"operation", "success"}),
	}

	for _, c := range []prometheus.Collector{m.observers, m.children, m.bindings, m.operations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// SetTopology implements MetricsCollector.
func (m *PrometheusMetrics) SetTopology(observers, children, bindings int) {
	m.observers.Set(float64(observers))
	m.children.Set(float64(children))
	m.bindings.Set(float64(bindings))
}

// RecordOperation implements MetricsCollector.
func (m *PrometheusMetrics) RecordOperation(operation string, success bool) {
	m.operations.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}
