package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "outing"

// Metrics records operation and event counters. A nil *Metrics is a no-op.
type Metrics struct {
	operations     *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	events         *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Session commands by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Session command latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Domain events observed on the bus.",
		}, []string{"type"}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
	}
}

func (m *Metrics) RecordOperationAttempt(_ context.Context, operation string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, "attempt").Inc()
}

func (m *Metrics) RecordOperationSuccess(_ context.Context, operation string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, "success").Inc()
}

func (m *Metrics) RecordOperationFailure(_ context.Context, operation string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, "failure").Inc()
}

func (m *Metrics) RecordOperationDuration(_ context.Context, operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordEvent counts one published domain event.
func (m *Metrics) RecordEvent(_ context.Context, eventType string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(eventType).Inc()
}

// SetActiveSessions reports the size of the session table.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
