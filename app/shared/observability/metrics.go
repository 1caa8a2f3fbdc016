package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records the outcome of service operations.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)
}

type promMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the operation collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (OperationMetrics, error) {
	labels := []string{"service", "operation"}
	m := &promMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportsday",
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportsday",
			Name:      "operation_success_total",
			Help:      "Service operations that completed without an infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportsday",
			Name:      "operation_failure_total",
			Help:      "Service operations that failed with an infrastructure error or panic.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sportsday",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}

	for _, c := range []prometheus.Collector{m.attempts, m.successes, m.failures, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *promMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(service, operation).Inc()
}

func (m *promMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(service, operation).Inc()
}

func (m *promMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(service, operation).Inc()
}

func (m *promMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(service, operation).Observe(d.Seconds())
}

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

// NewNoop returns metrics that record nothing.
func NewNoop() OperationMetrics { return NoOpMetrics{} }

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string) {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string) {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string) {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
