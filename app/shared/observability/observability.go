package observability

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of every span the service starts.
const TracerName = "github.com/Black-And-White-Club/sportsday"

// Observability bundles what modules need to log, trace and count.
type Observability struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics OperationMetrics
	// Registry is nil when metrics are disabled.
	Registry *prometheus.Registry
}

// New builds the process observability. With metrics enabled the operation
// collectors plus the Go and process collectors are registered on a
// dedicated registry.
func New(logger *slog.Logger, metricsEnabled bool) (Observability, error) {
	if logger == nil {
		logger = slog.Default()
	}
	obs := Observability{
		Logger:  logger,
		Tracer:  otel.Tracer(TracerName),
		Metrics: NewNoop(),
	}
	if !metricsEnabled {
		return obs, nil
	}

	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return Observability{}, err
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return Observability{}, err
	}
	metrics, err := NewPrometheusMetrics(reg)
	if err != nil {
		return Observability{}, err
	}
	obs.Metrics = metrics
	obs.Registry = reg
	return obs, nil
}
