package observability

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/outing-bot/config"
)

// Observability bundles the logger, metrics and tracer handed to modules.
type Observability struct {
	Logger   *slog.Logger
	Metrics  *Metrics
	Tracer   trace.Tracer
	Registry *prometheus.Registry
}

// New builds the observability stack from config. With metrics disabled the
// registry is nil and Metrics records nothing.
func New(cfg config.ObservabilityConfig, logOut io.Writer) Observability {
	obs := Observability{
		Logger: NewLogger(cfg, logOut),
		Tracer: Tracer(cfg.ServiceName),
	}
	if cfg.MetricsEnabled {
		obs.Registry = prometheus.NewRegistry()
		obs.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		obs.Metrics = NewMetrics(obs.Registry)
	}
	return obs
}
