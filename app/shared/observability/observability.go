// Package observability builds the logger, tracer and metrics registry shared by
// the modules.
package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config controls how observability is initialised.
type Config struct {
	ServiceName    string
	Environment    string
	Version        string
	LogLevel       string
	MetricsAddress string
}

// Provider exposes the process-wide logger and tracer provider.
type Provider struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
}

// Registry exposes the instruments handed to modules.
type Registry struct {
	Tracer     trace.Tracer
	Prometheus *prometheus.Registry
}

// Observability bundles Provider and Registry.
type Observability struct {
	Provider Provider
	Registry Registry

	metricsServer *http.Server
}

// Init builds the observability stack. The tracer provider is the global otel one,
// so an exporter installed by the host process is picked up automatically.
func Init(ctx context.Context, cfg Config) (Observability, error) {
	logger := NewLogger(os.Stdout, cfg).With(
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.Version),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tp := otel.GetTracerProvider()
	obs := Observability{
		Provider: Provider{Logger: logger, TracerProvider: tp},
		Registry: Registry{Tracer: tp.Tracer(cfg.ServiceName), Prometheus: reg},
	}

	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		obs.metricsServer = &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := obs.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.ErrorContext(ctx, "metrics server stopped", slog.String("error", err.Error()))
			}
		}()
		logger.InfoContext(ctx, "metrics endpoint listening", slog.String("address", cfg.MetricsAddress))
	}

	return obs, nil
}

// NewTest returns an Observability that discards logs and traces.
func NewTest() Observability {
	tp := noop.NewTracerProvider()
	return Observability{
		Provider: Provider{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), TracerProvider: tp},
		Registry: Registry{Tracer: tp.Tracer("test"), Prometheus: prometheus.NewRegistry()},
	}
}

// NewLogger picks a text handler for development and JSON everywhere else.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if strings.EqualFold(cfg.Environment, "development") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Shutdown stops the metrics endpoint if it was started.
func (o Observability) Shutdown(ctx context.Context) error {
	if o.metricsServer == nil {
		return nil
	}
	return o.metricsServer.Shutdown(ctx)
}
