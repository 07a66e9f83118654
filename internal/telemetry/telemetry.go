// Package telemetry wires OpenTelemetry tracing for the arena server.
package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/omega-realm/arena/internal/config"
)

// Config controls trace export.
type Config struct {
	Endpoint    string `env:"OTEL_EXPORTER_ENDPOINT"`
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"true"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"arena"`
}

// LoadConfigFromEnv reads the OTEL_* variables.
func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Setup installs a global tracer provider exporting over OTLP/HTTP.
//
// Tracing is opt-in: with no endpoint, or with Enabled false, Setup registers
// nothing and the returned shutdown is a no-op. The otel globals then hand out
// no-op tracers, so callers never need to branch on whether tracing is on.
func Setup(ctx context.Context, cfg *Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if cfg == nil || !cfg.Enabled || cfg.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	log.Printf("[Telemetry] Exporting traces to %s as %s", cfg.Endpoint, cfg.ServiceName)
	return tp.Shutdown, nil
}
