// Package telemetry exports request traces of the API over OTLP.
package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/BruksfildServices01/smartq/internal/config"
)

type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Setup installs the global tracer provider for serviceName and returns its
// shutdown func. Tracing stays off when OTEL_EXPORTER_OTLP_ENDPOINT is empty.
func Setup(cfg *config.Config, serviceName string) ShutdownFunc {
	if cfg.OTelEndpoint == "" {
		return noop
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTelEndpoint)}
	if cfg.OTelInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(context.Background(), opts...)
	if err != nil {
		log.Printf("telemetry: otlp exporter for %s: %v", cfg.OTelEndpoint, err)
		return noop
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(newResource(cfg, serviceName)),
		sdktrace.WithSampler(sampler(cfg.OTelSampleRatio)),
	)
	otel.SetTracerProvider(provider)

	log.Printf("telemetry: tracing %s (%s) to %s, sample ratio %g",
		serviceName, cfg.AppEnv, cfg.OTelEndpoint, cfg.OTelSampleRatio)

	return provider.Shutdown
}

func newResource(cfg *config.Config, serviceName string) *resource.Resource {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(cfg.AppVersion),
			semconv.DeploymentEnvironment(cfg.AppEnv),
		),
	)
	if err != nil {
		log.Printf("telemetry: resource: %v", err)
	}
	return res
}

// sampler keeps parent decisions and samples new traces at ratio.
func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}
