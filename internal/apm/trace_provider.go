package apm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/fd1az/campus-rewards/internal/config"
	"github.com/fd1az/campus-rewards/internal/logger"
)

// Provider names accepted in telemetry.provider.
type Provider string

const (
	ZipkinProvider    Provider = "zipkin"
	ConsoleProvider   Provider = "console"
	HoneycombProvider Provider = "honeycomb"
	OTLPProvider      Provider = "otlp"
	EmptyProvider     Provider = "none"
)

// TraceProvider flushes and stops tracing.
type TraceProvider interface {
	Stop() error
}

type emptyProvider struct{}

func (emptyProvider) Stop() error { return nil }

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

// NewTraceProvider installs the global tracer provider described by cfg.
// Disabled telemetry yields a provider whose Stop does nothing.
func NewTraceProvider(ctx context.Context, cfg config.TelemetryConfig, log logger.LoggerInterface) (TraceProvider, error) {
	if !cfg.Enabled {
		return emptyProvider{}, nil
	}

	provider := Provider(strings.ToLower(cfg.Provider))
	exp, err := newExporter(ctx, provider, cfg)
	if err != nil {
		return nil, fmt.Errorf("trace exporter %s: %w", provider, err)
	}
	if exp == nil {
		log.Warn(ctx, "trace provider not found, tracing disabled", "provider", cfg.Provider)
		return emptyProvider{}, nil
	}

	rsrc, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.ServiceName),
			attribute.String("otel.provider", string(provider)),
		))
	if err != nil {
		// schema URL conflict with the SDK default; keep ours only
		rsrc = resource.NewSchemaless(semconv.ServiceNameKey.String(cfg.ServiceName))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(rsrc),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	log.Info(ctx, "tracing enabled", "provider", string(provider), "endpoint", cfg.OTLPEndpoint)
	return &traceProvider{tp}, nil
}

// newExporter returns nil, nil for unknown providers.
func newExporter(ctx context.Context, provider Provider, cfg config.TelemetryConfig) (sdktrace.SpanExporter, error) {
	switch provider {
	case ConsoleProvider:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ZipkinProvider:
		return zipkin.New(cfg.OTLPEndpoint)
	case HoneycombProvider:
		key, value, ok := strings.Cut(cfg.OTLPHeaders, "=")
		if !ok {
			return nil, fmt.Errorf("invalid telemetry.otlp_headers %q, expected key=value", cfg.OTLPHeaders)
		}
		headers := map[string]string{key: value} // x-honeycomb-team
		if cfg.OTLPProtocol == "http/protobuf" {
			return otlptracehttp.New(ctx,
				otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint),
				otlptracehttp.WithHeaders(headers),
			)
		}
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(cfg.OTLPEndpoint),
			otlptracegrpc.WithHeaders(headers),
		)
	case OTLPProvider:
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
	case EmptyProvider:
		return nil, nil
	}
	return nil, nil
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return o.tp.Shutdown(ctx)
}
