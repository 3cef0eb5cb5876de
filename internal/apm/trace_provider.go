package apm

import (
	"context"
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

	"github.com/ardika/scanarb/internal/config"
	"github.com/ardika/scanarb/internal/logger"
)

// Provider names an exporter backend.
type Provider string

const (
	OTLPGRPCProvider Provider = "OTLP_GRPC"
	OTLPHTTPProvider Provider = "OTLP_HTTP"
	ZipkinProvider   Provider = "ZIPKIN"
	ConsoleProvider  Provider = "CONSOLE"
	EmptyProvider    Provider = "EMPTY"
)

// TraceProvider owns the OTEL tracer provider lifecycle.
type TraceProvider interface {
	Stop() error
}

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

// NewTraceProvider wires the global OTEL tracer provider from telemetry
// config. When telemetry is disabled it returns a no-op provider.
func NewTraceProvider(cfg config.TelemetryConfig, provider Provider, log logger.LoggerInterface) TraceProvider {
	if !cfg.Enabled || provider == EmptyProvider {
		return emptyTraceProvider{}
	}

	exp, err := newExporter(cfg, provider)
	if err != nil {
		log.Warn(context.Background(), "failed to create trace exporter, tracing disabled",
			"provider", string(provider), "error", err)
		return emptyTraceProvider{}
	}

	rsrc, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.ServiceName),
			attribute.String("otel.provider", string(provider)),
		))

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

	return &traceProvider{tp}
}

func newExporter(cfg config.TelemetryConfig, provider Provider) (sdktrace.SpanExporter, error) {
	switch provider {
	case ConsoleProvider:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ZipkinProvider:
		return zipkin.New(cfg.OTLPEndpoint)
	case OTLPHTTPProvider:
		return otlptracehttp.New(
			context.Background(),
			otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint),
			otlptracehttp.WithHeaders(parseHeaders(cfg.OTLPHeaders)),
		)
	default:
		return otlptracegrpc.New(
			context.Background(),
			otlptracegrpc.WithEndpointURL(cfg.OTLPEndpoint),
			otlptracegrpc.WithHeaders(parseHeaders(cfg.OTLPHeaders)),
		)
	}
}

// parseHeaders splits "k1=v1,k2=v2" into a header map, skipping malformed
// entries.
func parseHeaders(raw string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && kv[0] != "" {
			headers[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
	return headers
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	return o.tp.Shutdown(ctx)
}

type emptyTraceProvider struct{}

func (emptyTraceProvider) Stop() error { return nil }
