package observability

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultServiceName = "samsara-saga"
	DefaultEndpoint    = "http://localhost:4318"
)

// Config holds the configuration for OpenTelemetry tracing
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Enabled        bool
	Endpoint       string
	Headers        map[string]string
	Insecure       bool
}

// TracerProvider wraps the OpenTelemetry tracer provider with cleanup
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	enabled  bool
}

// InitTracing initializes OpenTelemetry tracing with an OTLP HTTP exporter
func InitTracing(ctx context.Context, config Config) (*TracerProvider, error) {
	if !config.Enabled {
		return &TracerProvider{enabled: false}, nil
	}

	exporter, err := createExporter(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := createResource(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(100),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sessionInjector{}),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)

	return &TracerProvider{
		provider: tp,
		enabled:  true,
	}, nil
}

// GetTracer returns a tracer for the given name
func (tp *TracerProvider) GetTracer(name string, options ...trace.TracerOption) trace.Tracer {
	if tp == nil || !tp.enabled {
		return trace.NewNoopTracerProvider().Tracer(name, options...)
	}
	return otel.Tracer(name, options...)
}

// Shutdown flushes pending spans
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp == nil || !tp.enabled || tp.provider == nil {
		return nil
	}
	return tp.provider.Shutdown(ctx)
}

func (tp *TracerProvider) IsEnabled() bool {
	return tp != nil && tp.enabled
}

func createExporter(ctx context.Context, config Config) (sdktrace.SpanExporter, error) {
	endpoint := strings.TrimSuffix(config.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(endpoint + "/v1/traces"),
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
		otlptracehttp.WithTimeout(30 * time.Second),
	}
	if len(config.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(config.Headers))
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
	}
	return exporter, nil
}

func createResource(config Config) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		"",
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
		attribute.String("deployment.environment", config.Environment),
	), nil
}

// LoadConfigFromEnv loads tracing configuration from environment variables
func LoadConfigFromEnv() Config {
	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	config := Config{
		ServiceName:    DefaultServiceName,
		ServiceVersion: "1.0.0",
		Environment:    environment,
		Enabled:        os.Getenv("OTEL_TRACES_ENABLED") == "true",
	}
	if !config.Enabled {
		return config
	}

	config.Endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	config.Insecure = strings.HasPrefix(config.Endpoint, "http://")
	config.Headers = parseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	return config
}

// parseHeaders reads the OTLP "key=value,key=value" header format.
func parseHeaders(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers
}

// CreatePuzzleAttributes creates the attributes shared by every puzzle span
func CreatePuzzleAttributes(puzzleID, mechanicsType, sessionID string, attempt int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("puzzle.id", puzzleID),
		attribute.String("puzzle.mechanics_type", mechanicsType),
	}
	if sessionID != "" {
		attrs = append(attrs, attribute.String("session.id", sessionID))
	}
	if attempt > 0 {
		attrs = append(attrs, attribute.Int("puzzle.attempt", attempt))
	}
	return attrs
}

// CreateGenAIAttributes creates GenAI semantic convention attributes for LLM spans
func CreateGenAIAttributes(system, model string, inputTokens, outputTokens int, temperature float64) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("gen_ai.operation.name", "chat"),
		attribute.String("gen_ai.system", system),
		attribute.String("gen_ai.request.model", model),
	}

	if inputTokens > 0 {
		attrs = append(attrs, attribute.Int("gen_ai.usage.input_tokens", inputTokens))
	}

	if outputTokens > 0 {
		attrs = append(attrs, attribute.Int("gen_ai.usage.output_tokens", outputTokens))
	}

	if temperature >= 0 {
		attrs = append(attrs, attribute.Float64("gen_ai.request.temperature", temperature))
	}

	return attrs
}

type sessionInjector struct{}

func (sessionInjector) OnStart(ctx context.Context, s sdktrace.ReadWriteSpan) {
	if sid := GetSessionIDFromContext(ctx); sid != "" {
		s.SetAttributes(attribute.String("session.id", sid))
	}
}

type contextKey string

const sessionIDKey contextKey = "session_id"

// WithSessionID tags every span started under ctx with the session id.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func GetSessionIDFromContext(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}

func (sessionInjector) OnEnd(s sdktrace.ReadOnlySpan)    {}
func (sessionInjector) Shutdown(context.Context) error   { return nil }
func (sessionInjector) ForceFlush(context.Context) error { return nil }
