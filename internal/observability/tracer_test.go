package observability

import (
	"context"
	"testing"
)

func TestLoadConfigFromEnvDisabledByDefault(t *testing.T) {
	t.Setenv("OTEL_TRACES_ENABLED", "")
	config := LoadConfigFromEnv()
	if config.Enabled {
		t.Error("tracing enabled without OTEL_TRACES_ENABLED")
	}
	if config.ServiceName != DefaultServiceName {
		t.Errorf("ServiceName = %q, want %q", config.ServiceName, DefaultServiceName)
	}
}

func TestLoadConfigFromEnvEnabled(t *testing.T) {
	t.Setenv("OTEL_TRACES_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "authorization=Bearer abc, x-team = puzzles")
	t.Setenv("ENVIRONMENT", "staging")

	config := LoadConfigFromEnv()
	if !config.Enabled || config.Endpoint != "http://collector:4318" || !config.Insecure {
		t.Errorf("got %+v", config)
	}
	if config.Headers["authorization"] != "Bearer abc" || config.Headers["x-team"] != "puzzles" {
		t.Errorf("Headers = %v", config.Headers)
	}
	if config.Environment != "staging" {
		t.Errorf("Environment = %q, want staging", config.Environment)
	}
}

func TestDisabledProviderIsNoop(t *testing.T) {
	tp, err := InitTracing(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("InitTracing() error: %v", err)
	}
	if tp.IsEnabled() {
		t.Error("disabled provider reports enabled")
	}
	_, span := tp.GetTracer("test").Start(context.Background(), "noop")
	span.End()
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}

func TestSessionIDRoundTrip(t *testing.T) {
	ctx := WithSessionID(context.Background(), "abc")
	if got := GetSessionIDFromContext(ctx); got != "abc" {
		t.Errorf("got %q, want abc", got)
	}
	if got := GetSessionIDFromContext(context.Background()); got != "" {
		t.Errorf("got %q from empty context", got)
	}
}
