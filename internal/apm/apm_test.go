package apm

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/fd1az/campus-rewards/internal/apperror"
	"github.com/fd1az/campus-rewards/internal/config"
	"github.com/fd1az/campus-rewards/internal/logger"
)

func recordingTracer(t *testing.T) (Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return &openTracer{tp.Tracer("test")}, rec
}

func TestTraceID(t *testing.T) {
	if got := TraceID(context.Background()); got != "" {
		t.Errorf("TraceID(empty) = %q", got)
	}

	tracer, _ := recordingTracer(t)
	ctx, span := tracer.StartSpanFromContext(context.Background(), "op")
	defer span.End()

	got := TraceID(ctx)
	if got == "" || got != span.SpanContext().TraceID().String() {
		t.Errorf("TraceID() = %q, want %s", got, span.SpanContext().TraceID())
	}
}

func TestSpan_NoticeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "app_error", err: apperror.Validation(apperror.CodeRequiredField, "message"), wantCode: "REQUIRED_FIELD"},
		{name: "plain_error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, rec := recordingTracer(t)
			_, span := tracer.StartSpanFromContext(context.Background(), "op")
			span.NoticeError(tt.err)
			span.End()

			ended := rec.Ended()
			if len(ended) != 1 {
				t.Fatalf("ended spans = %d", len(ended))
			}
			if ended[0].Status().Code != codes.Error {
				t.Errorf("status = %v", ended[0].Status())
			}
			var code string
			for _, kv := range ended[0].Attributes() {
				if kv.Key == "error.code" {
					code = kv.Value.AsString()
				}
			}
			if code != tt.wantCode {
				t.Errorf("error.code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestNewTraceProvider_Disabled(t *testing.T) {
	tp, err := NewTraceProvider(context.Background(), config.TelemetryConfig{Provider: "console"}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewTraceProvider() error = %v", err)
	}
	if _, ok := tp.(emptyProvider); !ok {
		t.Errorf("provider = %T, want emptyProvider", tp)
	}
}

func TestNewTraceProvider_BadHoneycombHeaders(t *testing.T) {
	cfg := config.TelemetryConfig{Enabled: true, Provider: "honeycomb", OTLPHeaders: "missing-separator"}
	if _, err := NewTraceProvider(context.Background(), cfg, logger.NewNop()); err == nil {
		t.Error("NewTraceProvider() should reject malformed headers")
	}
}

func TestNewTraceProvider_UnknownFallsBackToEmpty(t *testing.T) {
	cfg := config.TelemetryConfig{Enabled: true, Provider: "jaeger"}
	tp, err := NewTraceProvider(context.Background(), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("NewTraceProvider() error = %v", err)
	}
	if err := tp.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
