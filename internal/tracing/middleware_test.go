package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	prevProp := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() { otel.SetTextMapPropagator(prevProp) })
	return recorder
}

func newTracedEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/bills/:code", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestGinMiddlewareRecordsServerSpan(t *testing.T) {
	recorder := setupRecorder(t)
	r := newTracedEngine()

	req := httptest.NewRequest(http.MethodGet, "/bills/abc123", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "GET /bills/:code" {
		t.Fatalf("expected span named by route pattern, got %q", span.Name())
	}
	if span.SpanKind() != trace.SpanKindServer {
		t.Fatalf("expected server span, got %v", span.SpanKind())
	}

	var status int64 = -1
	for _, attr := range span.Attributes() {
		if attr.Key == attribute.Key("http.status_code") {
			status = attr.Value.AsInt64()
		}
	}
	if status != http.StatusOK {
		t.Fatalf("expected http.status_code 200, got %d", status)
	}
}

func TestGinMiddlewareHonorsTraceparent(t *testing.T) {
	recorder := setupRecorder(t)
	r := newTracedEngine()

	req := httptest.NewRequest(http.MethodGet, "/bills/abc123", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].SpanContext().TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("expected span to join the incoming trace, got trace id %s", got)
	}
}
