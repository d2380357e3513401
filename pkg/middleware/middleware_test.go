package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		w.Write([]byte("ok"))
	})
}

func TestFlavor(t *testing.T) {
	tests := []struct {
		url  string
		flag string
		want string
	}{
		{"/", "", "html"},
		{"/?jsx", "", "wire"},
		{"/post?x=1&jsx", "jsx", "wire"},
		{"/post?jsx=", "jsx", "wire"},
		{"/post?jsxx", "jsx", "html"},
		{"/post?rsc", "rsc", "wire"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.url, nil)
		if got := Flavor(r, tt.flag); got != tt.want {
			t.Errorf("Flavor(%q, %q) = %q, want %q", tt.url, tt.flag, got, tt.want)
		}
	}
}

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	serve := func(h http.Handler, url string) {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, url, nil))
	}
	serve(m.Middleware(statusHandler(http.StatusOK)), "/")
	serve(m.Middleware(statusHandler(http.StatusOK)), "/hello-world?jsx")
	serve(m.Middleware(statusHandler(http.StatusNotFound)), "/missing?jsx")

	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("html", "200")); got != 1 {
		t.Errorf("requests_total(html,200) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("wire", "200")); got != 1 {
		t.Errorf("requests_total(wire,200) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("wire", "404")); got != 1 {
		t.Errorf("requests_total(wire,404) = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.requestDuration.WithLabelValues("wire")); got != 2 {
		t.Errorf("request_duration(wire) count = %v, want 2", got)
	}
	if got := metricGaugeValue(t, m.inFlight); got != 0 {
		t.Errorf("requests_in_flight = %v, want 0", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_requests_total" {
			found = true
		}
	}
	if !found {
		t.Error("test_requests_total not registered")
	}
}

func TestMetricsInFlightDuringRequest(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	var during float64
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = metricGaugeValue(t, m.inFlight)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if during != 1 {
		t.Errorf("requests_in_flight during request = %v, want 1", during)
	}
}

func TestRecordBoundaryError(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	m.RecordBoundaryError("not_found")
	m.RecordBoundaryError("not_found")

	if got := metricCounterValue(t, m.boundaryErrors.WithLabelValues("not_found")); got != 2 {
		t.Errorf("boundary_errors_total(not_found) = %v, want 2", got)
	}

	var nilMetrics *Metrics
	nilMetrics.RecordBoundaryError("internal") // must not panic
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if len(seen) != 36 {
			t.Errorf("expected a UUID, got %q", seen)
		}
		if rec.Header().Get(RequestIDHeader) != seen {
			t.Errorf("response header %q != context %q", rec.Header().Get(RequestIDHeader), seen)
		}
	})

	t.Run("kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		h.ServeHTTP(httptest.NewRecorder(), req)
		if seen != "abc-123" {
			t.Errorf("got %q, want abc-123", seen)
		}
	})

	t.Run("replaced when malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "has space")
		h.ServeHTTP(httptest.NewRecorder(), req)
		if seen == "has space" {
			t.Error("malformed request ID should be replaced")
		}
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := RequestID(Logger(logger, "")(statusHandler(http.StatusInternalServerError)))
	req := httptest.NewRequest(http.MethodGet, "/boom?jsx", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	for _, want := range []string{"level=ERROR", "path=/boom", "flavor=wire", "status=500", "request_id=req-1", "component=http"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
}

func TestOpenTelemetryPropagatesContext(t *testing.T) {
	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	var got trace.SpanContext
	var extracted bool
	h := OpenTelemetry(
		WithTracerProvider(noop.NewTracerProvider()),
		WithPropagator(propagation.TraceContext{}),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			extracted = true
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = trace.SpanContextFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", traceparent)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace ID = %s, want the incoming one", got.TraceID())
	}
	if !extracted {
		t.Error("attribute extractor was not called")
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	called := false
	h := OpenTelemetry(
		WithTracerProvider(noop.NewTracerProvider()),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/metrics" }),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			t.Error("filtered requests must not be traced")
			return nil
		}),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !called {
		t.Error("filtered requests must still be served")
	}
}
