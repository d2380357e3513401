package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/flight/pkg/middleware"
)

func TestServerRoutes(t *testing.T) {
	static := t.TempDir()
	if err := os.WriteFile(filepath.Join(static, "client.js"), []byte("hydrate()"), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
	h, err := NewHandler(HandlerConfig{Page: testPage, Metrics: metrics})
	if err != nil {
		t.Fatal(err)
	}
	srv := New(h, &ServerConfig{
		StaticDir: static,
		Metrics:   metrics,
		Gatherer:  reg,
		Reload: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	})

	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantBody   string
	}{
		{"health", "/healthz", http.StatusOK, "ok"},
		{"static", "/static/client.js", http.StatusOK, "hydrate()"},
		{"reload", DefaultReloadPath, http.StatusTeapot, ""},
		{"page", "/hello-world", http.StatusOK, "<h2>hello-world</h2>"},
		{"wire", "/hello-world?jsx", http.StatusOK, `"$$typeof":"$RE"`},
		{"not found", "/missing", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(srv, http.MethodGet, tt.url)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.wantBody)
			}
			if rec.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("missing request ID header")
			}
		})
	}

	rec := serve(srv, http.MethodGet, DefaultMetricsPath)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`flight_requests_total{flavor="html",status="200"} 1`,
		`flight_requests_total{flavor="wire",status="200"} 1`,
		`flight_boundary_errors_total{kind="not_found"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestServerWithoutOptionalRoutes(t *testing.T) {
	h, err := NewHandler(HandlerConfig{Page: testPage})
	if err != nil {
		t.Fatal(err)
	}
	srv := New(h, nil)

	if got := srv.Config().Address; got != ":3000" {
		t.Errorf("default address = %q", got)
	}
	// Without a gatherer /metrics is an ordinary page.
	rec := serve(srv, http.MethodGet, "/metrics?jsx")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"metrics"`) {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestServerRecoversPanics(t *testing.T) {
	srv := New(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), nil)

	rec := serve(srv, http.MethodGet, "/")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestServerRunAndShutdown(t *testing.T) {
	h, err := NewHandler(HandlerConfig{Page: testPage})
	if err != nil {
		t.Fatal(err)
	}
	srv := New(h, &ServerConfig{Address: "127.0.0.1:0", ShutdownTimeout: 5 * time.Second})
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	resp, err := http.Get("http://" + srv.Addr() + "/hello-world?jsx")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), `"hello-world"`) {
		t.Errorf("got %d %s", resp.StatusCode, data)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServerOTelMiddleware(t *testing.T) {
	h, err := NewHandler(HandlerConfig{Page: testPage})
	if err != nil {
		t.Fatal(err)
	}
	srv := New(h, &ServerConfig{Tracing: true})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/hello-world", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
