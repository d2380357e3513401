package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vango-dev/flight/pkg/navigation"
	"github.com/vango-dev/flight/pkg/render"
)

func newProxy(t *testing.T, upstream http.Handler) *ProxyHandler {
	t.Helper()
	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	p, err := NewProxyHandler(ProxyConfig{
		Upstream: &navigation.HTTPFetcher{Client: ts.Client(), BaseURL: ts.URL},
		Scripts:  []render.ScriptTag{{Src: "/static/client.js", Module: true}},
	})
	if err != nil {
		t.Fatalf("NewProxyHandler: %v", err)
	}
	return p
}

func TestNewProxyHandlerRequiresUpstream(t *testing.T) {
	if _, err := NewProxyHandler(ProxyConfig{}); !errors.Is(err, ErrNoUpstream) {
		t.Errorf("expected ErrNoUpstream, got %v", err)
	}
}

func TestProxyRendersUpstreamWire(t *testing.T) {
	p := newProxy(t, newTestHandler(t))

	rec := serve(p, http.MethodGet, "/hello-world")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	direct := serve(newTestHandler(t), http.MethodGet, "/hello-world")
	if rec.Body.String() != direct.Body.String() {
		t.Errorf("proxied document differs from a direct render\nproxy:  %s\ndirect: %s", rec.Body.String(), direct.Body.String())
	}
}

func TestProxyPassesWireThrough(t *testing.T) {
	p := newProxy(t, newTestHandler(t))

	rec := serve(p, http.MethodGet, "/hello-world?jsx")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	direct := serve(newTestHandler(t), http.MethodGet, "/hello-world?jsx")
	if rec.Body.String() != direct.Body.String() {
		t.Errorf("wire payload changed in transit: %s", rec.Body.String())
	}
}

func TestProxyKeepsEscapedPath(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"/a%23b?jsx", "/a%23b"},
		{"/a%3Fb?jsx", "/a%3Fb"},
		{"/caf%C3%A9?jsx", "/caf%C3%A9"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			var got string
			p, err := NewProxyHandler(ProxyConfig{
				Upstream: navigation.FetcherFunc(func(_ context.Context, path string) ([]byte, error) {
					got = path
					return []byte(`"ok"`), nil
				}),
			})
			if err != nil {
				t.Fatal(err)
			}
			rec := serve(p, http.MethodGet, tt.url)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got != tt.want {
				t.Errorf("upstream path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProxyFailures(t *testing.T) {
	tests := []struct {
		name     string
		upstream http.Handler
		url      string
		want     int
	}{
		{"upstream not found", newTestHandler(t), "/missing", http.StatusNotFound},
		{"upstream failure", newTestHandler(t), "/broken", http.StatusInternalServerError},
		{
			name: "garbage payload",
			upstream: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"type":"div"}`))
			}),
			url:  "/x",
			want: http.StatusBadGateway,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newProxy(t, tt.upstream), http.MethodGet, tt.url)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if rec.Body.Len() != 0 {
				t.Errorf("body must be empty, got %q", rec.Body.String())
			}
		})
	}
}

func TestProxyUnreachableUpstream(t *testing.T) {
	p, err := NewProxyHandler(ProxyConfig{
		Upstream: navigation.FetcherFunc(func(context.Context, string) ([]byte, error) {
			return nil, errors.New("connection refused")
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	rec := serve(p, http.MethodGet, "/")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "" {
		t.Errorf("body must be empty, got %q", rec.Body.String())
	}
}
