package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vango-dev/flight/pkg/content"
	"github.com/vango-dev/flight/pkg/protocol"
	"github.com/vango-dev/flight/pkg/render"
	"github.com/vango-dev/flight/pkg/vdom"
)

var postComponent = vdom.AsyncFunc("Post", func(_ context.Context, p vdom.Props) (*vdom.Node, error) {
	slug := p.String("slug")
	if slug == "missing" {
		return nil, fmt.Errorf("read %s: %w", slug, content.ErrNotFound)
	}
	if slug == "broken" {
		return nil, errors.New("disk on fire")
	}
	return vdom.Section(vdom.H2(slug), vdom.Article("$RE and <b>")), nil
})

func testPage(r *http.Request) (*vdom.Node, error) {
	slug := strings.TrimPrefix(r.URL.Path, "/")
	if slug == "gone" {
		return nil, ErrNotFound
	}
	return vdom.Html(
		vdom.Head(vdom.Title("My Blog")),
		vdom.Body(vdom.Main(vdom.Comp(postComponent, vdom.Prop("slug", slug)))),
	), nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerConfig{
		Page:    testPage,
		Scripts: []render.ScriptTag{{Src: "/static/client.js", Module: true}},
	})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return h
}

func serve(h http.Handler, method, url string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, url, nil))
	return rec
}

func TestNewHandlerRequiresPage(t *testing.T) {
	if _, err := NewHandler(HandlerConfig{}); !errors.Is(err, ErrNoPage) {
		t.Errorf("expected ErrNoPage, got %v", err)
	}
}

func TestHandlerHTML(t *testing.T) {
	rec := serve(newTestHandler(t), http.MethodGet, "/hello-world")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<!DOCTYPE html><html><head><title>My Blog</title></head>",
		"<h2>hello-world</h2><article>$RE and &lt;b&gt;</article>",
		"<script>window.__INITIAL_CLIENT_JSX_STRING__ = ",
		`<script src="/static/client.js" type="module"></script></body>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "<b>") {
		t.Errorf("text must be escaped everywhere: %s", body)
	}
}

func TestHandlerWire(t *testing.T) {
	rec := serve(newTestHandler(t), http.MethodGet, "/hello-world?jsx")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	tree, err := protocol.Decode(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := vdom.Html(
		vdom.Head(vdom.Title("My Blog")),
		vdom.Body(vdom.Main(vdom.Section(vdom.H2("hello-world"), vdom.Article("$RE and <b>")))),
	)
	if !vdom.Equal(tree, want) {
		t.Errorf("wire tree mismatch: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"$$RE and `) {
		t.Errorf("user string should be escaped on the wire: %s", rec.Body.String())
	}
}

func TestHandlerBoundary(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want int
	}{
		{"component not found", "/missing", http.StatusNotFound},
		{"component not found wire", "/missing?jsx", http.StatusNotFound},
		{"page not found", "/gone", http.StatusNotFound},
		{"component failure", "/broken", http.StatusInternalServerError},
		{"component failure wire", "/broken?jsx", http.StatusInternalServerError},
		{"null byte", "/a/%00b", http.StatusBadRequest},
		{"escapes root", "/../etc/passwd", http.StatusBadRequest},
	}
	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tt.url)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if rec.Body.Len() != 0 {
				t.Errorf("body must be empty, got %q", rec.Body.String())
			}
		})
	}
}

func TestHandlerUnencodableTree(t *testing.T) {
	h, err := NewHandler(HandlerConfig{Page: func(*http.Request) (*vdom.Node, error) {
		return vdom.Div(vdom.Prop("onclick", func() {})), nil
	}})
	if err != nil {
		t.Fatal(err)
	}
	rec := serve(h, http.MethodGet, "/")
	if rec.Code != http.StatusInternalServerError || rec.Body.Len() != 0 {
		t.Errorf("got %d %q, want 500 with empty body", rec.Code, rec.Body.String())
	}
}

func TestHandlerRedirectsToCanonicalPath(t *testing.T) {
	rec := serve(newTestHandler(t), http.MethodGet, "/posts//hello-world/?jsx")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/posts/hello-world?jsx" {
		t.Errorf("Location = %q", loc)
	}
}

func TestHandlerMethods(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h, http.MethodPost, "/")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d", rec.Code)
	}

	rec = serve(h, http.MethodHead, "/hello-world")
	if rec.Code != http.StatusOK {
		t.Errorf("HEAD status = %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Error("HEAD must not write a body")
	}
	if rec.Header().Get("Content-Length") == "0" {
		t.Error("HEAD should report the length of the GET body")
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", content.ErrNotFound), http.StatusNotFound},
		{&content.NotFoundError{Slug: "x"}, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Errorf("StatusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
