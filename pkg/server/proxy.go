package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vango-dev/flight/pkg/middleware"
	"github.com/vango-dev/flight/pkg/navigation"
	"github.com/vango-dev/flight/pkg/protocol"
	"github.com/vango-dev/flight/pkg/render"
)

// ProxyConfig configures a ProxyHandler.
type ProxyConfig struct {
	// Upstream fetches the wire form of a path from the server that
	// resolves trees. Required.
	Upstream navigation.Fetcher

	// Renderer renders HTML documents from decoded trees.
	Renderer *render.Renderer

	// Scripts are injected after the bootstrap data.
	Scripts []render.ScriptTag

	// BootstrapVar defaults to render.DefaultBootstrapVar.
	BootstrapVar string

	// WireQueryParam defaults to middleware.DefaultWireFlag.
	WireQueryParam string

	// Metrics counts failed pages. Optional.
	Metrics *middleware.Metrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// ProxyHandler is the rendering tier of a split deployment. It asks an
// upstream flight server for the wire form of each page and either passes
// it through (wire requests) or decodes and renders it as an HTML document
// with the same payload embedded.
//
// A non-2xx upstream status is passed on with an empty body. Other
// upstream failures answer 502.
type ProxyHandler struct {
	config ProxyConfig
	logger *slog.Logger
}

// NewProxyHandler creates a proxy handler.
func NewProxyHandler(config ProxyConfig) (*ProxyHandler, error) {
	if config.Upstream == nil {
		return nil, ErrNoUpstream
	}
	if config.Renderer == nil {
		config.Renderer = render.NewRenderer(render.RendererConfig{})
	}
	if config.WireQueryParam == "" {
		config.WireQueryParam = middleware.DefaultWireFlag
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProxyHandler{
		config: config,
		logger: logger.With("component", "proxy"),
	}, nil
}

// ServeHTTP implements http.Handler.
func (p *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if redirectCanonical(w, r) {
		return
	}

	ctx := r.Context()
	// The escaped form keeps %23 and %3F inside the path segment.
	wire, err := p.config.Upstream.Fetch(ctx, r.URL.EscapedPath())
	if err != nil {
		status := http.StatusBadGateway
		var se *navigation.StatusError
		if errors.As(err, &se) {
			status = se.Code
		}
		failPage(w, r, err, status, p.config.Metrics, p.logger)
		return
	}

	if middleware.Flavor(r, p.config.WireQueryParam) == "wire" {
		writeBody(w, r, "application/json", wire)
		return
	}

	tree, err := protocol.Decode(wire)
	if err != nil {
		failPage(w, r, err, http.StatusBadGateway, p.config.Metrics, p.logger)
		return
	}

	var buf bytes.Buffer
	err = p.config.Renderer.RenderDocument(ctx, &buf, render.DocumentData{
		Tree:         tree,
		Wire:         string(wire),
		BootstrapVar: p.config.BootstrapVar,
		Scripts:      p.config.Scripts,
	})
	if err != nil {
		failPage(w, r, err, http.StatusInternalServerError, p.config.Metrics, p.logger)
		return
	}
	writeBody(w, r, "text/html; charset=utf-8", buf.Bytes())
}
