package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vango-dev/flight/pkg/middleware"
	"github.com/vango-dev/flight/pkg/protocol"
	"github.com/vango-dev/flight/pkg/render"
	"github.com/vango-dev/flight/pkg/resolve"
	"github.com/vango-dev/flight/pkg/routepath"
	"github.com/vango-dev/flight/pkg/vdom"
)

// PageFunc builds the unresolved tree for a request. The request path is
// already canonical when it is called.
type PageFunc func(r *http.Request) (*vdom.Node, error)

// HandlerConfig configures a page Handler.
type HandlerConfig struct {
	// Page builds the tree for a request. Required.
	Page PageFunc

	// Resolver resolves component nodes. Defaults to resolve.New().
	Resolver *resolve.Resolver

	// Renderer renders HTML documents. Defaults to a renderer sharing
	// Resolver.
	Renderer *render.Renderer

	// Scripts are injected after the bootstrap data in HTML responses.
	Scripts []render.ScriptTag

	// BootstrapVar is the global receiving the wire form in HTML
	// responses. Defaults to render.DefaultBootstrapVar.
	BootstrapVar string

	// WireQueryParam is the query flag selecting the wire form.
	// Defaults to middleware.DefaultWireFlag ("jsx").
	WireQueryParam string

	// Metrics counts failed pages. Optional.
	Metrics *middleware.Metrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Handler serves pages as HTML documents or, when the request carries the
// wire query flag, as the wire form of the resolved tree.
//
// Every response is built in full before anything is written. A failure
// anywhere answers with an empty body: 404 for not-found errors, 500 for
// everything else.
type Handler struct {
	config HandlerConfig
	logger *slog.Logger
}

// NewHandler creates a page handler.
func NewHandler(config HandlerConfig) (*Handler, error) {
	if config.Page == nil {
		return nil, ErrNoPage
	}
	if config.Resolver == nil {
		config.Resolver = resolve.New()
	}
	if config.Renderer == nil {
		config.Renderer = render.NewRenderer(render.RendererConfig{Resolver: config.Resolver})
	}
	if config.WireQueryParam == "" {
		config.WireQueryParam = middleware.DefaultWireFlag
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		config: config,
		logger: logger.With("component", "page"),
	}, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if redirectCanonical(w, r) {
		return
	}

	ctx := r.Context()
	tree, err := h.config.Page(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tree, err = h.config.Resolver.Resolve(ctx, tree)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	wire, err := protocol.Encode(tree)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if middleware.Flavor(r, h.config.WireQueryParam) == "wire" {
		writeBody(w, r, "application/json", wire)
		return
	}

	var buf bytes.Buffer
	err = h.config.Renderer.RenderDocument(ctx, &buf, render.DocumentData{
		Tree:         tree,
		Wire:         string(wire),
		BootstrapVar: h.config.BootstrapVar,
		Scripts:      h.config.Scripts,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeBody(w, r, "text/html; charset=utf-8", buf.Bytes())
}

// fail answers with the mapped status and an empty body.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	failPage(w, r, err, StatusOf(err), h.config.Metrics, h.logger)
}

func failPage(w http.ResponseWriter, r *http.Request, err error, status int, metrics *middleware.Metrics, logger *slog.Logger) {
	metrics.RecordBoundaryError(errorKind(err, status))

	attrs := []any{
		"path", r.URL.Path,
		"status", status,
		"error", err,
		"request_id", middleware.RequestIDFromContext(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("page failed", attrs...)
	} else {
		logger.Warn("page failed", attrs...)
	}

	w.Header().Set("Content-Length", "0")
	w.WriteHeader(status)
}

// redirectCanonical answers non-canonical paths with a permanent redirect
// to their canonical form. Malformed paths get 400.
func redirectCanonical(w http.ResponseWriter, r *http.Request) bool {
	res, err := routepath.Canonicalize(r.URL.EscapedPath())
	if err != nil {
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(StatusOf(err))
		return true
	}
	if !res.Changed {
		return false
	}
	res.Query = r.URL.RawQuery
	http.Redirect(w, r, res.String(), http.StatusMovedPermanently)
	return true
}

func writeBody(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}
