package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/flight/pkg/vdom"
)

// DefaultMaxDepth bounds how many components may return components in a
// single chain before resolution fails.
const DefaultMaxDepth = 256

// tracerName is the OpenTelemetry instrumentation name.
const tracerName = "github.com/vango-dev/flight/pkg/resolve"

// Resolver evaluates component nodes until only host, text and empty
// nodes remain.
//
// A Resolver holds no per-request state and may be shared.
type Resolver struct {
	maxDepth int
	tracer   trace.Tracer
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth sets the maximum component nesting depth.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// WithTracer sets the tracer used for per-component spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		maxDepth: DefaultMaxDepth,
		tracer:   otel.Tracer(tracerName),
		logger:   slog.Default().With("component", "resolve"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = New()

// Resolve resolves node with a default Resolver.
func Resolve(ctx context.Context, node *vdom.Node) (*vdom.Node, error) {
	return defaultResolver.Resolve(ctx, node)
}

// Resolve returns the fully resolved form of node.
//
// Sibling subtrees under a list are resolved concurrently and joined
// before returning; the result keeps input order. The first failure
// cancels the remaining siblings. Already resolved subtrees are returned
// as is, so resolving a resolved tree allocates nothing.
func (r *Resolver) Resolve(ctx context.Context, node *vdom.Node) (*vdom.Node, error) {
	return r.resolve(ctx, node, 0, "")
}

func (r *Resolver) resolve(ctx context.Context, node *vdom.Node, depth int, path string) (*vdom.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch node.Kind() {
	case vdom.KindEmpty, vdom.KindText, vdom.KindNumber:
		return node, nil
	case vdom.KindList:
		return r.resolveList(ctx, node, depth, path)
	case vdom.KindElement:
		return r.resolveElement(ctx, node, depth, path)
	case vdom.KindComponent:
		return r.resolveComponent(ctx, node, depth, path)
	default:
		return nil, &ResolutionError{Path: path, Err: fmt.Errorf("unknown node kind: %d", node.Kind())}
	}
}

// resolveList fans out over the items that need work and joins them.
func (r *Resolver) resolveList(ctx context.Context, node *vdom.Node, depth int, path string) (*vdom.Node, error) {
	results := make([]*vdom.Node, len(node.Items))
	copy(results, node.Items)

	pending := 0
	for _, item := range node.Items {
		if needsWork(item) {
			pending++
		}
	}
	if pending == 0 {
		return node, nil
	}

	if pending == 1 {
		for i, item := range node.Items {
			if !needsWork(item) {
				continue
			}
			out, err := r.resolve(ctx, item, depth, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			results[i] = out
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, item := range node.Items {
			if !needsWork(item) {
				continue
			}
			g.Go(func() error {
				out, err := r.resolve(gctx, item, depth, indexPath(path, i))
				if err != nil {
					return err
				}
				results[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	changed := false
	for i := range results {
		if results[i] != node.Items[i] {
			changed = true
			break
		}
	}
	if !changed {
		return node, nil
	}
	return vdom.List(results...), nil
}

func (r *Resolver) resolveElement(ctx context.Context, node *vdom.Node, depth int, path string) (*vdom.Node, error) {
	if !needsWork(node.Children) {
		return node, nil
	}

	children, err := r.resolve(ctx, node.Children, depth, appendPath(path, node.Tag))
	if err != nil {
		return nil, err
	}
	if children == node.Children {
		return node, nil
	}

	out := vdom.Element(node.Tag, node.Attrs, children)
	out.Key = node.Key
	return out, nil
}

func (r *Resolver) resolveComponent(ctx context.Context, node *vdom.Node, depth int, path string) (*vdom.Node, error) {
	if node.Comp == nil {
		return nil, &ResolutionError{Path: path, Err: ErrNilComponent}
	}

	name := node.Comp.Name()
	if depth >= r.maxDepth {
		return nil, &ResolutionError{Component: name, Path: path, Err: ErrMaxDepthExceeded}
	}

	out, err := r.evaluate(ctx, node, name)
	if err != nil {
		var re *ResolutionError
		if errors.As(err, &re) {
			return nil, err
		}
		r.logger.Debug("component failed", "component", name, "path", path, "error", err)
		return nil, &ResolutionError{Component: name, Path: path, Err: err}
	}
	if out == nil {
		return vdom.Empty(), nil
	}

	return r.resolve(ctx, out, depth+1, appendPath(path, name))
}

// evaluate calls the component inside a span and converts panics to errors.
func (r *Resolver) evaluate(ctx context.Context, node *vdom.Node, name string) (out *vdom.Node, err error) {
	ctx, span := r.tracer.Start(ctx, "resolve.component",
		trace.WithAttributes(attribute.String("flight.component", name)),
	)
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("component panicked", "component", name, "panic", p, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", p)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return node.Comp.Render(ctx, node.Props)
}

// needsWork reports whether a node could contain a component. Text and
// empty leaves never do.
func needsWork(n *vdom.Node) bool {
	switch n.Kind() {
	case vdom.KindEmpty, vdom.KindText, vdom.KindNumber:
		return false
	}
	return true
}

func appendPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + ">" + segment
}

// indexPath appends a list position, e.g. "main>[2]".
func indexPath(path string, i int) string {
	return appendPath(path, "["+strconv.Itoa(i)+"]")
}
