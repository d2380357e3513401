package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/vango-dev/flight/pkg/resolve"
	"github.com/vango-dev/flight/pkg/vdom"
)

// TextSeparator is written between two adjacent text runs so that a
// markup parser keeps them as distinct text nodes.
const TextSeparator = "<!-- -->"

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// VoidElements enables void-element shorthand: <hr>, <input> and the
	// other HTML void elements are written without a closing tag. By
	// default every host tag is written uniformly as <tag></tag>.
	VoidElements bool

	// Resolver resolves component nodes reached during rendering.
	// Defaults to a resolver with default options.
	Resolver *resolve.Resolver

	// Logger receives render failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// Renderer renders element trees to HTML.
//
// A Renderer holds no per-render state and may be shared between
// goroutines.
type Renderer struct {
	config RendererConfig
	logger *slog.Logger
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Resolver == nil {
		config.Resolver = resolve.New()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		config: config,
		logger: logger.With("component", "render"),
	}
}

// RenderToString renders a tree to an HTML string.
func (r *Renderer) RenderToString(ctx context.Context, node *vdom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.render(ctx, &buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter renders a tree and writes the result to w. Nothing is
// written when rendering fails.
func (r *Renderer) RenderToWriter(ctx context.Context, w io.Writer, node *vdom.Node) error {
	var buf bytes.Buffer
	if err := r.render(ctx, &buf, node); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) render(ctx context.Context, buf *bytes.Buffer, node *vdom.Node) error {
	s := &renderState{ctx: ctx, buf: buf, r: r}
	if err := s.renderNode(node); err != nil {
		r.logger.Error("render failed", "error", err)
		return err
	}
	return nil
}

// renderState tracks whether the last thing written was a text run.
type renderState struct {
	ctx      context.Context
	buf      *bytes.Buffer
	r        *Renderer
	lastText bool
}

// renderNode dispatches rendering based on node kind.
func (s *renderState) renderNode(node *vdom.Node) error {
	switch node.Kind() {
	case vdom.KindEmpty:
		return nil
	case vdom.KindText:
		s.writeText(escapeHTML(node.Text))
		return nil
	case vdom.KindNumber:
		s.writeText(escapeHTML(FormatNumber(node.Num)))
		return nil
	case vdom.KindList:
		for _, item := range node.Items {
			if err := s.renderNode(item); err != nil {
				return err
			}
		}
		return nil
	case vdom.KindElement:
		return s.renderElement(node)
	case vdom.KindComponent:
		return s.renderComponent(node)
	default:
		return &RenderError{Err: fmt.Errorf("%w: %d", ErrUnknownKind, node.Kind())}
	}
}

// writeText writes an escaped text run, separating it from a preceding run.
func (s *renderState) writeText(escaped string) {
	if s.lastText {
		s.buf.WriteString(TextSeparator)
	}
	s.buf.WriteString(escaped)
	s.lastText = true
}

// renderElement renders an HTML element with its attributes and children.
func (s *renderState) renderElement(node *vdom.Node) error {
	tag := node.Tag
	if !validName(tag) {
		return &RenderError{Tag: tag, Err: ErrInvalidName}
	}
	s.lastText = false

	s.buf.WriteByte('<')
	s.buf.WriteString(tag)
	if err := s.renderAttributes(node); err != nil {
		return err
	}
	s.buf.WriteByte('>')

	if s.r.config.VoidElements && vdom.IsVoidElement(tag) {
		if node.Children.Kind() != vdom.KindEmpty {
			return &RenderError{Tag: tag, Err: ErrVoidChildren}
		}
		return nil
	}

	if err := s.renderNode(node.Children); err != nil {
		return err
	}

	s.buf.WriteString("</")
	s.buf.WriteString(tag)
	s.buf.WriteByte('>')
	s.lastText = false
	return nil
}

// renderAttributes renders attributes in stored order.
func (s *renderState) renderAttributes(node *vdom.Node) error {
	for _, a := range node.Attrs {
		if a.Key == vdom.ChildrenKey || a.Key == vdom.KeyAttr {
			continue
		}
		if !validName(a.Key) {
			return &RenderError{Tag: node.Tag, Attr: a.Key, Err: ErrInvalidName}
		}
		if a.Value == nil {
			continue
		}

		value, err := attrToString(a.Value)
		if err != nil {
			return &RenderError{Tag: node.Tag, Attr: a.Key, Err: err}
		}

		s.buf.WriteByte(' ')
		s.buf.WriteString(a.Key)
		s.buf.WriteString(`="`)
		s.buf.WriteString(escapeAttr(value))
		s.buf.WriteByte('"')
	}
	return nil
}

// renderComponent resolves a component reached during rendering and
// renders its output.
func (s *renderState) renderComponent(node *vdom.Node) error {
	out, err := s.r.config.Resolver.Resolve(s.ctx, node)
	if err != nil {
		return err
	}
	return s.renderNode(out)
}

// attrToString converts an attribute value to its unescaped markup form.
func attrToString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return FormatNumber(v), nil
	case int:
		return strconv.Itoa(v), nil
	case *vdom.Node, vdom.Component:
		return "", ErrUnsupportedValue
	}

	plain, ok := vdom.Normalize(value)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
	switch p := plain.(type) {
	case float64:
		return FormatNumber(p), nil
	case string:
		return p, nil
	case bool:
		return strconv.FormatBool(p), nil
	}
	data, err := json.Marshal(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}
	return string(data), nil
}

// FormatNumber formats a number the way a JavaScript runtime prints it:
// integers without a fraction, NaN and infinities by name, and exponents
// outside [1e-6, 1e21) in the form 1.5e+300 or 1e-7.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		// JavaScript writes the exponent without leading zeros: 1e-7.
		mant, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// validName reports whether s can be written as a tag or attribute name.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9', c == '-', c == '.':
			if i == 0 {
				return false
			}
		case c == '_', c == ':':
		default:
			return false
		}
	}
	return true
}
