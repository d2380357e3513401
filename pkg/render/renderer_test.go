package render

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/vango-dev/flight/pkg/vdom"
)

func renderString(t *testing.T, r *Renderer, node *vdom.Node) string {
	t.Helper()
	html, err := r.RenderToString(context.Background(), node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return html
}

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html := renderString(t, renderer, vdom.Text("Hello, World!"))
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html := renderString(t, renderer, vdom.Text("<script>"))
	if strings.Contains(html, "<") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if html != "&lt;script&gt;" {
		t.Errorf("got %q, want %q", html, "&lt;script&gt;")
	}
}

func TestRenderNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2024, "2024"},
		{1.5, "1.5"},
		{-3, "-3"},
		{0, "0"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{1e21, "1e+21"},
		{1.5e300, "1.5e+300"},
		{1e-7, "1e-7"},
		{-2.5e-10, "-2.5e-10"},
		{0.000001, "0.000001"},
		{1e20, "100000000000000000000"},
	}
	renderer := NewRenderer(RendererConfig{})
	for _, tt := range tests {
		if got := renderString(t, renderer, vdom.Number(tt.in)); got != tt.want {
			t.Errorf("Number(%v) rendered %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})
	for _, node := range []*vdom.Node{nil, vdom.Empty(), vdom.From(true)} {
		if got := renderString(t, renderer, node); got != "" {
			t.Errorf("got %q, want empty string", got)
		}
	}
}

func TestRenderElement(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Div(vdom.Class("container"),
		vdom.H1("Title"),
		vdom.P("Content"),
	)
	html := renderString(t, renderer, node)

	want := `<div class="container"><h1>Title</h1><p>Content</p></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAttributeOrderAndEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.Input(
		vdom.Type("text"),
		vdom.Placeholder(`Say "hi" & <go>`),
		vdom.Prop("data-n", 3),
		vdom.Prop("hidden", true),
		vdom.Prop("skipped", nil),
		vdom.Prop("data-tags", []string{"a", "b"}),
	)
	html := renderString(t, renderer, node)

	want := `<input type="text" placeholder="Say &quot;hi&quot; &amp; &lt;go&gt;" data-n="3" hidden="true" data-tags="[&quot;a&quot;,&quot;b&quot;]"></input>`
	if html != want {
		t.Errorf("got  %q\nwant %q", html, want)
	}
}

func TestRenderKeyNotRendered(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html := renderString(t, renderer, vdom.Li(vdom.Key("post-1"), "x"))
	if html != "<li>x</li>" {
		t.Errorf("got %q", html)
	}
}

func TestRenderTextSeparator(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.Node
		want string
	}{
		{
			name: "adjacent text",
			node: vdom.List(vdom.Text("a"), vdom.Text("b")),
			want: "a<!-- -->b",
		},
		{
			name: "text then element",
			node: vdom.List(vdom.Text("a"), vdom.Span("b")),
			want: "a<span>b</span>",
		},
		{
			name: "element then text",
			node: vdom.List(vdom.Span("a"), vdom.Text("b")),
			want: "<span>a</span>b",
		},
		{
			name: "text and number",
			node: vdom.I("(c) ", "Jae Doe", ", ", 2024),
			want: "<i>(c) <!-- -->Jae Doe<!-- -->, <!-- -->2024</i>",
		},
		{
			name: "empty between text",
			node: vdom.List(vdom.Text("a"), vdom.Empty(), vdom.Text("b")),
			want: "a<!-- -->b",
		},
		{
			name: "nested lists",
			node: vdom.List(vdom.List(vdom.Text("a")), vdom.Text("b")),
			want: "a<!-- -->b",
		},
		{
			name: "single text child",
			node: vdom.P("only"),
			want: "<p>only</p>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderString(t, renderer, tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderUniformTags(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html := renderString(t, renderer, vdom.Nav(vdom.A(vdom.Href("/"), "Home"), vdom.Hr()))
	if html != `<nav><a href="/">Home</a><hr></hr></nav>` {
		t.Errorf("got %q", html)
	}
}

func TestRenderVoidElements(t *testing.T) {
	renderer := NewRenderer(RendererConfig{VoidElements: true})

	html := renderString(t, renderer, vdom.Div(vdom.Hr(), vdom.Input(vdom.Type("text"))))
	if html != `<div><hr><input type="text"></div>` {
		t.Errorf("got %q", html)
	}

	_, err := renderer.RenderToString(context.Background(), vdom.Br("text"))
	if !errors.Is(err, ErrVoidChildren) {
		t.Errorf("expected ErrVoidChildren, got %v", err)
	}
}

func TestRenderResolvesComponents(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	greet := vdom.Func("Greet", func(p vdom.Props) *vdom.Node {
		return vdom.P("hello ", p.String("name"))
	})
	html := renderString(t, renderer, vdom.Div(vdom.Comp(greet, vdom.Prop("name", "go"))))
	if html != "<div><p>hello <!-- -->go</p></div>" {
		t.Errorf("got %q", html)
	}
}

func TestRenderErrors(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.Node
		want error
	}{
		{"invalid tag", vdom.El("di v"), ErrInvalidName},
		{"empty tag", vdom.El(""), ErrInvalidName},
		{"invalid attr", vdom.Div(vdom.Prop(`x"y`, "v")), ErrInvalidName},
		{"node attr", vdom.Div(vdom.Prop("slot", vdom.Text("x"))), ErrUnsupportedValue},
		{"func attr", vdom.Div(vdom.Prop("onclick", func() {})), ErrUnsupportedValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := renderer.RenderToString(context.Background(), tt.node)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var re *RenderError
			if !errors.As(err, &re) {
				t.Errorf("expected *RenderError, got %T", err)
			}
		})
	}
}

func TestRenderToWriterNoPartialOutput(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	node := vdom.Div(vdom.P("fine"), vdom.El("bad tag"))
	if err := renderer.RenderToWriter(context.Background(), &buf, node); err == nil {
		t.Fatal("expected an error")
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written on failure, got %q", buf.String())
	}
}

func TestRenderErrorMessage(t *testing.T) {
	err := &RenderError{Tag: "div", Attr: "x y", Err: ErrInvalidName}
	if err.Error() != "render <div x y>: render: invalid tag or attribute name" {
		t.Errorf("got %q", err.Error())
	}
}
