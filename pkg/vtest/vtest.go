package vtest

import (
	"context"
	"strings"
	"testing"

	"github.com/vango-dev/flight/pkg/protocol"
	"github.com/vango-dev/flight/pkg/render"
	"github.com/vango-dev/flight/pkg/resolve"
	"github.com/vango-dev/flight/pkg/vdom"
)

// Resolve resolves every component in node, failing the test on error.
func Resolve(t testing.TB, node *vdom.Node) *vdom.Node {
	t.Helper()
	out, err := resolve.Resolve(context.Background(), node)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return out
}

// RenderToString renders node as HTML, failing the test on error.
//
// Example:
//
//	html := vtest.RenderToString(t, vdom.Comp(Post, vdom.Prop("slug", "hello")))
func RenderToString(t testing.TB, node *vdom.Node) string {
	t.Helper()
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(context.Background(), node)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return html
}

// Wire resolves node and returns its wire form. It also checks that the
// payload decodes back to the resolved tree.
func Wire(t testing.TB, node *vdom.Node) string {
	t.Helper()
	resolved := Resolve(t, node)
	wire, err := protocol.EncodeString(resolved)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := protocol.DecodeString(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !vdom.Equal(decoded, resolved) {
		t.Fatalf("wire form does not decode to the resolved tree:\n%s", truncate(wire, 500))
	}
	return wire
}

// ExpectContains asserts that rendered output contains expected.
//
// Example:
//
//	vtest.ExpectContains(t, page, "Welcome to blog")
func ExpectContains(t testing.TB, node *vdom.Node, expected string) {
	t.Helper()
	html := RenderToString(t, node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain
// unexpected.
func ExpectNotContains(t testing.TB, node *vdom.Node, unexpected string) {
	t.Helper()
	html := RenderToString(t, node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a tag.
func ExpectElement(t testing.TB, node *vdom.Node, tag string) {
	t.Helper()
	html := RenderToString(t, node)
	if !strings.Contains(html, "<"+tag+">") && !strings.Contains(html, "<"+tag+" ") {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains attr="value".
// value is compared after HTML escaping.
//
// Example:
//
//	vtest.ExpectAttribute(t, nav, "href", "/")
func ExpectAttribute(t testing.TB, node *vdom.Node, attr, value string) {
	t.Helper()
	html := RenderToString(t, node)
	needle := attr + `="` + escape(value) + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")

func escape(s string) string {
	return attrEscaper.Replace(s)
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
