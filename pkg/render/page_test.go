package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/vango-dev/flight/pkg/vdom"
)

func TestRenderDocumentInjectsBootstrap(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	tree := vdom.Html(
		vdom.Head(vdom.Title("My Blog")),
		vdom.Body(vdom.Main("hi")),
	)
	wire := `{"text":"</script><script>alert(1)</script>"}`

	var buf bytes.Buffer
	err := renderer.RenderDocument(context.Background(), &buf, DocumentData{
		Tree:    tree,
		Wire:    wire,
		Scripts: []ScriptTag{{Src: "/client.js", Module: true}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := buf.String()

	if !strings.HasPrefix(html, "<!DOCTYPE html><html>") {
		t.Errorf("document should start with doctype, got %q", html[:30])
	}
	if !strings.Contains(html, "<script>window.__INITIAL_CLIENT_JSX_STRING__ = ") {
		t.Errorf("bootstrap script missing: %q", html)
	}
	if strings.Contains(html, "</script><script>alert") {
		t.Errorf("wire payload must not be able to close the script element: %q", html)
	}
	if !strings.Contains(html, `\u003c/script\u003e`) {
		t.Errorf("'<' should be written as an escape sequence: %q", html)
	}

	bootstrap := strings.Index(html, "__INITIAL_CLIENT_JSX_STRING__")
	client := strings.Index(html, `<script src="/client.js" type="module"></script>`)
	body := strings.Index(html, "</body>")
	if !(bootstrap < client && client < body) {
		t.Errorf("scripts should be injected before </body> in order, got %q", html)
	}
}

func TestRenderDocumentWithoutBody(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	err := renderer.RenderDocument(context.Background(), &buf, DocumentData{
		Tree:         vdom.Section("x"),
		Wire:         `"x"`,
		BootstrapVar: "__DATA__",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<section>x</section><script>window.__DATA__ = "\"x\""</script>`
	if buf.String() != want {
		t.Errorf("got  %q\nwant %q", buf.String(), want)
	}
}

func TestRenderDocumentInvalidBootstrapVar(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	err := renderer.RenderDocument(context.Background(), &buf, DocumentData{
		Tree:         vdom.Section("x"),
		Wire:         "1",
		BootstrapVar: "a;alert(1)",
	})
	if err == nil {
		t.Fatal("expected an error for an invalid global name")
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written on failure, got %q", buf.String())
	}
}

func TestImportMap(t *testing.T) {
	tag, err := ImportMap(map[string]string{"react": "https://esm.sh/react@canary"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.Type != "importmap" {
		t.Errorf("Type = %q", tag.Type)
	}
	if tag.Inline != `{"imports":{"react":"https://esm.sh/react@canary"}}` {
		t.Errorf("Inline = %q", tag.Inline)
	}
}

func TestEscapeHelpers(t *testing.T) {
	if got := escapeHTML("a\nb & 'c'"); got != "a\nb &amp; &#39;c&#39;" {
		t.Errorf("escapeHTML = %q", got)
	}
	if got := escapeAttr("a\nb\t\"c\""); got != "a&#10;b&#9;&quot;c&quot;" {
		t.Errorf("escapeAttr = %q", got)
	}
	if got := escapeHTML("plain"); got != "plain" {
		t.Errorf("escapeHTML = %q", got)
	}
}
