package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/flight/pkg/vdom"
)

// DefaultBootstrapVar is the global the hydration runtime reads the
// embedded wire form from.
const DefaultBootstrapVar = "__INITIAL_CLIENT_JSX_STRING__"

// DocumentData contains all data needed to render a complete HTML page.
type DocumentData struct {
	// Tree is the resolved tree for the page, usually rooted at <html>.
	Tree *vdom.Node

	// Wire is the wire form of the same tree. It is embedded so the
	// client can rebuild identical state without a second request.
	// Nothing is embedded when empty.
	Wire string

	// BootstrapVar is the global that receives Wire.
	// Defaults to DefaultBootstrapVar.
	BootstrapVar string

	// Scripts are appended after the bootstrap data.
	Scripts []ScriptTag
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Type   string // type attribute
	Defer  bool   // defer attribute
	Async  bool   // async attribute
	Module bool   // type="module"
	Inline string // inline script content, written verbatim
}

// ImportMap returns an inline import map script for the given imports.
func ImportMap(imports map[string]string) (ScriptTag, error) {
	data, err := json.Marshal(map[string]any{"imports": imports})
	if err != nil {
		return ScriptTag{}, err
	}
	return ScriptTag{Type: "importmap", Inline: string(data)}, nil
}

// RenderDocument renders a complete HTML document to w.
//
// The tree is rendered as markup; the bootstrap script carrying the wire
// form and the configured scripts are inserted right before </body>, or
// appended when the tree has no body. A <!DOCTYPE html> is prepended when
// the root is an <html> element. Nothing is written on failure.
func (r *Renderer) RenderDocument(ctx context.Context, w io.Writer, doc DocumentData) error {
	html, err := r.RenderToString(ctx, doc.Tree)
	if err != nil {
		return err
	}

	var inject bytes.Buffer
	if doc.Wire != "" {
		if err := writeBootstrap(&inject, doc.BootstrapVar, doc.Wire); err != nil {
			return err
		}
	}
	for _, script := range doc.Scripts {
		writeScriptTag(&inject, script)
	}

	pos := strings.LastIndex(html, "</body>")
	if pos < 0 {
		pos = len(html)
	}

	var out bytes.Buffer
	out.Grow(len(html) + inject.Len() + 16)
	if doc.Tree.Kind() == vdom.KindElement && doc.Tree.Tag == "html" {
		out.WriteString("<!DOCTYPE html>")
	}
	out.WriteString(html[:pos])
	out.Write(inject.Bytes())
	out.WriteString(html[pos:])

	_, err = out.WriteTo(w)
	return err
}

// writeBootstrap writes the script that assigns the wire string to a
// global. The string is JSON-quoted; encoding/json escapes '<', '>' and
// '&' as \u003c, \u003e and \u0026, so the payload cannot close the
// script element.
func writeBootstrap(buf *bytes.Buffer, name, wire string) error {
	if name == "" {
		name = DefaultBootstrapVar
	}
	if !validName(name) {
		return &RenderError{Tag: "script", Err: fmt.Errorf("%w: %q", ErrInvalidName, name)}
	}
	quoted, err := json.Marshal(wire)
	if err != nil {
		return &RenderError{Tag: "script", Err: err}
	}
	buf.WriteString("<script>window.")
	buf.WriteString(name)
	buf.WriteString(" = ")
	buf.Write(quoted)
	buf.WriteString("</script>")
	return nil
}

// writeScriptTag renders a script element.
func writeScriptTag(buf *bytes.Buffer, script ScriptTag) {
	buf.WriteString("<script")
	if script.Src != "" {
		fmt.Fprintf(buf, ` src="%s"`, escapeAttr(script.Src))
	}
	if script.Module {
		buf.WriteString(` type="module"`)
	} else if script.Type != "" {
		fmt.Fprintf(buf, ` type="%s"`, escapeAttr(script.Type))
	}
	if script.Defer {
		buf.WriteString(" defer")
	}
	if script.Async {
		buf.WriteString(" async")
	}
	buf.WriteByte('>')
	buf.WriteString(script.Inline)
	buf.WriteString("</script>")
}
