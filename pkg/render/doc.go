// Package render provides server-side rendering of element trees to HTML.
//
// The renderer walks a resolved tree and writes escaped markup:
//
//   - Text is HTML-escaped; numbers are formatted the way JavaScript
//     prints them, then escaped
//   - Two adjacent text runs are separated by an empty comment (<!-- -->)
//     so that the parsed document keeps them as distinct text nodes
//   - Attributes are written in stored order as name="escaped-value"
//   - Every host tag is written as <tag>...</tag> unless
//     RendererConfig.VoidElements is set
//
// Rendering is all-or-nothing: output is buffered and only written once
// the whole tree rendered, so a failure never leaves partial markup.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(ctx, tree)
//
// # Documents
//
// RenderDocument renders a full page and embeds the wire form of the same
// tree for the client runtime:
//
//	err := renderer.RenderDocument(ctx, w, render.DocumentData{
//	    Tree: tree,
//	    Wire: wire,
//	    Scripts: []render.ScriptTag{{Src: "/client.js", Module: true}},
//	})
//
// # Security
//
// All text content and attribute values are escaped. The embedded wire
// string is JSON-quoted with '<' written as \u003c.
package render
