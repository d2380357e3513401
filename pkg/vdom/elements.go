package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates a host element with the given tag.
// Arguments can be: nil, Attr, []Attr, Attrs, *Node, []*Node, Component,
// string, numbers or booleans. Zero children leave Children nil, a single
// child is stored as is and several children become a list.
func El(tag string, args ...any) *Node {
	attrs, children := splitArgs(args)
	return Element(tag, attrs, children)
}

// Document structure elements

func Html(args ...any) *Node  { return El("html", args...) }
func Head(args ...any) *Node  { return El("head", args...) }
func Body(args ...any) *Node  { return El("body", args...) }
func Title(args ...any) *Node { return El("title", args...) }
func Meta(args ...any) *Node  { return El("meta", args...) }
func Link(args ...any) *Node  { return El("link", args...) }

// Content sectioning elements

func Header(args ...any) *Node  { return El("header", args...) }
func Footer(args ...any) *Node  { return El("footer", args...) }
func Main(args ...any) *Node    { return El("main", args...) }
func Nav(args ...any) *Node     { return El("nav", args...) }
func Section(args ...any) *Node { return El("section", args...) }
func Article(args ...any) *Node { return El("article", args...) }
func H1(args ...any) *Node      { return El("h1", args...) }
func H2(args ...any) *Node      { return El("h2", args...) }
func H3(args ...any) *Node      { return El("h3", args...) }

// Text content elements

func Div(args ...any) *Node  { return El("div", args...) }
func P(args ...any) *Node    { return El("p", args...) }
func Span(args ...any) *Node { return El("span", args...) }
func Pre(args ...any) *Node  { return El("pre", args...) }
func Ul(args ...any) *Node   { return El("ul", args...) }
func Li(args ...any) *Node   { return El("li", args...) }
func Hr(args ...any) *Node   { return El("hr", args...) }

// Inline text semantics

func A(args ...any) *Node      { return El("a", args...) }
func Strong(args ...any) *Node { return El("strong", args...) }
func Em(args ...any) *Node     { return El("em", args...) }
func I(args ...any) *Node      { return El("i", args...) }
func Code(args ...any) *Node   { return El("code", args...) }
func Time_(args ...any) *Node  { return El("time", args...) }
func Br(args ...any) *Node     { return El("br", args...) }

// Form elements

func Form(args ...any) *Node   { return El("form", args...) }
func Input(args ...any) *Node  { return El("input", args...) }
func Button(args ...any) *Node { return El("button", args...) }
func Label(args ...any) *Node  { return El("label", args...) }
