package vdom

import "context"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindEmpty     Kind = iota // nil, booleans; renders to nothing
	KindText                  // Plain text node
	KindNumber                // Numeric text node
	KindList                  // Ordered sequence of nodes
	KindElement               // <div>, <a>, etc.
	KindComponent             // Deferred component evaluation
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindText:
		return "Text"
	case KindNumber:
		return "Number"
	case KindList:
		return "List"
	case KindElement:
		return "Element"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// ChildrenKey is the reserved attribute name that carries an element's
// children. It never appears in Attrs.
const ChildrenKey = "children"

// KeyAttr is the attribute name that sets an element's reconciliation key.
const KeyAttr = "key"

// Node is a node of an element tree.
//
// The kind is fixed at construction; use the constructors in this package
// to build nodes. A nil *Node is equivalent to an Empty node. Nodes are
// treated as immutable once handed to another layer: the resolver, the
// renderer and the wire codec re-wrap, they never mutate.
type Node struct {
	kind Kind

	Text string  // For KindText
	Num  float64 // For KindNumber

	Tag      string // For KindElement
	Key      string // For KindElement; never rendered
	Attrs    Attrs  // For KindElement; never contains ChildrenKey
	Children *Node  // For KindElement; nil means no children

	Items []*Node // For KindList

	Comp  Component // For KindComponent
	Props Props     // For KindComponent
}

// Kind returns the node kind. A nil node reports KindEmpty.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindEmpty
	}
	return n.kind
}

// IsText reports whether the node renders as a text run (text or number).
func (n *Node) IsText() bool {
	k := n.Kind()
	return k == KindText || k == KindNumber
}

// Attr is a single element attribute or component prop.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Attrs is an ordered attribute list. Order is preserved through
// rendering and the wire form.
type Attrs []Attr

// Get returns the value for key and whether it was present.
func (as Attrs) Get(key string) (any, bool) {
	for _, a := range as {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// String returns the value for key if it is a string, or "".
func (as Attrs) String(key string) string {
	v, _ := as.Get(key)
	s, _ := v.(string)
	return s
}

// With returns a copy of as with key set to value. An existing key keeps
// its position.
func (as Attrs) With(key string, value any) Attrs {
	out := make(Attrs, len(as), len(as)+1)
	copy(out, as)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attr{Key: key, Value: value})
}

// Props is the argument bag passed to a component.
type Props struct {
	Attrs    Attrs
	Children *Node
}

// Get returns the prop value for key.
func (p Props) Get(key string) (any, bool) {
	return p.Attrs.Get(key)
}

// String returns the prop for key if it is a string, or "".
func (p Props) String(key string) string {
	return p.Attrs.String(key)
}

// Component is anything that can produce an element tree from props.
//
// Render may block (read files, call services); the resolver runs sibling
// components concurrently and waits for all of them. A component may
// return another component node; resolution continues until none remain.
type Component interface {
	Name() string
	Render(ctx context.Context, props Props) (*Node, error)
}

// FuncComponent wraps a synchronous render function.
type FuncComponent struct {
	name   string
	render func(Props) *Node
}

// Name implements Component.
func (f *FuncComponent) Name() string { return f.name }

// Render implements Component.
func (f *FuncComponent) Render(_ context.Context, props Props) (*Node, error) {
	return f.render(props), nil
}

// Func creates a component from a synchronous render function.
func Func(name string, render func(Props) *Node) Component {
	return &FuncComponent{name: name, render: render}
}

// AsyncComponent wraps a render function that may block and fail.
type AsyncComponent struct {
	name   string
	render func(context.Context, Props) (*Node, error)
}

// Name implements Component.
func (f *AsyncComponent) Name() string { return f.name }

// Render implements Component.
func (f *AsyncComponent) Render(ctx context.Context, props Props) (*Node, error) {
	return f.render(ctx, props)
}

// AsyncFunc creates a component from a blocking, fallible render function.
func AsyncFunc(name string, render func(context.Context, Props) (*Node, error)) Component {
	return &AsyncComponent{name: name, render: render}
}

// IsResolved reports whether no component node remains at any depth.
func IsResolved(n *Node) bool {
	switch n.Kind() {
	case KindComponent:
		return false
	case KindList:
		for _, item := range n.Items {
			if !IsResolved(item) {
				return false
			}
		}
		return true
	case KindElement:
		return IsResolved(n.Children)
	default:
		return true
	}
}
