package vdom

import (
	"fmt"
	"reflect"
)

// Empty creates an empty node.
func Empty() *Node {
	return &Node{kind: KindEmpty}
}

// Text creates a text node.
func Text(content string) *Node {
	return &Node{kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Number creates a numeric text node.
func Number(v float64) *Node {
	return &Node{kind: KindNumber, Num: v}
}

// List creates an ordered list of nodes. Nil items are kept as empty
// positions so that indexes stay stable.
func List(items ...*Node) *Node {
	out := make([]*Node, len(items))
	for i, item := range items {
		if item == nil {
			item = Empty()
		}
		out[i] = item
	}
	return &Node{kind: KindList, Items: out}
}

// Fragment groups children without a wrapper element.
// Arguments are converted with From.
func Fragment(children ...any) *Node {
	items := make([]*Node, 0, len(children))
	for _, child := range children {
		items = append(items, From(child))
	}
	return &Node{kind: KindList, Items: items}
}

// Element creates a host element. A ChildrenKey attribute in attrs is
// removed and, when children is nil, used as the children.
func Element(tag string, attrs Attrs, children *Node) *Node {
	node := &Node{kind: KindElement, Tag: tag, Children: children}
	for _, a := range attrs {
		switch a.Key {
		case "":
			continue
		case ChildrenKey:
			if node.Children == nil {
				node.Children = From(a.Value)
			}
		case KeyAttr:
			node.Key = fmt.Sprint(a.Value)
		default:
			node.Attrs = append(node.Attrs, a)
		}
	}
	return node
}

// Comp creates a component node. Arguments are Attr values (props) and
// children, the same as element helpers accept.
func Comp(c Component, args ...any) *Node {
	attrs, children := splitArgs(args)
	props := Props{Children: children}
	for _, a := range attrs {
		if a.Key == ChildrenKey {
			if props.Children == nil {
				props.Children = From(a.Value)
			}
			continue
		}
		props.Attrs = append(props.Attrs, a)
	}
	return &Node{kind: KindComponent, Comp: c, Props: props}
}

// CompProps creates a component node from an already built props bag.
func CompProps(c Component, props Props) *Node {
	return &Node{kind: KindComponent, Comp: c, Props: props}
}

// From converts a Go value to a node.
//
// Strings become text, numbers become numeric text, nil and booleans
// become Empty, slices become lists and components become component
// nodes. Other values are formatted with fmt.Sprint.
func From(v any) *Node {
	switch v := v.(type) {
	case nil:
		return Empty()
	case *Node:
		if v == nil {
			return Empty()
		}
		return v
	case string:
		return Text(v)
	case bool:
		return Empty()
	case []*Node:
		return List(v...)
	case []any:
		items := make([]*Node, len(v))
		for i, item := range v {
			items[i] = From(item)
		}
		return &Node{kind: KindList, Items: items}
	case []string:
		items := make([]*Node, len(v))
		for i, s := range v {
			items[i] = Text(s)
		}
		return &Node{kind: KindList, Items: items}
	case Component:
		return Comp(v)
	}
	if f, ok := toFloat(v); ok {
		return Number(f)
	}
	return Text(fmt.Sprint(v))
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *Node) *Node {
	if condition {
		return node
	}
	return nil
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *Node) *Node {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to nodes.
func Range[T any](items []T, fn func(item T, index int) *Node) []*Node {
	out := make([]*Node, 0, len(items))
	for i, item := range items {
		out = append(out, fn(item, i))
	}
	return out
}

// Key creates a key attribute for reconciliation.
// The key is converted to a string using fmt.Sprint.
func Key(key any) Attr {
	return Attr{Key: KeyAttr, Value: fmt.Sprint(key)}
}

// Prop creates an arbitrary attribute or component prop.
func Prop(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// splitArgs separates element helper arguments into attributes and a
// children node. No child yields nil, one child yields that child, more
// yield a list.
func splitArgs(args []any) (Attrs, *Node) {
	var attrs Attrs
	var children []*Node

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue
		case Attr:
			if !v.IsEmpty() {
				attrs = append(attrs, v)
			}
		case []Attr:
			for _, a := range v {
				if !a.IsEmpty() {
					attrs = append(attrs, a)
				}
			}
		case Attrs:
			for _, a := range v {
				if !a.IsEmpty() {
					attrs = append(attrs, a)
				}
			}
		case *Node:
			if v != nil {
				children = append(children, v)
			}
		case []*Node:
			children = append(children, List(v...))
		case bool:
			children = append(children, Empty())
		default:
			children = append(children, From(v))
		}
	}

	switch len(children) {
	case 0:
		return attrs, nil
	case 1:
		return attrs, children[0]
	default:
		return attrs, &Node{kind: KindList, Items: children}
	}
}

// toFloat converts any Go numeric value to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Normalize converts an attribute value to its plain-data form: nil, bool,
// string, float64, []any or map[string]any, recursively. It returns false
// for values that have no plain-data form (funcs, channels, nodes, maps
// with non-string keys).
func Normalize(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case bool, string:
		return t, true
	case *Node, Component:
		return nil, false
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			n, ok := Normalize(item)
			if !ok {
				return nil, false
			}
			out[i] = n
		}
		return out, true
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			n, ok := Normalize(item)
			if !ok {
				return nil, false
			}
			out[k] = n
		}
		return out, true
	}
	if f, ok := toFloat(v); ok {
		return f, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			n, ok := Normalize(rv.Index(i).Interface())
			if !ok {
				return nil, false
			}
			out[i] = n
		}
		return out, true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			n, ok := Normalize(iter.Value().Interface())
			if !ok {
				return nil, false
			}
			out[iter.Key().String()] = n
		}
		return out, true
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	}
	return nil, false
}
