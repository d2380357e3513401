// Package vdom provides the element tree model for flight.
//
// An element tree describes UI before and after resolution. Node is a
// tagged variant whose kind never changes after construction:
//
//   - Empty: nil and booleans; renders to nothing
//   - Text and Number: escaped text runs
//   - List: an ordered sequence of nodes
//   - Element: a host element with a tag, ordered attributes and children
//   - Component: a deferred evaluation of a Component with props
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Section(Class("post"),
//	    H2(A(Href("/hello"), "hello")),
//	    Article(content),
//	)
//
// A single child is stored as is; several children become a List, the
// same shape a JSX compiler produces. The reserved "children" attribute
// never appears in Attrs.
//
// # Components
//
// Components implement Render(ctx, props). Func adapts a plain function,
// AsyncFunc one that blocks or fails. Comp places a component in a tree:
//
//	Comp(PostPage, Prop("slug", "hello-world"))
//
// Component nodes are replaced by the resolve package; they never reach
// markup or the wire form.
package vdom
