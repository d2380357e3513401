// Package resolve evaluates component nodes of an element tree.
//
// Resolution replaces every component node with the tree its component
// renders, repeatedly, until only empty, text, number, list and element
// nodes remain:
//
//	tree, err := resolve.Resolve(ctx, vdom.Comp(blog.Router, vdom.Prop("url", u)))
//
// Components under a common list are rendered concurrently (fan-out then
// join) and the resolved list keeps input order. Errors returned by a
// component are wrapped in a *ResolutionError that unwraps to the cause,
// so callers can test for conditions such as content.ErrNotFound with
// errors.Is.
package resolve
