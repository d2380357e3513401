// Package vtest provides testing helpers for flight components.
//
// The helpers resolve and render trees and fail the test on any error,
// so component tests can assert on output directly.
//
// # Quick Start
//
//	func TestPost(t *testing.T) {
//	    page := vdom.Comp(Post, vdom.Prop("slug", "hello-world"))
//	    vtest.ExpectContains(t, page, "<h2>")
//	    vtest.ExpectAttribute(t, page, "href", "/hello-world")
//	}
//
// # Wire Form
//
// Wire returns the wire form of a tree after checking that it decodes
// back to the same resolved tree:
//
//	payload := vtest.Wire(t, page)
package vtest
