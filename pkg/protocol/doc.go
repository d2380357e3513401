// Package protocol implements the wire form of element trees.
//
// The wire form is JSON. Primitives map directly: an empty node is null,
// text is a string, a number is a number and a list is an array. An
// element is an object whose first field carries a reserved marker:
//
//	{"$$typeof":"$RE","type":"a","key":null,"props":{"href":"/","children":"Home"}}
//
// Attributes appear in props in their stored order, followed by children
// when the element has any.
//
// # Sentinel alphabet
//
// The element marker "$RE" and the string escape share the lead character
// '$'. Every application string that starts with '$' is written with one
// extra '$' in front, and decoding strips exactly one. An application
// string can therefore never equal the bare marker:
//
//	"$RE"  → "$$RE"
//	"$$"   → "$$$"
//	"cost" → "cost"
//
// The bare marker is only legal as the value of "$$typeof". Anywhere else
// it is rejected with ErrStrayMarker.
//
// # Usage
//
//	wire, err := protocol.EncodeString(tree)
//	tree, err := protocol.DecodeString(wire)
//
// Component nodes have no wire form; resolve the tree first. Decoding
// limits nesting depth (see DepthLimits) so untrusted payloads cannot
// exhaust the stack.
package protocol
