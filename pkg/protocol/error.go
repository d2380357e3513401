package protocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for wire-format violations.
var (
	// ErrUnresolvedComponent is returned when a component node reaches
	// the encoder. Trees must be resolved before encoding.
	ErrUnresolvedComponent = errors.New("protocol: unresolved component")

	// ErrUnsupportedValue is returned for an attribute value with no
	// JSON form (functions, channels, nodes inside attributes).
	ErrUnsupportedValue = errors.New("protocol: unsupported attribute value")

	// ErrNonFiniteNumber is returned for NaN and infinities.
	ErrNonFiniteNumber = errors.New("protocol: non-finite number")

	// ErrMissingMarker is returned for an object in node position that
	// does not carry the element marker.
	ErrMissingMarker = errors.New("protocol: object without element marker")

	// ErrStrayMarker is returned when the bare element marker appears
	// outside the marker field.
	ErrStrayMarker = errors.New("protocol: element marker outside marker field")

	// ErrUnexpectedElement is returned for an element object inside an
	// attribute value.
	ErrUnexpectedElement = errors.New("protocol: element inside attribute value")

	// ErrInvalidElement is returned for an element object with a missing
	// or malformed type, key or props field.
	ErrInvalidElement = errors.New("protocol: malformed element object")

	// ErrMaxDepthExceeded is returned when a payload nests deeper than
	// the configured limit.
	ErrMaxDepthExceeded = errors.New("protocol: max depth exceeded")

	// ErrTrailingData is returned when a payload has data after the
	// top-level value.
	ErrTrailingData = errors.New("protocol: trailing data after payload")
)

// EncodeError reports a tree that cannot be written as wire form.
type EncodeError struct {
	Path string // Position of the offending node, e.g. "props.children[1]"
	Err  error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("encode: %v", e.Err)
	}
	return fmt.Sprintf("encode at %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *EncodeError) Unwrap() error {
	return e.Err
}

// DecodeError reports a payload that is not a valid wire form.
type DecodeError struct {
	Offset int64 // Byte offset in the input, -1 when unknown
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode at offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
