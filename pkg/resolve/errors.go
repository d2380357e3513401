package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrNilComponent is returned when a component node carries no component.
	ErrNilComponent = errors.New("resolve: component node without component")

	// ErrMaxDepthExceeded is returned when components keep returning
	// components past the configured depth.
	ErrMaxDepthExceeded = errors.New("resolve: max component depth exceeded")
)

// ResolutionError reports a failure while evaluating a component.
// It wraps the underlying cause, so errors.Is still sees, for example,
// a not-found condition raised by the component.
type ResolutionError struct {
	Component string // Component name, empty when unknown
	Path      string // Position in the tree, e.g. "html>body>main>[0]"
	Err       error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	name := e.Component
	if name == "" {
		name = "<anonymous>"
	}
	if e.Path != "" {
		return fmt.Sprintf("resolve %s at %s: %v", name, e.Path, e.Err)
	}
	return fmt.Sprintf("resolve %s: %v", name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}
