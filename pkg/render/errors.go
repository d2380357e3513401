package render

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind is returned for a node whose kind the renderer does not know.
	ErrUnknownKind = errors.New("render: unknown node kind")

	// ErrInvalidName is returned for a tag or attribute name that cannot
	// be written as markup.
	ErrInvalidName = errors.New("render: invalid tag or attribute name")

	// ErrUnsupportedValue is returned for an attribute value with no
	// markup form, such as a node or a function.
	ErrUnsupportedValue = errors.New("render: unsupported attribute value")

	// ErrVoidChildren is returned when a void element has children and
	// void-element shorthand is enabled.
	ErrVoidChildren = errors.New("render: void element with children")
)

// RenderError reports a node that could not be turned into markup.
type RenderError struct {
	Tag  string // Element tag, if any
	Attr string // Attribute name, if the failure is attribute-level
	Err  error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	switch {
	case e.Attr != "":
		return fmt.Sprintf("render <%s %s>: %v", e.Tag, e.Attr, e.Err)
	case e.Tag != "":
		return fmt.Sprintf("render <%s>: %v", e.Tag, e.Err)
	default:
		return fmt.Sprintf("render: %v", e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}
