package navigation

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSuperseded is returned by a navigation whose result was discarded
// because a newer navigation started while it was in flight. Callers can
// ignore it.
var ErrSuperseded = errors.New("navigation: superseded by a newer navigation")

// ErrNoFetcher is returned by New when no Fetcher is configured.
var ErrNoFetcher = errors.New("navigation: fetcher is required")

// NavigationError reports a navigation that failed to fetch or decode its
// tree. The surface and history are untouched.
type NavigationError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate to %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *NavigationError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx response to a tree fetch.
type StatusError struct {
	URL  string
	Code int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// NotFound reports whether the server answered 404.
func (e *StatusError) NotFound() bool {
	return e.Code == http.StatusNotFound
}
