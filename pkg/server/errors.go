package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/vango-dev/flight/pkg/content"
	"github.com/vango-dev/flight/pkg/routepath"
)

// Sentinel errors for page handling.
var (
	// ErrNotFound is returned by a page to answer 404.
	ErrNotFound = errors.New("server: not found")

	// ErrNoPage is returned by NewHandler when no page function is set.
	ErrNoPage = errors.New("server: page function is required")

	// ErrNoUpstream is returned by NewProxyHandler when no fetcher is set.
	ErrNoUpstream = errors.New("server: upstream fetcher is required")
)

// StatusOf maps a page error to the status code the boundary answers
// with: 404 for anything wrapping ErrNotFound or content.ErrNotFound, 400
// for malformed paths and 500 for everything else.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound), errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, routepath.ErrBackslashInPath),
		errors.Is(err, routepath.ErrNullByteInPath),
		errors.Is(err, routepath.ErrInvalidPercentEscape),
		errors.Is(err, routepath.ErrPathEscapesRoot):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorKind labels a failed page for metrics.
func errorKind(err error, status int) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusBadRequest:
		return "bad_request"
	case status == http.StatusBadGateway:
		return "upstream"
	default:
		return "internal"
	}
}
