package navigation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vango-dev/flight/pkg/routepath"
)

// DefaultWireFlag is the query flag that asks the server for the wire form
// instead of an HTML document.
const DefaultWireFlag = "jsx"

// DefaultMaxBodyBytes bounds the size of a fetched payload.
const DefaultMaxBodyBytes = 16 << 20

// Fetcher retrieves the wire form of the tree for a path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, path string) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// HTTPFetcher fetches trees from a flight server over HTTP.
type HTTPFetcher struct {
	// Client performs the requests. Defaults to a client with a 30s timeout.
	Client *http.Client

	// BaseURL is prepended to every path, e.g. "http://localhost:3000".
	BaseURL string

	// WireFlag is the query flag selecting the wire form.
	// Defaults to DefaultWireFlag.
	WireFlag string

	// MaxBodyBytes limits the payload size. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// Fetch issues GET BaseURL+path?jsx and returns the response body. Any
// status outside 2xx is a *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = defaultClient
	}
	flag := f.WireFlag
	if flag == "" {
		flag = DefaultWireFlag
	}
	limit := f.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	url := strings.TrimSuffix(f.BaseURL, "/") + routepath.WithFlag(path, flag)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("fetch %s: payload exceeds %d bytes", url, limit)
	}
	return data, nil
}
