// Package routepath canonicalizes request and navigation paths.
//
// The server canonicalizes every incoming path before choosing a page, and
// the navigation controller canonicalizes link targets before deciding
// whether a click stays on the client. Both sides therefore agree on what
// "the same path" means.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Path errors.
var (
	ErrInvalidPath          = errors.New("routepath: invalid path")
	ErrBackslashInPath      = errors.New("routepath: path contains backslash")
	ErrNullByteInPath       = errors.New("routepath: path contains null byte")
	ErrInvalidPercentEscape = errors.New("routepath: invalid percent escape")
	ErrPathEscapesRoot      = errors.New("routepath: path escapes root via ..")
	ErrCrossOrigin          = errors.New("routepath: link leaves the origin")
)

// Result is a canonical path split from its query.
type Result struct {
	Path    string // Canonical path, always starting with "/"
	Query   string // Raw query without the leading "?"
	Changed bool   // Path differs from the input path
}

// String joins path and query again.
func (r Result) String() string {
	if r.Query == "" {
		return r.Path
	}
	return r.Path + "?" + r.Query
}

// Canonicalize normalizes a path:
//   - multiple slashes collapse (/a//b → /a/b)
//   - "." segments are dropped and ".." segments pop their parent
//   - a trailing slash is removed, except for the root
//
// Backslashes, NUL bytes (literal or %00), malformed percent escapes and
// ".." above the root are rejected. A query string is kept verbatim.
func Canonicalize(input string) (Result, error) {
	if input == "" {
		return Result{Path: "/", Changed: true}, nil
	}

	path, query, _ := strings.Cut(input, "?")
	if strings.Contains(path, `\`) {
		return Result{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByteInPath
	}
	if err := checkEscapes(path); err != nil {
		return Result{}, err
	}

	var segs []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segs) == 0 {
				return Result{}, ErrPathEscapesRoot
			}
			segs = segs[:len(segs)-1]
		default:
			segs = append(segs, seg)
		}
	}

	canonical := "/" + strings.Join(segs, "/")
	return Result{Path: canonical, Query: query, Changed: canonical != path}, nil
}

// checkEscapes reports malformed %XX sequences.
func checkEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Slug returns the decoded remainder of a canonical path after its leading
// slash. The root has the empty slug.
func Slug(path string) (string, error) {
	res, err := Canonicalize(path)
	if err != nil {
		return "", err
	}
	slug, err := url.PathUnescape(strings.TrimPrefix(res.Path, "/"))
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	return slug, nil
}

// NavTarget resolves a link target for client-side navigation.
//
// Root-relative hrefs ("/posts/a") are accepted. Absolute URLs are accepted
// only when their scheme and host match origin; they are reduced to path
// and query. Protocol-relative ("//host"), relative ("post") and
// fragment-only hrefs are rejected, as is anything that fails
// Canonicalize. Fragments are dropped.
func NavTarget(href, origin string) (string, error) {
	href, _, _ = strings.Cut(href, "#")
	if strings.HasPrefix(href, "//") {
		return "", ErrCrossOrigin
	}

	if !strings.HasPrefix(href, "/") {
		u, err := url.Parse(href)
		if err != nil || !u.IsAbs() {
			return "", ErrInvalidPath
		}
		o, err := url.Parse(origin)
		if err != nil || origin == "" || !strings.EqualFold(u.Scheme, o.Scheme) || !strings.EqualFold(u.Host, o.Host) {
			return "", ErrCrossOrigin
		}
		href = u.EscapedPath()
		if u.RawQuery != "" {
			href += "?" + u.RawQuery
		}
	}

	res, err := Canonicalize(href)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// WithFlag appends a bare query flag (e.g. "jsx") to a path, keeping any
// existing query.
func WithFlag(path, flag string) string {
	if flag == "" {
		return path
	}
	base, query, _ := strings.Cut(path, "?")
	if query == "" {
		return base + "?" + flag
	}
	return base + "?" + query + "&" + flag
}
