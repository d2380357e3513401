package assets

import "strings"

// Resolver turns a configured asset reference into the URL a page links to.
type Resolver interface {
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver resolves bare names through m and prefixes them with the
// static URL prefix. Absolute paths and URLs are returned unchanged.
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{manifest: m, prefix: prefix}
}

func (r *manifestResolver) Asset(source string) string {
	if !IsBareName(source) {
		return source
	}
	return r.prefix + r.manifest.Resolve(source)
}

type passthrough struct {
	prefix string
}

// NewPassthroughResolver prefixes bare names without a manifest, so that
// pages link the same paths with and without fingerprinting.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	if !IsBareName(source) {
		return source
	}
	return p.prefix + source
}

// IsBareName reports whether source names a file under the static prefix
// rather than an absolute path or a URL.
func IsBareName(source string) bool {
	return source != "" && !strings.HasPrefix(source, "/") && !strings.Contains(source, "://")
}
