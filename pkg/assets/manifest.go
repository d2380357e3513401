// Package assets resolves static asset names to their served URLs.
//
// A build step may fingerprint static files and write a manifest.json
// mapping source names to hashed names:
//
//	{
//	  "client.js": "client.a1b2c3d4.js",
//	  "style.css": "style.e5f6a7b8.css"
//	}
//
// Scripts configured by bare name are resolved through the manifest and
// the static prefix:
//
//	manifest, _ := assets.Load("static/manifest.json")
//	resolver := assets.NewResolver(manifest, "/static/")
//	resolver.Asset("client.js") // "/static/client.a1b2c3d4.js"
package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Manifest holds the mapping from source asset names to fingerprinted
// names. It is safe for concurrent use.
type Manifest struct {
	entries map[string]string
	mu      sync.RWMutex
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
	}
}

// Load reads a manifest.json file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("assets: %s: %w", path, err)
	}
	for source, resolved := range entries {
		if resolved == "" || strings.Contains(resolved, "://") || strings.HasPrefix(resolved, "/") {
			return nil, fmt.Errorf("assets: %s: entry %q must be a relative name", path, source)
		}
	}
	return &Manifest{entries: entries}, nil
}

// Resolve returns the fingerprinted name for source, or source unchanged
// when the manifest has no entry for it.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Has reports whether the manifest contains source.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[source] = resolved
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}
