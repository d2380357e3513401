package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManifestResolve(t *testing.T) {
	m := NewManifest()
	m.Set("client.js", "client.abc123.js")
	m.Set("style.css", "style.def456.css")

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"found entry", "client.js", "client.abc123.js"},
		{"found entry css", "style.css", "style.def456.css"},
		{"missing entry returns original", "unknown.js", "unknown.js"},
		{"empty string returns empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Resolve(tt.source)
			if got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.source, got, tt.expected)
			}
		})
	}
}

func TestManifestHasAndLen(t *testing.T) {
	m := NewManifest()
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
	m.Set("client.js", "client.abc123.js")

	if !m.Has("client.js") {
		t.Error("Has(client.js) = false, want true")
	}
	if m.Has("unknown.js") {
		t.Error("Has(unknown.js) = true, want false")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", `{"client.js": "client.abc.js"}`, false},
		{"empty", `{}`, false},
		{"not json", `{client.js}`, true},
		{"absolute entry", `{"client.js": "/client.abc.js"}`, true},
		{"url entry", `{"client.js": "https://cdn.example.com/client.js"}`, true},
		{"empty entry", `{"client.js": ""}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "manifest.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "manifest.json")); !os.IsNotExist(err) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestResolvers(t *testing.T) {
	m := NewManifest()
	m.Set("client.js", "client.abc123.js")

	tests := []struct {
		name     string
		resolver Resolver
		source   string
		expected string
	}{
		{"manifest hit", NewResolver(m, "/static/"), "client.js", "/static/client.abc123.js"},
		{"manifest miss", NewResolver(m, "/static/"), "other.js", "/static/other.js"},
		{"absolute path kept", NewResolver(m, "/static/"), "/client.js", "/client.js"},
		{"url kept", NewResolver(m, "/static/"), "https://esm.sh/react", "https://esm.sh/react"},
		{"passthrough", NewPassthroughResolver("/static/"), "client.js", "/static/client.js"},
		{"passthrough absolute", NewPassthroughResolver("/static/"), "/x.js", "/x.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resolver.Asset(tt.source); got != tt.expected {
				t.Errorf("Asset(%q) = %q, want %q", tt.source, got, tt.expected)
			}
		})
	}
}
