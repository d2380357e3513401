package templates

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/flight/internal/config"
	"github.com/vango-dev/flight/internal/errors"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"blog", false},
		{"s3", false},
		{"split", false},
		{"minimal", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Get(tt.name)
			if tt.wantErr {
				var fe *errors.FlightError
				if !stderrors.As(err, &fe) || fe.Code != "F221" {
					t.Fatalf("expected F221, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tmpl.Name != tt.name {
				t.Errorf("Name = %q, want %q", tmpl.Name, tt.name)
			}
			if tmpl.Description == "" {
				t.Error("Description should not be empty")
			}
		})
	}
}

func TestList(t *testing.T) {
	if diff := cmp.Diff([]string{"blog", "s3", "split"}, List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

// TestCreateWritesValidConfig checks that every generated flight.json
// loads and validates.
func TestCreateWritesValidConfig(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tmpl, _ := Get(name)
			cfg := Config{Title: `Notes "from" \ home`, Author: "Ana"}
			if err := tmpl.Create(dir, cfg); err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			for _, rel := range tmpl.Paths() {
				if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
					t.Errorf("%s was not created: %v", rel, err)
				}
				if filepath.Base(rel) != config.ConfigFileName {
					continue
				}
				loaded, err := config.LoadFile(filepath.Join(dir, rel))
				if err != nil {
					t.Fatalf("%s does not load: %v", rel, err)
				}
				if err := loaded.Validate(); err != nil {
					t.Errorf("%s does not validate: %v", rel, err)
				}
			}
		})
	}
}

func TestCreateBlog(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("blog")
	if err := tmpl.Create(dir, Config{Title: `Notes "from" home`}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Site.Title != `Notes "from" home` {
		t.Errorf("Title = %q", cfg.Site.Title)
	}
	if cfg.Site.Author != "Jae Doe" {
		t.Errorf("Author = %q, want default", cfg.Site.Author)
	}
	if !cfg.Dev.Reload {
		t.Error("live reload should be enabled")
	}
	if cfg.PostsPath() != filepath.Join(dir, "posts") {
		t.Errorf("PostsPath = %q", cfg.PostsPath())
	}
}

func TestCreateSplit(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("split")
	if err := tmpl.Create(dir, Config{UpstreamAddress: "127.0.0.1:4001"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	html, err := config.Load(filepath.Join(dir, "html"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if html.Upstream != "http://127.0.0.1:4001" {
		t.Errorf("Upstream = %q", html.Upstream)
	}
	wire, err := config.Load(filepath.Join(dir, "wire"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if wire.Address != "127.0.0.1:4001" {
		t.Errorf("Address = %q", wire.Address)
	}
	if wire.PostsPath() != filepath.Join(dir, "posts") {
		t.Errorf("PostsPath = %q", wire.PostsPath())
	}
}

func TestCreateRefusesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "posts", "hello-world.txt")
	if err := os.MkdirAll(filepath.Dir(existing), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(existing, []byte("mine"), 0644); err != nil {
		t.Fatal(err)
	}

	tmpl, _ := Get("blog")
	err := tmpl.Create(dir, Config{})
	var fe *errors.FlightError
	if !stderrors.As(err, &fe) || fe.Code != "F222" {
		t.Fatalf("expected F222, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, config.ConfigFileName)); !os.IsNotExist(err) {
		t.Error("nothing should be written when a file exists")
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "mine" {
		t.Errorf("existing file was overwritten: %q", data)
	}
}
