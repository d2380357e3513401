package content

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirSource reads posts from files in a directory. The file for slug s is
// <Dir>/<s><Ext>.
type DirSource struct {
	Dir string
	Ext string // Defaults to DefaultExt
}

// NewDirSource returns a DirSource for dir with the default extension.
func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir, Ext: DefaultExt}
}

func (d *DirSource) ext() string {
	if d.Ext == "" {
		return DefaultExt
	}
	return d.Ext
}

// Read implements Source.
func (d *DirSource) Read(ctx context.Context, slug string) (Post, error) {
	if err := ctx.Err(); err != nil {
		return Post{}, err
	}
	if slug == "" || slug != SanitizeSlug(slug) {
		return Post{}, &NotFoundError{Slug: slug}
	}

	data, err := os.ReadFile(filepath.Join(d.Dir, slug+d.ext()))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Post{}, &NotFoundError{Slug: slug, Err: err}
		}
		return Post{}, err
	}
	return ParsePost(slug, data)
}

// List implements Source. Files without the configured extension and
// directories are skipped.
func (d *DirSource) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return nil, err
	}

	ext := d.ext()
	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ext)
		if slug == "" {
			continue
		}
		slugs = append(slugs, slug)
	}
	return sortedSlugs(slugs), nil
}
