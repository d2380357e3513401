// Package content looks up blog posts by slug.
//
// A Source reads posts from a backing store. DirSource reads text files
// from a directory and S3Source reads objects from a bucket. Post files
// are plain text and may start with a YAML front matter block:
//
//	---
//	title: Hello, world
//	tags: [intro]
//	---
//	Hi everyone! This is my first blog post.
//
// A missing post is reported as an error wrapping ErrNotFound, which the
// HTTP boundary maps to a 404 response.
package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no post exists for a slug.
var ErrNotFound = errors.New("content: not found")

// DefaultExt is the file extension of post files.
const DefaultExt = ".txt"

// Source reads posts.
type Source interface {
	// Read returns the post for slug. A missing post is an error wrapping
	// ErrNotFound.
	Read(ctx context.Context, slug string) (Post, error)

	// List returns the slugs of all posts in ascending order.
	List(ctx context.Context) ([]string, error)
}

// Post is a single blog post.
type Post struct {
	Slug  string
	Title string         // From front matter; defaults to the slug
	Body  string         // Text after the front matter
	Meta  map[string]any // All front matter fields
}

// NotFoundError reports the slug that could not be found.
type NotFoundError struct {
	Slug string
	Err  error // Underlying store error, may be nil
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("content: post %q not found", e.Slug)
	}
	return fmt.Sprintf("content: post %q not found: %v", e.Slug, e.Err)
}

// Is reports ErrNotFound as a match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Unwrap returns the underlying store error.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

var frontMatterFence = []byte("---")

// ParsePost builds a Post from raw file contents, splitting off a leading
// front matter block. Content without a block is used verbatim as the
// body.
func ParsePost(slug string, data []byte) (Post, error) {
	post := Post{Slug: slug, Title: slug, Body: string(data)}

	rest, ok := bytes.CutPrefix(data, frontMatterFence)
	if !ok {
		return post, nil
	}
	rest, ok = cutLineEnd(rest)
	if !ok {
		return post, nil
	}

	header, body, found := cutFence(rest)
	if !found {
		return post, nil
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal(header, &meta); err != nil {
		return Post{}, fmt.Errorf("content: front matter of %q: %w", slug, err)
	}
	post.Meta = meta
	post.Body = string(body)
	if title, ok := meta["title"].(string); ok && title != "" {
		post.Title = title
	}
	return post, nil
}

// cutLineEnd strips a leading "\n" or "\r\n".
func cutLineEnd(b []byte) ([]byte, bool) {
	if rest, ok := bytes.CutPrefix(b, []byte("\r\n")); ok {
		return rest, true
	}
	return bytes.CutPrefix(b, []byte("\n"))
}

// cutFence splits b at the first line consisting of "---".
func cutFence(b []byte) (header, body []byte, found bool) {
	for off := 0; off <= len(b); {
		line := b[off:]
		end := bytes.IndexByte(line, '\n')
		if end >= 0 {
			line = line[:end]
		}
		if bytes.Equal(bytes.TrimRight(line, "\r"), frontMatterFence) {
			if end < 0 {
				return b[:off], nil, true
			}
			return b[:off], b[off+end+1:], true
		}
		if end < 0 {
			break
		}
		off += end + 1
	}
	return nil, nil, false
}

func sortedSlugs(slugs []string) []string {
	sort.Strings(slugs)
	return slugs
}
