package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/vango-dev/flight/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// Title is the site title.
	Title string

	// Author is printed in the footer.
	Author string

	// Address is the listen address of the generated server.
	Address string

	// Bucket and Region configure the s3 template.
	Bucket string
	Region string

	// UpstreamAddress is where the wire tier of the split template
	// listens.
	UpstreamAddress string
}

func (c Config) withDefaults() Config {
	if c.Title == "" {
		c.Title = "My Blog"
	}
	if c.Author == "" {
		c.Author = "Jae Doe"
	}
	if c.Address == "" {
		c.Address = ":3000"
	}
	if c.Bucket == "" {
		c.Bucket = "my-blog"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.UpstreamAddress == "" {
		c.UpstreamAddress = "localhost:3001"
	}
	return c
}

// Template represents a project template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"blog":  blogTemplate(),
	"s3":    s3Template(),
	"split": splitTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("F221").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: blog, s3, split")
	}
	return tmpl, nil
}

// List returns all available template names in order.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var funcs = template.FuncMap{
	// json writes a value as a JSON literal.
	"json": func(v any) (string, error) {
		data, err := json.Marshal(v)
		return string(data), err
	},
}

// Paths returns the relative paths the template creates, sorted.
func (t *Template) Paths() []string {
	paths := make([]string, 0, len(t.Files))
	for p := range t.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Create generates a project from the template. Nothing is written when
// any of the files already exists.
func (t *Template) Create(dir string, cfg Config) error {
	cfg = cfg.withDefaults()

	rendered := make(map[string][]byte, len(t.Files))
	for _, relPath := range t.Paths() {
		fullPath := filepath.Join(dir, relPath)
		if _, err := os.Stat(fullPath); err == nil {
			return errors.New("F222").
				WithDetail(fullPath + " already exists").
				WithSuggestion("Choose an empty directory")
		}

		tmpl, err := template.New(relPath).Funcs(funcs).Parse(t.Files[relPath])
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}
		rendered[fullPath] = buf.Bytes()
	}

	for _, relPath := range t.Paths() {
		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, rendered[fullPath], 0644); err != nil {
			return fmt.Errorf("write %s: %w", relPath, err)
		}
	}
	return nil
}

const helloWorld = `Hi everyone! This is my first blog post. I <3 React.
`

const vacationTime = `---
title: Vacation time
---
I went to the beach.
`

const styleCSS = `body {
  font-family: system-ui, sans-serif;
  max-width: 40rem;
  margin: 2rem auto;
}
`

func blogTemplate() *Template {
	return &Template{
		Name:        "blog",
		Description: "A blog reading posts from a local directory, with live reload",
		Files: map[string]string{
			"flight.json": `{
  "address": {{json .Address}},
  "site": {
    "title": {{json .Title}},
    "author": {{json .Author}}
  },
  "posts": {
    "dir": "posts"
  },
  "static": {
    "dir": "static"
  },
  "dev": {
    "reload": true
  }
}
`,
			"posts/hello-world.txt":   helloWorld,
			"posts/vacation-time.txt": vacationTime,
			"static/style.css":        styleCSS,
		},
	}
}

func s3Template() *Template {
	return &Template{
		Name:        "s3",
		Description: "A blog reading posts from an S3 bucket, with Prometheus metrics",
		Files: map[string]string{
			"flight.json": `{
  "address": {{json .Address}},
  "site": {
    "title": {{json .Title}},
    "author": {{json .Author}}
  },
  "posts": {
    "s3": {
      "bucket": {{json .Bucket}},
      "prefix": "posts/",
      "region": {{json .Region}}
    }
  },
  "metrics": {
    "enabled": true
  },
  "log": {
    "format": "json"
  }
}
`,
		},
	}
}

func splitTemplate() *Template {
	return &Template{
		Name:        "split",
		Description: "A wire server reading posts and an HTML tier rendering from it",
		Files: map[string]string{
			"wire/flight.json": `{
  "address": {{json .UpstreamAddress}},
  "site": {
    "title": {{json .Title}},
    "author": {{json .Author}}
  },
  "posts": {
    "dir": "../posts"
  }
}
`,
			"html/flight.json": `{
  "address": {{json .Address}},
  "upstream": {{json (printf "http://%s" .UpstreamAddress)}},
  "static": {
    "dir": "../static"
  }
}
`,
			"posts/hello-world.txt":   helloWorld,
			"posts/vacation-time.txt": vacationTime,
			"static/style.css":        styleCSS,
		},
	}
}
