package blog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/vango-dev/flight/pkg/content"
	"github.com/vango-dev/flight/pkg/routepath"
	"github.com/vango-dev/flight/pkg/vdom"
)

// Defaults for Config.
const (
	DefaultTitle  = "My Blog"
	DefaultAuthor = "Jae Doe"
)

// ErrNoSource is returned by New when no content source is configured.
var ErrNoSource = errors.New("blog: content source is required")

// Config configures the blog pages.
type Config struct {
	// Source provides posts. Required.
	Source content.Source

	// Title is the document title. Default: "My Blog".
	Title string

	// Author is printed in the footer. Default: "Jae Doe".
	Author string

	// Now returns the current time for the footer year.
	// Default: time.Now.
	Now func() time.Time

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Blog holds the page components. Its zero value is not usable; call New.
type Blog struct {
	config Config
	logger *slog.Logger

	Router vdom.Component
	Layout vdom.Component
	Index  vdom.Component
	Post   vdom.Component
	Footer vdom.Component
}

// New creates the blog components.
func New(config Config) (*Blog, error) {
	if config.Source == nil {
		return nil, ErrNoSource
	}
	if config.Title == "" {
		config.Title = DefaultTitle
	}
	if config.Author == "" {
		config.Author = DefaultAuthor
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Blog{
		config: config,
		logger: logger.With("component", "blog"),
	}
	b.Router = vdom.AsyncFunc("Router", b.router)
	b.Layout = vdom.Func("BlogLayout", b.layout)
	b.Index = vdom.AsyncFunc("BlogIndexPage", b.index)
	b.Post = vdom.AsyncFunc("Post", b.post)
	b.Footer = vdom.Func("Footer", b.footer)
	return b, nil
}

// Page builds the tree for a request. It has the signature of
// server.PageFunc.
func (b *Blog) Page(r *http.Request) (*vdom.Node, error) {
	return b.Route(r.URL), nil
}

// Route returns the unresolved tree for u.
func (b *Blog) Route(u *url.URL) *vdom.Node {
	return vdom.Comp(b.Router, vdom.Prop("url", u))
}

// router picks the index for "/" and a single post otherwise, wrapped in
// the layout.
func (b *Blog) router(_ context.Context, p vdom.Props) (*vdom.Node, error) {
	v, _ := p.Get("url")
	u, ok := v.(*url.URL)
	if !ok || u == nil {
		return nil, errors.New("blog: router needs a url prop")
	}

	var page *vdom.Node
	if u.Path == "" || u.Path == "/" {
		page = vdom.Comp(b.Index)
	} else {
		slug, err := postSlug(u)
		if err != nil {
			return nil, err
		}
		page = vdom.Comp(b.Post, vdom.Prop("slug", slug))
	}
	return vdom.Comp(b.Layout, page), nil
}

// postSlug derives the post slug from a request URL. The slug is passed
// through content.SanitizeSlug, so "/a/b" reads post "ab".
func postSlug(u *url.URL) (string, error) {
	raw, err := routepath.Slug(u.EscapedPath())
	if err != nil {
		return "", err
	}
	slug := content.SanitizeSlug(raw)
	if slug == "" {
		return "", &content.NotFoundError{Slug: raw}
	}
	return slug, nil
}

func (b *Blog) layout(p vdom.Props) *vdom.Node {
	return vdom.Html(
		vdom.Head(
			vdom.Title(b.config.Title),
		),
		vdom.Body(
			vdom.Nav(
				vdom.A(vdom.Href("/"), "Home"),
				vdom.Hr(),
				vdom.Input(vdom.Type("text"), vdom.Placeholder("Search")),
				vdom.Hr(),
			),
			vdom.Main(p.Children),
			vdom.Comp(b.Footer, vdom.Prop("author", b.config.Author)),
		),
	)
}

func (b *Blog) index(ctx context.Context, _ vdom.Props) (*vdom.Node, error) {
	slugs, err := b.config.Source.List(ctx)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("listing posts", "count", len(slugs))

	posts := make([]*vdom.Node, len(slugs))
	for i, slug := range slugs {
		posts[i] = vdom.Comp(b.Post, vdom.Key(slug), vdom.Prop("slug", slug))
	}
	return vdom.Section(
		vdom.H1("Welcome to blog"),
		vdom.Div(posts),
	), nil
}

func (b *Blog) post(ctx context.Context, p vdom.Props) (*vdom.Node, error) {
	slug := p.String("slug")
	post, err := b.config.Source.Read(ctx, slug)
	if err != nil {
		return nil, err
	}
	return vdom.Section(
		vdom.H2(
			vdom.A(vdom.Href("/"+slug), slug),
		),
		vdom.Article(post.Body),
	), nil
}

func (b *Blog) footer(p vdom.Props) *vdom.Node {
	return vdom.Footer(
		vdom.Hr(),
		vdom.P(
			vdom.I("(c) ", p.String("author"), ", ", b.config.Now().Year()),
		),
	)
}
