package navigation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/flight/pkg/protocol"
	"github.com/vango-dev/flight/pkg/routepath"
	"github.com/vango-dev/flight/pkg/vdom"
)

// Surface is the rendering surface a committed tree replaces.
//
// Replace is called with the controller's lock held and must not call
// back into the controller.
type Surface interface {
	Replace(tree *vdom.Node)
}

// History records committed navigations.
type History interface {
	Push(path string)
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func(tree *vdom.Node)

// Replace implements Surface.
func (f SurfaceFunc) Replace(tree *vdom.Node) { f(tree) }

// HistoryFunc adapts a function to the History interface.
type HistoryFunc func(path string)

// Push implements History.
func (f HistoryFunc) Push(path string) { f(path) }

// Config configures a Controller.
type Config struct {
	// Fetcher retrieves wire payloads. Required.
	Fetcher Fetcher

	// Surface receives committed trees. Optional.
	Surface Surface

	// History records committed paths. Optional.
	History History

	// Origin is the scheme and host of the current page, used to decide
	// whether an absolute link stays on the client.
	Origin string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// ClickEvent describes a click on a link.
type ClickEvent struct {
	Button int    // 0 is the primary button
	Meta   bool   // Meta/Cmd key held
	Ctrl   bool   // Ctrl key held
	Shift  bool   // Shift key held
	Alt    bool   // Alt/Option key held
	Href   string // href of the nearest enclosing link
	Target string // target attribute of that link
}

// Controller keeps a rendering surface in sync with client navigation.
//
// Only the most recently requested navigation is ever committed. Each
// navigation takes a ticket when it starts; a finished fetch is applied
// only if its ticket is still the newest, otherwise it is dropped and the
// call returns ErrSuperseded.
type Controller struct {
	fetcher Fetcher
	surface Surface
	history History
	origin  string
	logger  *slog.Logger

	mu       sync.Mutex
	ticket   uint64
	intended string
}

// New creates a Controller.
func New(cfg Config) (*Controller, error) {
	if cfg.Fetcher == nil {
		return nil, ErrNoFetcher
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	surface := cfg.Surface
	if surface == nil {
		surface = SurfaceFunc(func(*vdom.Node) {})
	}
	history := cfg.History
	if history == nil {
		history = HistoryFunc(func(string) {})
	}
	return &Controller{
		fetcher: cfg.Fetcher,
		surface: surface,
		history: history,
		origin:  cfg.Origin,
		logger:  logger.With("component", "navigation"),
	}, nil
}

// Hydrate commits the tree embedded in the initial document for path
// without fetching and without pushing history.
func (c *Controller) Hydrate(path, wire string) error {
	tree, err := protocol.DecodeString(wire)
	if err != nil {
		return &NavigationError{Path: path, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticket++
	c.intended = path
	c.surface.Replace(tree)
	return nil
}

// Current returns the path of the most recently requested navigation.
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intended
}

// Navigate fetches the tree for path and commits it, pushing path onto the
// history. It returns ErrSuperseded when a newer navigation started before
// this one finished, and a *NavigationError when the fetch or decode
// failed.
func (c *Controller) Navigate(ctx context.Context, path string) error {
	return c.navigate(ctx, path, true)
}

// HandlePopState re-renders path after a history traversal. History is not
// pushed.
func (c *Controller) HandlePopState(ctx context.Context, path string) error {
	return c.navigate(ctx, path, false)
}

// HandleClick decides whether a link click stays on the client. Clicks
// with a non-primary button, any modifier key, a target other than _self,
// or an href that leaves the origin are left to the browser and reported
// as not intercepted. Intercepted clicks navigate to the canonical target.
func (c *Controller) HandleClick(ctx context.Context, ev ClickEvent) (bool, error) {
	if ev.Button != 0 || ev.Meta || ev.Ctrl || ev.Shift || ev.Alt {
		return false, nil
	}
	if ev.Target != "" && ev.Target != "_self" {
		return false, nil
	}
	path, err := routepath.NavTarget(ev.Href, c.origin)
	if err != nil {
		return false, nil
	}
	return true, c.Navigate(ctx, path)
}

func (c *Controller) navigate(ctx context.Context, path string, push bool) error {
	if res, err := routepath.Canonicalize(path); err == nil {
		path = res.String()
	}

	c.mu.Lock()
	c.ticket++
	ticket := c.ticket
	c.intended = path
	c.mu.Unlock()

	c.logger.Debug("navigation started", "path", path, "ticket", ticket)

	tree, err := c.fetch(ctx, path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if ticket != c.ticket {
		c.logger.Debug("navigation superseded", "path", path, "ticket", ticket, "current", c.intended)
		return ErrSuperseded
	}
	if err != nil {
		c.logger.Warn("navigation failed", "path", path, "error", err)
		return &NavigationError{Path: path, Err: err}
	}

	c.surface.Replace(tree)
	if push {
		c.history.Push(path)
	}
	c.logger.Debug("navigation committed", "path", path, "ticket", ticket)
	return nil
}

func (c *Controller) fetch(ctx context.Context, path string) (*vdom.Node, error) {
	data, err := c.fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	return protocol.Decode(data)
}
