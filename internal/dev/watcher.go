package dev

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	ChangeContent ChangeType = iota
	ChangeCSS
	ChangeScript
	ChangeAsset
)

// String returns the change type name.
func (t ChangeType) String() string {
	switch t {
	case ChangeContent:
		return "content"
	case ChangeCSS:
		return "css"
	case ChangeScript:
		return "script"
	default:
		return "asset"
	}
}

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
	Op   fsnotify.Op
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the files and directories to watch. Directories are
	// watched recursively; ones created later are added as they appear.
	Paths []string

	// Ignore patterns to skip (globs or path segments).
	Ignore []string

	// Debounce is how long a path must stay quiet before its change is
	// reported.
	Debounce time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"tmp",
	"*.tmp",
	"*.swp",
	"*~",
	".DS_Store",
}

// WatcherStats counts watcher activity.
type WatcherStats struct {
	Events        int
	Reported      int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher reports file changes under a set of paths. Rapid events on the
// same path are coalesced into one Change.
type Watcher struct {
	config   WatcherConfig
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
	roots    []string
	onChange func([]Change)

	mu      sync.Mutex
	running bool
	pending map[string]Change
	settle  map[string]time.Time
	stats   WatcherStats
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	roots := make([]string, 0, len(config.Paths))
	for _, p := range config.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		roots = append(roots, abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		config:  config,
		roots:   roots,
		logger:  logger.With("component", "watcher"),
		fsw:     fsw,
		pending: make(map[string]Change),
		settle:  make(map[string]time.Time),
	}, nil
}

// OnChange sets the callback for settled changes. It is called from the
// watcher goroutine with every change that settled in the same tick.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start adds the configured paths and begins watching in a goroutine.
// Paths that do not exist are skipped with a warning.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	for _, p := range w.config.Paths {
		if err := w.addTree(p); err != nil {
			w.logger.Warn("cannot watch path", "path", p, "error", err)
		}
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()

	<-done
	if err := w.fsw.Close(); err != nil {
		w.logger.Error("closing watcher", "error", err)
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// addTree watches root and, when it is a directory, every directory below
// it that is not ignored.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if p == root {
				return w.fsw.Add(p)
			}
			return nil
		}
		if p != root && w.shouldIgnore(p) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

// run is the main event loop.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.flush(time.Now())
		}
	}
}

// handleEvent records an event for later delivery.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod || w.shouldIgnore(event.Name) {
		return
	}

	// New directories are watched as they appear.
	if event.Has(fsnotify.Create) {
		if err := w.addTree(event.Name); err != nil {
			w.logger.Debug("cannot watch new path", "path", event.Name, "error", err)
		}
	}

	w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())

	now := time.Now()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.Events++
	w.stats.LastEventPath = event.Name
	w.stats.LastEventTime = now

	change := w.pending[event.Name]
	change.Path = event.Name
	change.Type = classifyChange(event.Name)
	change.Op |= event.Op
	w.pending[event.Name] = change
	w.settle[event.Name] = now
}

// flush delivers changes that have been quiet for the debounce period.
func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	var ready []Change
	for p, last := range w.settle {
		if now.Sub(last) >= w.config.Debounce {
			ready = append(ready, w.pending[p])
			delete(w.pending, p)
			delete(w.settle, p)
		}
	}
	callback := w.onChange
	w.stats.Reported += len(ready)
	w.mu.Unlock()

	if len(ready) == 0 || callback == nil {
		return
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i].Path < ready[j].Path })
	callback(ready)
}

// relative returns p relative to the innermost watched root containing
// it. Directories above the root never match an ignore pattern.
func (w *Watcher) relative(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	best := ""
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if best == "" || len(rel) < len(best) {
			best = rel
		}
	}
	if best == "" {
		return p
	}
	return best
}

// shouldIgnore checks if a path below a watched root should be ignored.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	rel := w.relative(fullPath)
	if rel == "." {
		return false
	}
	name := filepath.Base(rel)
	normalized := filepath.ToSlash(rel)

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		if name == pattern {
			return true
		}

		hasPathSep := strings.Contains(pattern, "/") || strings.Contains(pattern, "\\")
		hasGlob := strings.ContainsAny(pattern, "*?[")

		if hasGlob {
			if hasPathSep {
				if matched, _ := path.Match(filepath.ToSlash(pattern), normalized); matched {
					return true
				}
			} else if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
			continue
		}

		if hasPathSep {
			if pathMatchesSegments(normalized, filepath.ToSlash(pattern)) {
				return true
			}
			continue
		}

		if pathHasSegment(normalized, pattern) {
			return true
		}
	}

	return false
}

func pathHasSegment(path, segment string) bool {
	if segment == "" {
		return false
	}
	for _, part := range splitPathSegments(path) {
		if part == segment {
			return true
		}
	}
	return false
}

func pathMatchesSegments(path, pattern string) bool {
	pathParts := splitPathSegments(path)
	patternParts := splitPathSegments(pattern)
	if len(patternParts) == 0 || len(patternParts) > len(pathParts) {
		return false
	}

	for i := 0; i <= len(pathParts)-len(patternParts); i++ {
		match := true
		for j := range patternParts {
			if pathParts[i+j] != patternParts[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}

	return false
}

func splitPathSegments(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	result := parts[:0]
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}

// classifyChange determines the type of change based on file extension.
func classifyChange(path string) ChangeType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".json":
		return ChangeContent
	case ".css":
		return ChangeCSS
	case ".js", ".mjs":
		return ChangeScript
	default:
		return ChangeAsset
	}
}
