package dev

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/flight/pkg/content"
	"github.com/vango-dev/flight/pkg/render"
)

// LiveReload connects a Watcher to a ReloadServer: every settled batch of
// changes is pushed to connected browsers. A post that no longer parses
// shows an error overlay instead of a reload.
type LiveReload struct {
	watcher *Watcher
	reload  *ReloadServer
	path    string
	logger  *slog.Logger

	// failing is only touched from the watcher's callback.
	failing bool
}

// NewLiveReload creates a live reload session. path is where the reload
// socket is mounted.
func NewLiveReload(config WatcherConfig, path string) (*LiveReload, error) {
	watcher, err := NewWatcher(config)
	if err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := &LiveReload{
		watcher: watcher,
		reload:  NewReloadServer(),
		path:    path,
		logger:  logger.With("component", "livereload"),
	}
	watcher.OnChange(l.changed)
	return l, nil
}

func (l *LiveReload) changed(changes []Change) {
	for _, c := range changes {
		l.logger.Info("changed", "path", c.Path, "type", c.Type.String())
	}
	for _, c := range changes {
		if err := checkPost(c); err != nil {
			l.logger.Warn("post does not parse", "path", c.Path, "error", err)
			l.failing = true
			l.reload.NotifyError(err.Error())
			return
		}
	}
	if l.failing {
		l.failing = false
		l.reload.ClearError()
	}
	l.reload.Notify(changes)
}

// checkPost parses a changed post file. Other changes, removed files and
// files that cannot be read pass.
func checkPost(c Change) error {
	if c.Type != ChangeContent || c.Op.Has(fsnotify.Remove) || c.Op.Has(fsnotify.Rename) {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(c.Path))
	if ext != content.DefaultExt && ext != ".md" {
		return nil
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil
	}
	slug := strings.TrimSuffix(filepath.Base(c.Path), filepath.Ext(c.Path))
	_, err = content.ParsePost(slug, data)
	return err
}

// Start begins watching.
func (l *LiveReload) Start(ctx context.Context) error {
	return l.watcher.Start(ctx)
}

// Stop stops watching and disconnects all browsers.
func (l *LiveReload) Stop() {
	l.watcher.Stop()
	l.reload.Close()
}

// Handler returns the WebSocket handler to mount at Path.
func (l *LiveReload) Handler() http.Handler {
	return l.reload
}

// Path returns the reload socket path.
func (l *LiveReload) Path() string {
	return l.path
}

// Script returns the client script to inject into pages.
func (l *LiveReload) Script() render.ScriptTag {
	return ClientScript(l.path)
}
