// Package dev provides live reload for development.
//
// A Watcher monitors post, static and other configured paths with
// fsnotify and reports settled batches of changes. A ReloadServer holds
// the WebSocket connections of open browser tabs and tells them to reload.
// LiveReload wires the two together:
//
//	lr, err := dev.NewLiveReload(dev.WatcherConfig{
//	    Paths: dev.CollectWatchPaths(cfg),
//	}, server.DefaultReloadPath)
//	if err != nil {
//	    return err
//	}
//	if err := lr.Start(ctx); err != nil {
//	    return err
//	}
//	defer lr.Stop()
//
// Mount lr.Handler() at lr.Path() and add lr.Script() to the page
// scripts.
//
// # Reload Protocol
//
// Messages are JSON-encoded:
//
//	{"type": "reload"}                // Triggers full page reload
//	{"type": "css", "file": "..."}    // Triggers CSS-only reload
//	{"type": "error", "error": "..."} // Shows error overlay
//	{"type": "clear"}                 // Clears error overlay
package dev
