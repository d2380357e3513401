package dev

import (
	"path/filepath"

	"github.com/vango-dev/flight/internal/config"
)

// CollectWatchPaths returns the deduplicated paths to watch for the
// configuration: the posts directory (unless posts come from S3), the
// static directory and every dev.watch entry.
func CollectWatchPaths(cfg *config.Config) []string {
	var paths []string
	if !cfg.UseS3() {
		paths = append(paths, cfg.PostsPath())
	}
	paths = append(paths, cfg.StaticPath())
	paths = append(paths, cfg.WatchPaths()...)

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}

	return unique
}
