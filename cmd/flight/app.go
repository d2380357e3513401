package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/flight/internal/blog"
	"github.com/vango-dev/flight/internal/config"
	"github.com/vango-dev/flight/internal/errors"
	"github.com/vango-dev/flight/pkg/assets"
	"github.com/vango-dev/flight/pkg/content"
	"github.com/vango-dev/flight/pkg/render"
	"github.com/vango-dev/flight/pkg/resolve"
)

// loadConfig reads flight.json from --config or the nearest project
// directory and applies the root flags.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.LoadOrDefault(".")
	}
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = strings.ToLower(o.logLevel)
		if cfg.Log.Level == "warning" {
			cfg.Log.Level = "warn"
		}
	}
	if o.logFormat != "" {
		cfg.Log.Format = strings.ToLower(o.logFormat)
	}
	return cfg, nil
}

// finish validates cfg once command flags have been applied and switches
// the logger to the configured level and format.
func (o *rootOptions) finish(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	o.logger = logger
	slog.SetDefault(logger)
	return nil
}

// newSource opens the configured post source.
func newSource(ctx context.Context, cfg *config.Config) (content.Source, error) {
	if cfg.UseS3() {
		client := content.NewS3Client(content.S3Options{
			Region:          cfg.Posts.S3.Region,
			Endpoint:        cfg.Posts.S3.Endpoint,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			UsePathStyle:    cfg.Posts.S3.UsePathStyle,
		})
		src := content.NewS3Source(client, cfg.Posts.S3.Bucket, cfg.Posts.S3.Prefix).WithExt(cfg.Posts.Ext)
		if _, err := src.List(ctx); err != nil {
			return nil, errors.New("F121").
				WithDetail(fmt.Sprintf("Posts could not be listed from s3://%s/%s.", cfg.Posts.S3.Bucket, cfg.Posts.S3.Prefix)).
				WithSuggestion("Check the bucket name, region and AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY").
				Wrap(err)
		}
		return src, nil
	}

	dir := cfg.PostsPath()
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		fe := errors.New("F120").
			WithDetail(fmt.Sprintf("%s does not exist or is not a directory.", dir)).
			WithSuggestion("Create it or set posts.dir in flight.json (or --posts)")
		if err != nil {
			fe.Wrap(err)
		}
		return nil, fe
	}
	return &content.DirSource{Dir: dir, Ext: cfg.Posts.Ext}, nil
}

// newBlog creates the blog pages for cfg.
func newBlog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*blog.Blog, error) {
	source, err := newSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return blog.New(blog.Config{
		Source: source,
		Title:  cfg.Site.Title,
		Author: cfg.Site.Author,
		Logger: logger,
	})
}

// newRenderer creates the resolver and renderer for cfg.
func newRenderer(cfg *config.Config, logger *slog.Logger) (*resolve.Resolver, *render.Renderer) {
	resolver := resolve.New(resolve.WithLogger(logger))
	renderer := render.NewRenderer(render.RendererConfig{
		VoidElements: cfg.Render.VoidElements,
		Resolver:     resolver,
		Logger:       logger,
	})
	return resolver, renderer
}

// pageScripts returns the import map and module scripts from cfg. Bare
// script names are served from the static prefix.
func pageScripts(cfg *config.Config) ([]render.ScriptTag, error) {
	var scripts []render.ScriptTag
	if len(cfg.Render.ImportMap) > 0 {
		importMap, err := render.ImportMap(cfg.Render.ImportMap)
		if err != nil {
			return nil, errors.New("F102").WithDetail("render.importMap cannot be encoded").Wrap(err)
		}
		scripts = append(scripts, importMap)
	}
	resolver := assets.NewPassthroughResolver(cfg.Static.Prefix)
	if cfg.Static.Manifest != "" {
		manifest, err := assets.Load(cfg.ManifestPath())
		if err != nil {
			return nil, errors.New("F102").WithDetail("static.manifest cannot be loaded").Wrap(err)
		}
		resolver = assets.NewResolver(manifest, cfg.Static.Prefix)
	}
	for _, src := range cfg.Render.Scripts {
		scripts = append(scripts, render.ScriptTag{Src: resolver.Asset(src), Module: true})
	}
	return scripts, nil
}
