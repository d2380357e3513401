package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/flight/internal/config"
	"github.com/vango-dev/flight/internal/dev"
	"github.com/vango-dev/flight/internal/errors"
	"github.com/vango-dev/flight/pkg/middleware"
	"github.com/vango-dev/flight/pkg/navigation"
	"github.com/vango-dev/flight/pkg/server"
)

type serveOptions struct {
	addr         string
	posts        string
	static       string
	upstream     string
	s3Bucket     string
	s3Prefix     string
	s3Region     string
	s3Endpoint   string
	author       string
	metrics      bool
	tracing      bool
	reload       bool
	voidElements bool
	shutdown     time.Duration
}

func serveCmd(root *rootOptions) *cobra.Command {
	return newServeCmd(root, &serveOptions{})
}

func newServeCmd(root *rootOptions, opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog over HTTP",
		Long: `Serve the blog over HTTP.

Every page is answered as an HTML document, or as its wire form when the
request carries ?jsx. Posts are read from the posts directory, or from an
S3 bucket when --s3-bucket is set.

With --upstream the server reads no posts itself: it fetches the wire form
of each page from another flight server and renders it as HTML.

Examples:
  flight serve
  flight serve --addr :8080 --posts ./posts
  flight serve --s3-bucket my-blog --s3-region eu-west-1
  flight serve --upstream http://localhost:8081 --addr :8080
  flight serve --reload --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := root.finish(cmd, cfg); err != nil {
				return err
			}
			return runServe(cmd, root, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.addr, "addr", "a", config.DefaultAddress, "Address to listen on")
	flags.StringVar(&opts.posts, "posts", config.DefaultPostsDir, "Directory containing posts")
	flags.StringVar(&opts.static, "static", "", "Directory served under the static prefix")
	flags.StringVar(&opts.upstream, "upstream", "", "Render pages fetched from this flight server")
	flags.StringVar(&opts.s3Bucket, "s3-bucket", "", "Read posts from this S3 bucket")
	flags.StringVar(&opts.s3Prefix, "s3-prefix", "", "Key prefix of posts in the bucket")
	flags.StringVar(&opts.s3Region, "s3-region", "", "Bucket region")
	flags.StringVar(&opts.s3Endpoint, "s3-endpoint", "", "Custom S3 endpoint (implies path-style addressing)")
	flags.StringVar(&opts.author, "author", "", "Author shown in the footer")
	flags.BoolVar(&opts.metrics, "metrics", false, "Expose Prometheus metrics")
	flags.BoolVar(&opts.tracing, "tracing", false, "Create OpenTelemetry spans for requests")
	flags.BoolVar(&opts.reload, "reload", false, "Reload browsers when watched files change")
	flags.BoolVar(&opts.voidElements, "void-elements", false, "Write void elements without closing tags")
	flags.DurationVar(&opts.shutdown, "shutdown-timeout", config.DefaultShutdownTimeout, "Graceful shutdown timeout")

	return cmd
}

// apply copies flags the user set onto cfg. Unset flags keep the values
// from flight.json.
func (o *serveOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("addr") {
		cfg.Address = o.addr
	}
	if changed("posts") {
		cfg.Posts.Dir = o.posts
	}
	if changed("static") {
		cfg.Static.Dir = o.static
	}
	if changed("upstream") {
		cfg.Upstream = o.upstream
	}
	if changed("s3-bucket") {
		cfg.Posts.S3.Bucket = o.s3Bucket
	}
	if changed("s3-prefix") {
		cfg.Posts.S3.Prefix = o.s3Prefix
	}
	if changed("s3-region") {
		cfg.Posts.S3.Region = o.s3Region
	}
	if changed("s3-endpoint") {
		cfg.Posts.S3.Endpoint = o.s3Endpoint
		cfg.Posts.S3.UsePathStyle = true
	}
	if changed("author") {
		cfg.Site.Author = o.author
	}
	if changed("metrics") {
		cfg.Metrics.Enabled = o.metrics
	}
	if changed("tracing") {
		cfg.Tracing = o.tracing
	}
	if changed("reload") {
		cfg.Dev.Reload = o.reload
	}
	if changed("void-elements") {
		cfg.Render.VoidElements = o.voidElements
	}
	if changed("shutdown-timeout") {
		cfg.ShutdownTimeout = config.Duration(o.shutdown)
	}
}

func runServe(cmd *cobra.Command, root *rootOptions, cfg *config.Config) error {
	ctx := cmd.Context()
	logger := root.logger

	var (
		metrics  *middleware.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = middleware.NewMetrics(
			middleware.WithRegistry(registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithWireFlag(cfg.Render.WireQueryParam),
		)
		gatherer = registry
	}

	scripts, err := pageScripts(cfg)
	if err != nil {
		return err
	}

	var reload http.Handler
	if cfg.Dev.Reload {
		lr, err := dev.NewLiveReload(dev.WatcherConfig{
			Paths:  dev.CollectWatchPaths(cfg),
			Ignore: cfg.Dev.Ignore,
			Logger: logger,
		}, server.DefaultReloadPath)
		if err != nil {
			return errors.New("F202").Wrap(err)
		}
		if err := lr.Start(ctx); err != nil {
			return errors.New("F202").Wrap(err)
		}
		defer lr.Stop()
		reload = lr.Handler()
		scripts = append(scripts, lr.Script())
	}

	resolver, renderer := newRenderer(cfg, logger)

	var pages http.Handler
	if cfg.Upstream != "" {
		pages, err = server.NewProxyHandler(server.ProxyConfig{
			Upstream: &navigation.HTTPFetcher{
				BaseURL:  cfg.Upstream,
				WireFlag: cfg.Render.WireQueryParam,
			},
			Renderer:       renderer,
			Scripts:        scripts,
			BootstrapVar:   cfg.Render.BootstrapVar,
			WireQueryParam: cfg.Render.WireQueryParam,
			Metrics:        metrics,
			Logger:         logger,
		})
		if err != nil {
			return err
		}
		logger.Info("proxying upstream", "upstream", cfg.Upstream)
	} else {
		b, err := newBlog(ctx, cfg, logger)
		if err != nil {
			return err
		}
		pages, err = server.NewHandler(server.HandlerConfig{
			Page:           b.Page,
			Resolver:       resolver,
			Renderer:       renderer,
			Scripts:        scripts,
			BootstrapVar:   cfg.Render.BootstrapVar,
			WireQueryParam: cfg.Render.WireQueryParam,
			Metrics:        metrics,
			Logger:         logger,
		})
		if err != nil {
			return err
		}
	}

	srv := server.New(pages, &server.ServerConfig{
		Address:         cfg.Address,
		ShutdownTimeout: time.Duration(cfg.ShutdownTimeout),
		StaticDir:       cfg.StaticPath(),
		StaticPrefix:    cfg.Static.Prefix,
		Metrics:         metrics,
		Gatherer:        gatherer,
		MetricsPath:     cfg.Metrics.Path,
		Tracing:         cfg.Tracing,
		Reload:          reload,
		ReloadPath:      server.DefaultReloadPath,
		WireQueryParam:  cfg.Render.WireQueryParam,
		Logger:          logger,
	})
	if err := srv.Listen(); err != nil {
		return errors.New("F200").
			WithDetail(fmt.Sprintf("Could not listen on %s.", cfg.Address)).
			WithSuggestion("Choose another address with --addr").
			Wrap(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", srv.Addr())
	return srv.Run(ctx)
}
