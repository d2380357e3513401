package main

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/vango-dev/flight/internal/errors"
	"github.com/vango-dev/flight/pkg/content"
	"github.com/vango-dev/flight/pkg/protocol"
	"github.com/vango-dev/flight/pkg/render"
	"github.com/vango-dev/flight/pkg/routepath"
)

type renderOptions struct {
	wire  bool
	posts string
}

func renderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [path]",
		Short: "Render one page to standard output",
		Long: `Render one page to standard output without starting a server.

The page at path (default "/") is resolved exactly as the server would
resolve it and written as an HTML document, or as its wire form with
--wire.

Examples:
  flight render
  flight render /hello-world
  flight render /hello-world --wire`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("posts") {
				cfg.Posts.Dir = opts.posts
			}
			if err := root.finish(cmd, cfg); err != nil {
				return err
			}

			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			res, err := routepath.Canonicalize(path)
			if err != nil {
				return errors.New("F181").WithDetail(fmt.Sprintf("%q is not a valid page path.", path)).Wrap(err)
			}
			u, err := url.Parse(res.String())
			if err != nil {
				return errors.New("F181").WithDetail(fmt.Sprintf("%q is not a valid page path.", path)).Wrap(err)
			}

			b, err := newBlog(cmd.Context(), cfg, root.logger)
			if err != nil {
				return err
			}
			resolver, renderer := newRenderer(cfg, root.logger)

			ctx := cmd.Context()
			tree, err := resolver.Resolve(ctx, b.Route(u))
			if err != nil {
				if stderrors.Is(err, content.ErrNotFound) {
					return errors.New("F122").WithDetail(fmt.Sprintf("No post matches %s.", res.Path)).Wrap(err)
				}
				return errors.New("F140").Wrap(err)
			}
			wire, err := protocol.EncodeString(tree)
			if err != nil {
				return errors.New("F160").Wrap(err)
			}

			out := cmd.OutOrStdout()
			if opts.wire {
				_, err := fmt.Fprintln(out, wire)
				return err
			}

			scripts, err := pageScripts(cfg)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			err = renderer.RenderDocument(ctx, &buf, render.DocumentData{
				Tree:         tree,
				Wire:         wire,
				BootstrapVar: cfg.Render.BootstrapVar,
				Scripts:      scripts,
			})
			if err != nil {
				return errors.New("F141").Wrap(err)
			}
			buf.WriteByte('\n')
			_, err = buf.WriteTo(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.wire, "wire", false, "Write the wire form instead of HTML")
	cmd.Flags().StringVar(&opts.posts, "posts", "", "Directory containing posts (default from flight.json)")
	return cmd
}
