package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/flight/internal/errors"
	"github.com/vango-dev/flight/pkg/navigation"
	"github.com/vango-dev/flight/pkg/render"
	"github.com/vango-dev/flight/pkg/vdom"
)

type browseOptions struct {
	concurrent bool
	quiet      bool
}

func browseCmd(root *rootOptions) *cobra.Command {
	opts := &browseOptions{}

	cmd := &cobra.Command{
		Use:   "browse URL [path...]",
		Short: "Navigate a running server through its wire form",
		Long: `Navigate a running flight server the way a client does.

Each path is fetched as a wire payload, decoded and committed to an
in-memory surface whose outline is printed. With --concurrent all
navigations start at once and only the most recently started one is
committed.

Examples:
  flight browse http://localhost:3000 / /hello-world
  flight browse http://localhost:3000 /a /b /c --concurrent`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args[1:]
			if len(paths) == 0 {
				paths = []string{"/"}
			}
			return runBrowse(cmd.Context(), cmd.OutOrStdout(), root, args[0], paths, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.concurrent, "concurrent", false, "Start all navigations at once")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Print committed paths only")
	return cmd
}

func runBrowse(ctx context.Context, out io.Writer, root *rootOptions, base string, paths []string, opts *browseOptions) error {
	var (
		mu      sync.Mutex
		visited []string
	)
	ctrl, err := navigation.New(navigation.Config{
		Fetcher: &navigation.HTTPFetcher{BaseURL: strings.TrimSuffix(base, "/")},
		Surface: navigation.SurfaceFunc(func(tree *vdom.Node) {
			if !opts.quiet {
				writeOutline(out, tree, 0)
			}
		}),
		History: navigation.HistoryFunc(func(path string) {
			mu.Lock()
			visited = append(visited, path)
			mu.Unlock()
		}),
		Origin: base,
		Logger: root.logger,
	})
	if err != nil {
		return err
	}

	if opts.concurrent {
		g, gctx := errgroup.WithContext(ctx)
		for _, p := range paths {
			g.Go(func() error {
				err := ctrl.Navigate(gctx, p)
				if stderrors.Is(err, navigation.ErrSuperseded) {
					return nil
				}
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return navigationError(err)
		}
	} else {
		for _, p := range paths {
			if err := ctrl.Navigate(ctx, p); err != nil {
				return navigationError(err)
			}
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for _, p := range visited {
		fmt.Fprintf(out, "committed %s\n", p)
	}
	return nil
}

func navigationError(err error) error {
	fe := errors.New("F180").Wrap(err)
	var se *navigation.StatusError
	if stderrors.As(err, &se) && se.NotFound() {
		fe.WithSuggestion("Check the path exists on the server")
	}
	return fe
}

// writeOutline prints one line per element, text and number.
func writeOutline(w io.Writer, n *vdom.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind() {
	case vdom.KindElement:
		if n.Key != "" {
			fmt.Fprintf(w, "%s<%s key=%q>\n", indent, n.Tag, n.Key)
		} else {
			fmt.Fprintf(w, "%s<%s>\n", indent, n.Tag)
		}
		if n.Children != nil {
			writeOutline(w, n.Children, depth+1)
		}
	case vdom.KindList:
		for _, item := range n.Items {
			writeOutline(w, item, depth)
		}
	case vdom.KindText:
		fmt.Fprintf(w, "%s%q\n", indent, n.Text)
	case vdom.KindNumber:
		fmt.Fprintf(w, "%s%s\n", indent, render.FormatNumber(n.Num))
	}
}
