package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/flight/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool

	logger *slog.Logger
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "flight",
		Short: "Serve pages as HTML and as a navigable wire format",
		Long: `flight renders trees of components on the server.

Every page is available as a complete HTML document and, with ?jsx,
as a JSON wire form that clients use to navigate without reloading:

  • Components resolved concurrently on the server
  • One tree, two outputs: markup and wire form
  • Posts from a directory or an S3 bucket
  • Split deployment with an upstream wire server
  • Prometheus metrics, OpenTelemetry spans, live reload`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				errors.DisableColors()
			}
			logger, err := newLogger(stderr, opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}
			opts.logger = logger
			slog.SetDefault(logger)
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to flight.json (default: nearest flight.json above the working directory)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from flight.json)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json (default from flight.json)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		initCmd(),
		serveCmd(opts),
		renderCmd(opts),
		browseCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// newLogger builds the process logger. Empty values mean info and text.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "", "info":
		lvl = slog.LevelInfo
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, errors.New("F220").WithDetail(fmt.Sprintf("unknown log level %q", level))
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, errors.New("F220").WithDetail(fmt.Sprintf("unknown log format %q", format))
	}
}
