package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/flight/pkg/middleware"
)

// Default endpoint paths.
const (
	DefaultMetricsPath  = "/metrics"
	DefaultReloadPath   = "/_flight/reload"
	DefaultStaticPrefix = "/static/"
	DefaultHealthPath   = "/healthz"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":3000".
	Address string

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout is the maximum time to read request headers.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// ReadTimeout is the maximum time to read the full request.
	// Default: 30 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to write a response.
	// Default: 30 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum time to wait for the next request on a
	// keep-alive connection. Default: 120 seconds.
	IdleTimeout time.Duration

	// StaticDir is served under StaticPrefix when set.
	StaticDir string

	// StaticPrefix is the URL prefix for StaticDir.
	// Default: "/static/".
	StaticPrefix string

	// Metrics instruments every request when set.
	Metrics *middleware.Metrics

	// Gatherer is exposed at MetricsPath when set.
	Gatherer prometheus.Gatherer

	// MetricsPath defaults to "/metrics".
	MetricsPath string

	// Tracing enables the OpenTelemetry request middleware.
	Tracing bool

	// Reload is mounted at ReloadPath when set (development live reload).
	Reload http.Handler

	// ReloadPath defaults to "/_flight/reload".
	ReloadPath string

	// WireQueryParam is the query flag selecting the wire form, used to
	// label logs, metrics and spans. Default: "jsx".
	WireQueryParam string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           ":3000",
		ShutdownTimeout:   30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		StaticPrefix:      DefaultStaticPrefix,
		MetricsPath:       DefaultMetricsPath,
		ReloadPath:        DefaultReloadPath,
		WireQueryParam:    middleware.DefaultWireFlag,
	}
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		return defaults
	}
	config := *c
	if config.Address == "" {
		config.Address = defaults.Address
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if config.ReadHeaderTimeout == 0 {
		config.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = defaults.ReadTimeout
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}
	if config.IdleTimeout == 0 {
		config.IdleTimeout = defaults.IdleTimeout
	}
	if config.StaticPrefix == "" {
		config.StaticPrefix = defaults.StaticPrefix
	}
	if config.MetricsPath == "" {
		config.MetricsPath = defaults.MetricsPath
	}
	if config.ReloadPath == "" {
		config.ReloadPath = defaults.ReloadPath
	}
	if config.WireQueryParam == "" {
		config.WireQueryParam = defaults.WireQueryParam
	}
	return &config
}
