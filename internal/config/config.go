package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/flight/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "flight.json"

	// DefaultAddress is the default listen address.
	DefaultAddress = ":3000"

	// DefaultPostsDir is the default directory holding post files.
	DefaultPostsDir = "posts"

	// DefaultPostExt is the default post file extension.
	DefaultPostExt = ".txt"

	// DefaultStaticPrefix is the URL prefix for static files.
	DefaultStaticPrefix = "/static/"

	// DefaultWireQueryParam selects the wire form of a page.
	DefaultWireQueryParam = "jsx"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// Config represents the complete flight.json configuration.
type Config struct {
	// Address is the address the server listens on.
	Address string `json:"address,omitempty"`

	// Upstream is the base URL of a flight server to proxy. When set the
	// server renders pages fetched from the upstream instead of reading
	// posts itself.
	Upstream string `json:"upstream,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "30s").
	ShutdownTimeout Duration `json:"shutdownTimeout,omitempty"`

	// Site contains the blog's presentation settings.
	Site SiteConfig `json:"site,omitempty"`

	// Posts contains the content source configuration.
	Posts PostsConfig `json:"posts,omitempty"`

	// Static contains static file serving configuration.
	Static StaticConfig `json:"static,omitempty"`

	// Render contains document rendering settings.
	Render RenderConfig `json:"render,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing enables OpenTelemetry spans.
	Tracing bool `json:"tracing,omitempty"`

	// Dev contains development settings.
	Dev DevConfig `json:"dev,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SiteConfig contains the blog's presentation settings.
type SiteConfig struct {
	// Title is the document title.
	Title string `json:"title,omitempty"`

	// Author is printed in the footer.
	Author string `json:"author,omitempty"`
}

// PostsConfig selects where posts are read from. S3 is used when
// S3.Bucket is set, the directory otherwise.
type PostsConfig struct {
	// Dir is the directory containing post files.
	Dir string `json:"dir,omitempty"`

	// Ext is the post file extension.
	Ext string `json:"ext,omitempty"`

	// S3 contains bucket settings.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 content source settings. Credentials come from
// the AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY environment variables.
type S3Config struct {
	Bucket       string `json:"bucket,omitempty"`
	Prefix       string `json:"prefix,omitempty"`
	Region       string `json:"region,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	UsePathStyle bool   `json:"usePathStyle,omitempty"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix for static files (default: "/static/").
	Prefix string `json:"prefix,omitempty"`

	// Manifest maps bare script names to fingerprinted file names.
	Manifest string `json:"manifest,omitempty"`
}

// RenderConfig contains document rendering settings.
type RenderConfig struct {
	// VoidElements writes void elements (hr, input, ...) without a
	// closing tag.
	VoidElements bool `json:"voidElements,omitempty"`

	// BootstrapVar is the global receiving the embedded wire form.
	BootstrapVar string `json:"bootstrapVar,omitempty"`

	// WireQueryParam is the query flag selecting the wire form.
	WireQueryParam string `json:"wireQueryParam,omitempty"`

	// Scripts are script URLs added after the bootstrap data, loaded
	// as modules.
	Scripts []string `json:"scripts,omitempty"`

	// ImportMap is written as an import map before the scripts.
	ImportMap map[string]string `json:"importMap,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes request metrics.
	Enabled bool `json:"enabled,omitempty"`

	// Path is the metrics endpoint (default: "/metrics").
	Path string `json:"path,omitempty"`

	// Namespace prefixes metric names (default: "flight").
	Namespace string `json:"namespace,omitempty"`
}

// DevConfig contains development settings.
type DevConfig struct {
	// Reload enables live reload when watched files change.
	Reload bool `json:"reload,omitempty"`

	// Watch contains paths to watch for changes.
	Watch []string `json:"watch,omitempty"`

	// Ignore contains glob patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for flight.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("F100").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Create flight.json or pass settings as flags").
				Wrap(err)
		}
		return nil, errors.New("F101").Wrap(err)
	}

	cfg := &Config{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, parseError(path, data, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// parseError converts a JSON error into an F101 error pointing at the
// offending position when one is known.
func parseError(path string, data []byte, err error) error {
	fe := errors.New("F101").
		WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
		WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON with known fields")

	var offset int64 = -1
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case stderrors.As(err, &typeErr):
		offset = typeErr.Offset
	}
	if offset >= 0 {
		line, col := position(data, offset)
		fe.WithLocation(path, line, col)
	}
	return fe.Wrap(err)
}

// position converts a byte offset to a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - (bytes.LastIndexByte(before, '\n') + 1)
	if col < 1 {
		col = 1
	}
	return line, col
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("F101").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("F101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = Duration(DefaultShutdownTimeout)
	}

	// Posts
	if c.Posts.Dir == "" {
		c.Posts.Dir = DefaultPostsDir
	}
	if c.Posts.Ext == "" {
		c.Posts.Ext = DefaultPostExt
	}

	// Static
	if c.Static.Prefix == "" {
		c.Static.Prefix = DefaultStaticPrefix
	}

	// Render
	if c.Render.WireQueryParam == "" {
		c.Render.WireQueryParam = DefaultWireQueryParam
	}

	// Metrics
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "flight"
	}

	// Dev
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{c.Posts.Dir}
		if c.Static.Dir != "" {
			c.Dev.Watch = append(c.Dev.Watch, c.Static.Dir)
		}
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(detail string) error {
		return errors.New("F102").WithDetail(detail)
	}

	if c.Address == "" {
		return invalid("address must not be empty")
	}
	if c.ShutdownTimeout < 0 {
		return invalid("shutdownTimeout must not be negative")
	}
	if c.Upstream != "" {
		u, err := url.Parse(c.Upstream)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("upstream must be an absolute http or https URL")
		}
	}
	if !strings.HasPrefix(c.Posts.Ext, ".") {
		return invalid("posts.ext must start with a dot")
	}
	if c.Posts.S3.Bucket == "" && (c.Posts.S3.Prefix != "" || c.Posts.S3.Endpoint != "") {
		return invalid("posts.s3.bucket is required when other s3 settings are given")
	}
	if !strings.HasPrefix(c.Static.Prefix, "/") {
		return invalid("static.prefix must start with a slash")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path must start with a slash")
	}
	if strings.ContainsAny(c.Render.WireQueryParam, "&=?#") {
		return invalid("render.wireQueryParam must be a bare query flag")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level must be debug, info, warn or error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be text or json")
	}
	return nil
}

// UseS3 reports whether posts are read from S3.
func (c *Config) UseS3() bool {
	return c.Posts.S3.Bucket != ""
}

// resolve makes a relative path relative to the config directory.
func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// PostsPath returns the path to the posts directory.
func (c *Config) PostsPath() string {
	return c.resolve(c.Posts.Dir)
}

// StaticPath returns the path to the static directory, or "" when no
// static directory is configured.
func (c *Config) StaticPath() string {
	return c.resolve(c.Static.Dir)
}

// ManifestPath returns the path to the asset manifest, or "" when none is
// configured.
func (c *Config) ManifestPath() string {
	return c.resolve(c.Static.Manifest)
}

// WatchPaths returns the paths to watch for live reload.
func (c *Config) WatchPaths() []string {
	paths := make([]string, 0, len(c.Dev.Watch))
	for _, p := range c.Dev.Watch {
		paths = append(paths, c.resolve(p))
	}
	return paths
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// flight.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("F100").
				WithDetail("No flight.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadOrDefault loads flight.json from the nearest directory at or above
// startDir. When none exists the defaults are returned with the config
// directory set to startDir.
func LoadOrDefault(startDir string) (*Config, error) {
	root, err := FindProjectRoot(startDir)
	if err != nil {
		var fe *errors.FlightError
		if stderrors.As(err, &fe) && fe.Code == "F100" {
			cfg := New()
			abs, absErr := filepath.Abs(startDir)
			if absErr != nil {
				return nil, absErr
			}
			cfg.configPath = filepath.Join(abs, ConfigFileName)
			return cfg, nil
		}
		return nil, err
	}
	return Load(root)
}
