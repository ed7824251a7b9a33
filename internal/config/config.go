package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/compose/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "compose.json"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultComponentsDir is the default directory for the dir source.
	DefaultComponentsDir = "components"

	// DefaultLoadTimeout bounds one component load.
	DefaultLoadTimeout = "10s"

	// DefaultRenderTimeout bounds one HTTP render.
	DefaultRenderTimeout = "10s"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "compose"
)

// Registry sources.
const (
	SourceDir  = "dir"
	SourceHTTP = "http"
	SourceS3   = "s3"
)

// Config represents the complete compose.json configuration.
type Config struct {
	// Registry configures where component definitions come from.
	Registry RegistryConfig `json:"registry"`

	// Server configures the HTTP/WebSocket server.
	Server ServerConfig `json:"server"`

	// Telemetry configures metrics and tracing.
	Telemetry TelemetryConfig `json:"telemetry"`

	// Log configures the process logger.
	Log LogConfig `json:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RegistryConfig configures the component registry.
type RegistryConfig struct {
	// Source is one of "dir", "http" or "s3". Default: "dir".
	Source string `json:"source,omitempty"`

	// Dir is the components directory for the dir source, relative to
	// the config file.
	Dir string `json:"dir,omitempty"`

	// Watch invalidates cached definitions when files in Dir change.
	Watch bool `json:"watch,omitempty"`

	// URL is the base URL for the http source.
	URL string `json:"url,omitempty"`

	// S3 configures the s3 source.
	S3 S3Config `json:"s3,omitempty"`

	// Timeout bounds one component load, as a duration string.
	Timeout string `json:"timeout,omitempty"`

	// Preload lists components loaded at startup.
	Preload []string `json:"preload,omitempty"`
}

// S3Config configures the s3 registry source.
type S3Config struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle addresses objects as endpoint/bucket/key.
	PathStyle bool `json:"pathStyle,omitempty"`
}

// ServerConfig configures the server.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// RenderTimeout bounds one HTTP render, as a duration string.
	RenderTimeout string `json:"renderTimeout,omitempty"`
}

// TelemetryConfig configures metrics and tracing.
type TelemetryConfig struct {
	// Metrics enables Prometheus metrics on /metrics.
	Metrics bool `json:"metrics,omitempty"`

	// Tracing enables OpenTelemetry spans for mounts and loads.
	Tracing bool `json:"tracing,omitempty"`

	// Namespace is the Prometheus namespace. Default: "compose".
	Namespace string `json:"namespace,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error. Default: info.
	Level string `json:"level,omitempty"`

	// Format is text or json. Default: text.
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Registry: RegistryConfig{
			Source:  SourceDir,
			Dir:     DefaultComponentsDir,
			Timeout: DefaultLoadTimeout,
		},
		Server: ServerConfig{
			Host:          DefaultHost,
			Port:          DefaultPort,
			RenderTimeout: DefaultRenderTimeout,
		},
		Telemetry: TelemetryConfig{
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for compose.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E303").
				WithDetail("No compose.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("E301").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E301").
			WithDetail("Failed to parse compose.json: " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E301").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E301").Wrap(err)
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

// applyDefaults fills in default values for fields emptied by the file.
func (c *Config) applyDefaults() {
	if c.Registry.Source == "" {
		c.Registry.Source = SourceDir
	}
	if c.Registry.Source == SourceDir && c.Registry.Dir == "" {
		c.Registry.Dir = DefaultComponentsDir
	}
	if c.Registry.Timeout == "" {
		c.Registry.Timeout = DefaultLoadTimeout
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.RenderTimeout == "" {
		c.Server.RenderTimeout = DefaultRenderTimeout
	}
	if c.Telemetry.Namespace == "" {
		c.Telemetry.Namespace = DefaultNamespace
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Registry.Source {
	case SourceDir:
		if c.Registry.Dir == "" {
			return invalid("registry.dir is required for the dir source")
		}
	case SourceHTTP:
		if !strings.HasPrefix(c.Registry.URL, "http://") && !strings.HasPrefix(c.Registry.URL, "https://") {
			return invalid("registry.url must be an http(s) URL for the http source")
		}
	case SourceS3:
		if c.Registry.S3.Bucket == "" {
			return invalid("registry.s3.bucket is required for the s3 source")
		}
	default:
		return invalid("registry.source must be dir, http or s3, got %q", c.Registry.Source)
	}

	if _, err := parseDuration("registry.timeout", c.Registry.Timeout); err != nil {
		return err
	}
	if _, err := parseDuration("server.renderTimeout", c.Server.RenderTimeout); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port must be between 0 and 65535")
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return invalid("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Address returns the server listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ComponentsPath returns the components directory, resolved against the
// config file's directory.
func (c *Config) ComponentsPath() string {
	if filepath.IsAbs(c.Registry.Dir) {
		return c.Registry.Dir
	}
	return filepath.Join(c.Dir(), c.Registry.Dir)
}

// LoadTimeout returns registry.timeout. Call Validate first; an invalid
// value yields 0.
func (c *Config) LoadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Registry.Timeout)
	return d
}

// RenderTimeout returns server.renderTimeout. Call Validate first; an
// invalid value yields 0.
func (c *Config) RenderTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.RenderTimeout)
	return d
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LogLevel returns log.level as a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	if l, ok := levels[strings.ToLower(c.Log.Level)]; ok {
		return l
	}
	return slog.LevelInfo
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing compose.json, or an error if not found.
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
			return "", errors.New("E303").
				WithDetail("No compose.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

func invalid(format string, args ...any) error {
	return errors.New("E302").WithDetailf(format, args...)
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, invalid("%s: %v", field, err)
	}
	if d < 0 {
		return 0, invalid("%s must not be negative", field)
	}
	return d, nil
}
