// Package config loads zoom-mcp settings from an optional YAML file and
// environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIBaseURL is the Zoom REST API v2 base.
	DefaultAPIBaseURL = "https://api.zoom.us/v2"
	// DefaultTokenURL is Zoom's OAuth token endpoint.
	DefaultTokenURL = "https://zoom.us/oauth/token"

	// EnvConfigFile names the YAML file to load when --config is not given.
	EnvConfigFile = "ZOOM_MCP_CONFIG"

	envAPIBaseURL     = "ZOOM_API_BASE_URL"
	envTokenURL       = "ZOOM_TOKEN_URL"
	envRequestTimeout = "ZOOM_REQUEST_TIMEOUT"
	envUserAgent      = "ZOOM_USER_AGENT"
	envLogLevel       = "LOG_LEVEL"
	envLogFormat      = "LOG_FORMAT"
)

// Config is the full server configuration.
type Config struct {
	Zoom ZoomConfig `yaml:"zoom"`
	Log  LogConfig  `yaml:"log"`
}

// ZoomConfig controls how the server talks to Zoom.
type ZoomConfig struct {
	APIBaseURL string `yaml:"api_base_url"`
	TokenURL   string `yaml:"token_url"`
	// RequestTimeout is a Go duration string. Empty or "0" means no timeout.
	RequestTimeout string `yaml:"request_timeout"`
	UserAgent      string `yaml:"user_agent"`

	timeout time.Duration
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Timeout returns the parsed request timeout. Zero means none.
func (z ZoomConfig) Timeout() time.Duration {
	return z.timeout
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Zoom: ZoomConfig{
			APIBaseURL: DefaultAPIBaseURL,
			TokenURL:   DefaultTokenURL,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// $ZOOM_MCP_CONFIG when path is empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigFile))
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	overrideString(&c.Zoom.APIBaseURL, fileCfg.Zoom.APIBaseURL)
	overrideString(&c.Zoom.TokenURL, fileCfg.Zoom.TokenURL)
	overrideString(&c.Zoom.RequestTimeout, fileCfg.Zoom.RequestTimeout)
	overrideString(&c.Zoom.UserAgent, fileCfg.Zoom.UserAgent)
	overrideString(&c.Log.Level, fileCfg.Log.Level)
	overrideString(&c.Log.Format, fileCfg.Log.Format)
	return nil
}

func (c *Config) applyEnv() {
	overrideString(&c.Zoom.APIBaseURL, os.Getenv(envAPIBaseURL))
	overrideString(&c.Zoom.TokenURL, os.Getenv(envTokenURL))
	overrideString(&c.Zoom.RequestTimeout, os.Getenv(envRequestTimeout))
	overrideString(&c.Zoom.UserAgent, os.Getenv(envUserAgent))
	overrideString(&c.Log.Level, os.Getenv(envLogLevel))
	overrideString(&c.Log.Format, os.Getenv(envLogFormat))
}

// Validate checks URLs and the timeout and caches the parsed timeout.
func (c *Config) Validate() error {
	c.Zoom.APIBaseURL = strings.TrimRight(c.Zoom.APIBaseURL, "/")

	if err := validateHTTPURL("zoom.api_base_url", c.Zoom.APIBaseURL); err != nil {
		return err
	}
	if err := validateHTTPURL("zoom.token_url", c.Zoom.TokenURL); err != nil {
		return err
	}

	c.Zoom.timeout = 0
	if c.Zoom.RequestTimeout != "" {
		d, err := time.ParseDuration(c.Zoom.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid zoom.request_timeout %q: %w", c.Zoom.RequestTimeout, err)
		}
		if d < 0 {
			return fmt.Errorf("zoom.request_timeout must not be negative, got %s", d)
		}
		c.Zoom.timeout = d
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q, must be text or json", c.Log.Format)
	}

	return nil
}

func validateHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", field, raw)
	}
	return nil
}

func overrideString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}
