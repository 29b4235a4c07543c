package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Download DownloadConfig `yaml:"download"`
	Metadata MetadataConfig `yaml:"metadata"`
	Server   ServerConfig   `yaml:"server"`
	History  HistoryConfig  `yaml:"history"`
	Log      LogConfig      `yaml:"log"`
}

// DownloadConfig holds thumbnail fetch configuration.
type DownloadConfig struct {
	Timeout      time.Duration `yaml:"timeout" envconfig:"DOWNLOAD_TIMEOUT"`
	UserAgent    string        `yaml:"user_agent" envconfig:"DOWNLOAD_USER_AGENT"`
	ImageBaseURL string        `yaml:"image_base_url" envconfig:"IMAGE_BASE_URL"`
	// A tier that still has a fallback behind it must report a Content-Length
	// above MinImageBytes.
	MinImageBytes int64 `yaml:"min_image_bytes" envconfig:"MIN_IMAGE_BYTES"`
}

// MetadataConfig holds video page lookup configuration.
type MetadataConfig struct {
	WatchBaseURL   string        `yaml:"watch_base_url" envconfig:"METADATA_WATCH_BASE_URL"`
	Timeout        time.Duration `yaml:"timeout" envconfig:"METADATA_TIMEOUT"`
	UserAgent      string        `yaml:"user_agent" envconfig:"METADATA_USER_AGENT"`
	AcceptLanguage string        `yaml:"accept_language" envconfig:"METADATA_ACCEPT_LANGUAGE"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string        `yaml:"host" envconfig:"SERVER_HOST"`
	Port           int           `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"SERVER_REQUEST_TIMEOUT"`
}

// HistoryConfig holds download history configuration.
// An empty Path disables the history ledger.
type HistoryConfig struct {
	Path      string `yaml:"path" envconfig:"HISTORY_PATH"`
	ListLimit int    `yaml:"list_limit" envconfig:"HISTORY_LIST_LIMIT"`
}

// LogConfig holds logging configuration.
// An empty Level lets each binary pick its own default.
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"` // auto, text or json
}

// Defaults returns the configuration used when neither file nor environment
// sets a value.
func Defaults() *Config {
	return &Config{
		Download: DownloadConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			ImageBaseURL:  "https://img.youtube.com/vi",
			MinImageBytes: 1000,
		},
		Metadata: MetadataConfig{
			WatchBaseURL:   "https://www.youtube.com/watch",
			Timeout:        10 * time.Second,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			AcceptLanguage: "en-US,en;q=0.5",
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           9848,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   2 * time.Minute,
			RequestTimeout: time.Minute,
		},
		History: HistoryConfig{
			ListLimit: 20,
		},
		Log: LogConfig{
			Format: "auto",
		},
	}
}

// Load reads configuration from file and environment variables.
// Environment variables override file values, file values override defaults.
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if err := validateBaseURL("IMAGE_BASE_URL", c.Download.ImageBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("METADATA_WATCH_BASE_URL", c.Metadata.WatchBaseURL); err != nil {
		return err
	}
	if c.Download.Timeout <= 0 {
		return fmt.Errorf("DOWNLOAD_TIMEOUT must be positive")
	}
	if c.Metadata.Timeout <= 0 {
		return fmt.Errorf("METADATA_TIMEOUT must be positive")
	}
	if c.Download.MinImageBytes < 0 {
		return fmt.Errorf("MIN_IMAGE_BYTES cannot be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT out of range: %d", c.Server.Port)
	}
	if c.History.ListLimit <= 0 {
		return fmt.Errorf("HISTORY_LIST_LIMIT must be positive")
	}
	switch c.Log.Format {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be auto, text or json, got %q", c.Log.Format)
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func validateBaseURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
	}
	return nil
}
