package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults_Validate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Errorf("Defaults().Validate() should pass, got %v", err)
	}
}

func TestDefaults_Values(t *testing.T) {
	cfg := Defaults()

	if cfg.Download.ImageBaseURL != "https://img.youtube.com/vi" {
		t.Errorf("ImageBaseURL = %q", cfg.Download.ImageBaseURL)
	}
	if cfg.Download.MinImageBytes != 1000 {
		t.Errorf("MinImageBytes = %d, want 1000", cfg.Download.MinImageBytes)
	}
	if cfg.Metadata.Timeout != 10*time.Second {
		t.Errorf("Metadata.Timeout = %v, want 10s", cfg.Metadata.Timeout)
	}
	if cfg.History.Path != "" {
		t.Errorf("History.Path = %q, want empty (disabled)", cfg.History.Path)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty image base", func(c *Config) { c.Download.ImageBaseURL = "" }, true},
		{"non-http image base", func(c *Config) { c.Download.ImageBaseURL = "ftp://img" }, true},
		{"empty watch base", func(c *Config) { c.Metadata.WatchBaseURL = "" }, true},
		{"zero download timeout", func(c *Config) { c.Download.Timeout = 0 }, true},
		{"zero metadata timeout", func(c *Config) { c.Metadata.Timeout = 0 }, true},
		{"negative min bytes", func(c *Config) { c.Download.MinImageBytes = -1 }, true},
		{"zero min bytes", func(c *Config) { c.Download.MinImageBytes = 0 }, false},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero list limit", func(c *Config) { c.History.ListLimit = 0 }, true},
		{"json format", func(c *Config) { c.Log.Format = "json" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want string
	}{
		{
			name: "all interfaces",
			cfg:  ServerConfig{Host: "0.0.0.0", Port: 9848},
			want: "0.0.0.0:9848",
		},
		{
			name: "localhost",
			cfg:  ServerConfig{Host: "localhost", Port: 8080},
			want: "localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Address(); got != tt.want {
				t.Errorf("Address() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_FromYAMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
download:
  min_image_bytes: 2048
  timeout: 45s
server:
  port: 8080
history:
  path: "/var/lib/yt-thumb/history.db"
log:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Download.MinImageBytes != 2048 {
		t.Errorf("MinImageBytes = %d, want 2048", cfg.Download.MinImageBytes)
	}
	if cfg.Download.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Download.Timeout)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.History.Path != "/var/lib/yt-thumb/history.db" {
		t.Errorf("History.Path = %q", cfg.History.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	// Untouched values keep their defaults
	if cfg.Download.ImageBaseURL != "https://img.youtube.com/vi" {
		t.Errorf("ImageBaseURL = %q, want default", cfg.Download.ImageBaseURL)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
server:
  host: "localhost"
  port: 8080
history:
  path: "/yaml/history.db"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("HISTORY_PATH", "/env/history.db")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "localhost" {
		t.Errorf("Host = %q, want %q (from YAML)", cfg.Server.Host, "localhost")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090 (from env)", cfg.Server.Port)
	}
	if cfg.History.Path != "/env/history.db" {
		t.Errorf("History.Path = %q, want env value", cfg.History.Path)
	}
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("IMAGE_BASE_URL", "http://127.0.0.1:1234/vi")
	t.Setenv("METADATA_TIMEOUT", "3s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Download.ImageBaseURL != "http://127.0.0.1:1234/vi" {
		t.Errorf("ImageBaseURL = %q", cfg.Download.ImageBaseURL)
	}
	if cfg.Metadata.Timeout != 3*time.Second {
		t.Errorf("Metadata.Timeout = %v, want 3s", cfg.Metadata.Timeout)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("download: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load should fail for invalid YAML")
	}
}

func TestLoad_NonexistentFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Load should fail for nonexistent file")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")

	if _, err := Load(""); err == nil {
		t.Error("Load should fail validation for unknown log format")
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	if _, err := Load(""); err == nil {
		t.Error("Load should fail for non-numeric SERVER_PORT")
	}
}
