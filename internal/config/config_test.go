package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "cli" {
		t.Errorf("Expected default mode to be 'cli', got '%s'", cfg.Mode)
	}

	if cfg.OutputPath != "metadata.json" {
		t.Errorf("Expected default output path to be 'metadata.json', got '%s'", cfg.OutputPath)
	}

	if cfg.OutputFormat != "json" {
		t.Errorf("Expected default output format to be 'json', got '%s'", cfg.OutputFormat)
	}

	if cfg.Workers != 4 {
		t.Errorf("Expected default workers to be 4, got %d", cfg.Workers)
	}

	if cfg.DocTimeout != 2*time.Minute {
		t.Errorf("Expected default document timeout to be 2m, got %s", cfg.DocTimeout)
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.ServerName != "doculens" {
		t.Errorf("Expected default server name to be 'doculens', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}
}

func validCLIConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config - cli mode with dir",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid config - cli mode with file",
			mutate: func(c *Config) {
				c.Directory = ""
				c.File = "/tmp/report.pdf"
			},
			wantErr: false,
		},
		{
			name: "valid config - stdio mode without input",
			mutate: func(c *Config) {
				c.Mode = ModeStdio
				c.Directory = ""
			},
			wantErr: false,
		},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Mode = "server" },
			wantErr: true,
		},
		{
			name: "cli mode without input",
			mutate: func(c *Config) {
				c.Directory = ""
			},
			wantErr: true,
		},
		{
			name: "file and dir both set",
			mutate: func(c *Config) {
				c.File = "/tmp/report.pdf"
			},
			wantErr: true,
		},
		{
			name:    "empty output path",
			mutate:  func(c *Config) { c.OutputPath = "" },
			wantErr: true,
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.OutputFormat = "xml" },
			wantErr: true,
		},
		{
			name:    "missing directory",
			mutate:  func(c *Config) { c.Directory = "/nonexistent/path/for/test" },
			wantErr: true,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.DocTimeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "zero max file size",
			mutate:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validCLIConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsStdioMode(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.IsStdioMode() {
		t.Error("cli mode must not report stdio")
	}
	cfg.Mode = ModeStdio
	if !cfg.IsStdioMode() {
		t.Error("stdio mode not detected")
	}
}

func TestIsDebug(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.IsDebug() {
		t.Error("info level must not report debug")
	}
	cfg.LogLevel = "debug"
	if !cfg.IsDebug() {
		t.Error("debug level not detected")
	}
}
