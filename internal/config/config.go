// Package config loads the doculens configuration from flags and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeCLI   = "cli"
	ModeStdio = "stdio"

	// Default values
	DefaultLogLevel      = "info"
	DefaultOutputFormat  = "json"
	DefaultWorkers       = 4
	DefaultMaxFileSize   = 100 * 1024 * 1024 // 100MB
	DefaultMinTextLength = 10
	DefaultDocTimeout    = 2 * time.Minute
)

// Config holds all configuration for doculens.
type Config struct {
	// Run mode: "cli" for one-shot processing, "stdio" for the MCP server.
	Mode string

	// Input: exactly one of File or Directory in cli mode.
	File      string
	Directory string

	// Output
	OutputPath   string
	OutputFormat string // "json" or "csv"

	// Pipeline tuning
	Workers       int
	DocTimeout    time.Duration
	MinTextLength int
	MaxFileSize   int64

	// Capability models
	ModelDir string

	// Application
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:          ModeCLI,
		OutputPath:    "metadata.json",
		OutputFormat:  DefaultOutputFormat,
		Workers:       DefaultWorkers,
		DocTimeout:    DefaultDocTimeout,
		MinTextLength: DefaultMinTextLength,
		MaxFileSize:   DefaultMaxFileSize,
		Version:       "1.0.0",
		ServerName:    "doculens",
		LogLevel:      DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	for _, path := range []*string{&cfg.File, &cfg.Directory, &cfg.OutputPath, &cfg.ModelDir} {
		if *path == "" {
			continue
		}
		if expanded, err := filepath.Abs(*path); err == nil {
			*path = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("DOCULENS")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("file", cfg.File)
	viper.SetDefault("dir", cfg.Directory)
	viper.SetDefault("out", cfg.OutputPath)
	viper.SetDefault("format", cfg.OutputFormat)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("doctimeout", cfg.DocTimeout)
	viper.SetDefault("mintextlength", cfg.MinTextLength)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("modeldir", cfg.ModelDir)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'cli' for one-shot processing, 'stdio' for the MCP server")
	pflag.String("file", cfg.File, "Single document to process (cli mode)")
	pflag.String("dir", cfg.Directory, "Directory of documents to process (cli mode)")
	pflag.String("out", cfg.OutputPath, "Output file path")
	pflag.String("format", cfg.OutputFormat, "Output format: json or csv")
	pflag.Int("workers", cfg.Workers, "Concurrent documents in batch mode")
	pflag.Duration("doctimeout", cfg.DocTimeout, "Per-document processing timeout (0 disables)")
	pflag.Int("mintextlength", cfg.MinTextLength, "Minimum extracted text length counted as success")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum document file size in bytes")
	pflag.String("modeldir", cfg.ModelDir, "Directory holding the optional ONNX model bundle")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "file", "dir", "out", "format", "workers",
		"doctimeout", "mintextlength", "maxfilesize", "modeldir", "loglevel",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ndoculens - document metadata generation pipeline\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --file=report.pdf                       # one document to metadata.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=./docs --out=meta.csv --format=csv # batch a directory to CSV\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --modeldir=./models        # MCP server with ONNX models\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DOCULENS_MODE           Run mode\n")
		fmt.Fprintf(os.Stderr, "  DOCULENS_FILE           Single input document\n")
		fmt.Fprintf(os.Stderr, "  DOCULENS_DIR            Input directory\n")
		fmt.Fprintf(os.Stderr, "  DOCULENS_OUT            Output file path\n")
		fmt.Fprintf(os.Stderr, "  DOCULENS_FORMAT         Output format\n")
		fmt.Fprintf(os.Stderr, "  DOCULENS_WORKERS        Batch worker count\n")
		fmt.Fprintf(os.Stderr, "  DOCULENS_DOCTIMEOUT     Per-document timeout\n")
		fmt.Fprintf(os.Stderr, "  DOCULENS_MINTEXTLENGTH  Minimum text length\n")
		fmt.Fprintf(os.Stderr, "  DOCULENS_MAXFILESIZE    Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  DOCULENS_MODELDIR       ONNX model bundle directory\n")
		fmt.Fprintf(os.Stderr, "  DOCULENS_LOGLEVEL       Log level\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.File = viper.GetString("file")
	cfg.Directory = viper.GetString("dir")
	cfg.OutputPath = viper.GetString("out")
	cfg.OutputFormat = viper.GetString("format")
	cfg.Workers = viper.GetInt("workers")
	cfg.DocTimeout = viper.GetDuration("doctimeout")
	cfg.MinTextLength = viper.GetInt("mintextlength")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.ModelDir = viper.GetString("modeldir")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeStdio {
		return errors.New("mode must be either 'cli' or 'stdio'")
	}

	if c.Mode == ModeCLI {
		if c.File == "" && c.Directory == "" {
			return errors.New("cli mode needs --file or --dir")
		}
		if c.File != "" && c.Directory != "" {
			return errors.New("--file and --dir are mutually exclusive")
		}
		if c.OutputPath == "" {
			return errors.New("output path cannot be empty")
		}
		if c.OutputFormat != "json" && c.OutputFormat != "csv" {
			return fmt.Errorf("invalid output format: %s (must be json or csv)", c.OutputFormat)
		}
	}

	if c.Directory != "" {
		if info, err := os.Stat(c.Directory); err != nil {
			return fmt.Errorf("cannot access directory %s: %w", c.Directory, err)
		} else if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", c.Directory)
		}
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.DocTimeout < 0 {
		return errors.New("document timeout cannot be negative")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true when running as an MCP server on standard I/O.
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, File: %s, Directory: %s, Out: %s, Format: %s, Workers: %d, LogLevel: %s}",
		c.Mode, c.File, c.Directory, c.OutputPath, c.OutputFormat, c.Workers, c.LogLevel)
}
