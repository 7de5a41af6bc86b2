package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// Helper function to clear environment variables
func clearEnvVars() {
	os.Unsetenv("DOCULENS_MODE")
	os.Unsetenv("DOCULENS_FILE")
	os.Unsetenv("DOCULENS_DIR")
	os.Unsetenv("DOCULENS_OUT")
	os.Unsetenv("DOCULENS_FORMAT")
	os.Unsetenv("DOCULENS_WORKERS")
	os.Unsetenv("DOCULENS_LOGLEVEL")
	os.Unsetenv("DOCULENS_MAXFILESIZE")
}

func withArgs(t *testing.T, args []string) {
	t.Helper()
	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	})
	os.Args = args
	resetFlags()
	clearEnvVars()
}

func TestLoadFromFlags_StdioDefaults(t *testing.T) {
	withArgs(t, []string{"doculens", "--mode=stdio"})

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeStdio {
		t.Errorf("Mode = %v, want %v", cfg.Mode, ModeStdio)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %v, want %v", cfg.Workers, DefaultWorkers)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("MaxFileSize = %v, want %v", cfg.MaxFileSize, DefaultMaxFileSize)
	}
}

func TestLoadFromFlags_CLIFlags(t *testing.T) {
	dir := t.TempDir()
	withArgs(t, []string{
		"doculens",
		"--dir=" + dir,
		"--out=results.csv",
		"--format=csv",
		"--workers=8",
		"--loglevel=debug",
	})

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeCLI {
		t.Errorf("Mode = %v, want %v", cfg.Mode, ModeCLI)
	}
	if cfg.Directory != dir {
		t.Errorf("Directory = %v, want %v", cfg.Directory, dir)
	}
	if cfg.OutputFormat != "csv" {
		t.Errorf("OutputFormat = %v, want csv", cfg.OutputFormat)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %v, want 8", cfg.Workers)
	}
	if !cfg.IsDebug() {
		t.Error("expected debug logging")
	}
}

func TestLoadFromFlags_EnvVariables(t *testing.T) {
	dir := t.TempDir()
	withArgs(t, []string{"doculens"})
	os.Setenv("DOCULENS_DIR", dir)
	os.Setenv("DOCULENS_WORKERS", "2")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Directory != dir {
		t.Errorf("Directory = %v, want %v", cfg.Directory, dir)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %v, want 2", cfg.Workers)
	}
}

func TestLoadFromFlags_FlagOverridesEnv(t *testing.T) {
	dir := t.TempDir()
	withArgs(t, []string{"doculens", "--dir=" + dir, "--workers=6"})
	os.Setenv("DOCULENS_WORKERS", "2")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}
	if cfg.Workers != 6 {
		t.Errorf("Workers = %v, want flag value 6", cfg.Workers)
	}
}

func TestLoadFromFlags_InvalidConfig(t *testing.T) {
	withArgs(t, []string{"doculens", "--mode=cli"})

	if _, err := LoadFromFlags(); err == nil {
		t.Error("expected validation error for cli mode without input")
	}
}
