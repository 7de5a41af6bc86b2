package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/doculens/doculens/internal/capability"
	"github.com/doculens/doculens/internal/capability/onnx"
	"github.com/doculens/doculens/internal/config"
	"github.com/doculens/doculens/internal/export"
	"github.com/doculens/doculens/internal/logging"
	"github.com/doculens/doculens/internal/mcp"
	"github.com/doculens/doculens/internal/pipeline"
	"github.com/doculens/doculens/internal/schema"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if version != "dev" {
		cfg.Version = version
	}

	logger := logging.New(cfg.LogLevel, cfg.IsStdioMode())

	caps, cleanup := buildRegistry(cfg, logger)
	defer cleanup()

	p := pipeline.New(pipeline.Config{
		MaxFileSize:     cfg.MaxFileSize,
		MinTextLength:   cfg.MinTextLength,
		Workers:         cfg.Workers,
		DocumentTimeout: cfg.DocTimeout,
	}, caps, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsStdioMode() {
		runStdioMode(ctx, cfg, p, logger)
		return
	}
	runCLIMode(ctx, cancel, cfg, p, logger)
}

// buildRegistry loads optional capability implementations. A missing or
// broken model bundle degrades to rule-based analysis instead of failing
// startup.
func buildRegistry(cfg *config.Config, logger zerolog.Logger) (*capability.Registry, func()) {
	if cfg.ModelDir == "" {
		return capability.NewRegistry(), func() {}
	}

	classifier, err := onnx.Load(cfg.ModelDir, 0)
	if err != nil {
		logger.Warn().Str("dir", cfg.ModelDir).Err(err).
			Msg("cannot load ONNX model bundle, continuing with rule-based analysis")
		return capability.NewRegistry(), func() {}
	}

	logger.Info().Str("dir", cfg.ModelDir).Msg("loaded ONNX sentiment model")
	return capability.NewRegistry(capability.WithSentimentClassifier(classifier)), func() {
		if err := classifier.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing ONNX classifier")
		}
	}
}

// runCLIMode processes the configured input and writes the export file.
// A shutdown signal cancels in-flight documents; completed records are still
// written.
func runCLIMode(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, p *pipeline.Pipeline, logger zerolog.Logger) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	var records []*schema.Record
	var err error
	if cfg.Directory != "" {
		records, err = p.ProcessDirectory(ctx, cfg.Directory)
	} else {
		var rec *schema.Record
		rec, err = p.GenerateMetadata(ctx, cfg.File)
		if rec != nil {
			records = []*schema.Record{rec}
		}
	}
	if err != nil {
		logger.Error().Err(err).Msg("processing failed")
		os.Exit(1)
	}

	if err := export.Save(records, cfg.OutputPath, cfg.OutputFormat); err != nil {
		logger.Error().Err(err).Msg("export failed")
		os.Exit(1)
	}
	logger.Info().
		Int("records", len(records)).
		Str("path", cfg.OutputPath).
		Str("format", cfg.OutputFormat).
		Msg("metadata written")
}

// runStdioMode serves the MCP protocol; the parent process owns the
// lifecycle.
func runStdioMode(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, logger zerolog.Logger) {
	server, err := mcp.NewServer(cfg, p, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create MCP server")
		os.Exit(1)
	}
	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("doculens\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
