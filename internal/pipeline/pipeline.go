// Package pipeline wires extraction, analysis, scoring, and assembly into
// the two metadata entry points and the batch runner.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/doculens/doculens/internal/analysis"
	"github.com/doculens/doculens/internal/capability"
	"github.com/doculens/doculens/internal/confidence"
	"github.com/doculens/doculens/internal/document"
	"github.com/doculens/doculens/internal/extract"
	"github.com/doculens/doculens/internal/schema"
	"github.com/doculens/doculens/internal/textproc"
)

// Config tunes the pipeline.
type Config struct {
	MaxFileSize     int64
	MinTextLength   int
	Workers         int
	DocumentTimeout time.Duration
	SummaryMaxChars int
	TopicCount      int
}

// DefaultConfig returns the standard settings.
func DefaultConfig() Config {
	return Config{
		MaxFileSize:     100 * 1024 * 1024,
		MinTextLength:   extract.DefaultMinTextLength,
		Workers:         4,
		DocumentTimeout: 2 * time.Minute,
		SummaryMaxChars: analysis.DefaultSummaryMaxChars,
		TopicCount:      analysis.DefaultTopicCount,
	}
}

// Pipeline runs documents through extraction, analysis, scoring, and
// assembly. One Pipeline serves all workers; it holds no per-document state.
type Pipeline struct {
	cfg          Config
	dispatcher   *extract.Dispatcher
	orchestrator *analysis.Orchestrator
	scorer       *confidence.Scorer
	assembler    *schema.Assembler
	logger       zerolog.Logger
}

// New builds a pipeline around the given capability registry. A nil or empty
// registry is valid: every task then runs its deterministic tier.
func New(cfg Config, caps *capability.Registry, logger zerolog.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}

	return &Pipeline{
		cfg: cfg,
		dispatcher: extract.NewDispatcher(extract.Config{
			MaxFileSize:   cfg.MaxFileSize,
			MinTextLength: cfg.MinTextLength,
		}, caps, logger),
		orchestrator: analysis.NewOrchestrator(analysis.Config{
			SummaryMaxChars: cfg.SummaryMaxChars,
			TopicCount:      cfg.TopicCount,
		}, caps, logger),
		scorer:    confidence.NewScorer(confidence.DefaultWeights()),
		assembler: schema.NewAssembler(),
		logger:    logger.With().Str("component", "pipeline").Logger(),
	}
}

// GenerateMetadata runs the full pipeline for one file. Extraction failure
// degrades the record instead of erroring; only an unreadable or unsupported
// file is an error.
func (p *Pipeline) GenerateMetadata(ctx context.Context, path string) (*schema.Record, error) {
	return p.generate(ctx, path, true)
}

// GenerateBasicMetadata produces basic info and text statistics only. It
// never touches a capability-backed method and is safe with no models
// loaded.
func (p *Pipeline) GenerateBasicMetadata(ctx context.Context, path string) (*schema.Record, error) {
	return p.generate(ctx, path, false)
}

func (p *Pipeline) generate(ctx context.Context, path string, analyze bool) (*schema.Record, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if p.cfg.DocumentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.DocumentTimeout)
		defer cancel()
	}

	ext, err := p.dispatcher.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}

	var stats textproc.Stats
	var results *analysis.Results
	if ext.Success {
		text := textproc.Normalize(ext.Text)
		stats = textproc.ComputeStats(text)
		if analyze {
			results = p.orchestrator.Run(ctx, text)
		}
	}

	score := p.scorer.Score(ext, results)
	rec := p.assembler.Assemble(schema.AssembleInput{
		Document:   doc,
		Extraction: ext,
		Stats:      stats,
		Analysis:   results,
		Score:      score,
		AnalysisID: uuid.NewString(),
		Duration:   time.Since(start),
	})

	p.logger.Info().
		Str("file", doc.Name).
		Str("method", ext.Method).
		Float64("confidence", score.Overall).
		Dur("elapsed", time.Since(start)).
		Msg("document processed")
	return rec, nil
}

// ProcessDirectory runs the full pipeline over every supported file in dir,
// in lexicographic filename order, with a bounded worker pool. Every file
// yields a record: documents that fail mid-pipeline produce a failure record
// rather than dropping out or stopping the batch.
func (p *Pipeline) ProcessDirectory(ctx context.Context, dir string) ([]*schema.Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !document.IsSupported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	records := make([]*schema.Record, len(paths))
	sem := make(chan struct{}, p.cfg.Workers)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			records[i] = p.processOne(ctx, path)
		}(i, path)
	}
	wg.Wait()

	return records, nil
}

// processOne never lets a single document break the batch: open failures and
// panics collapse into a failure record for that file.
func (p *Pipeline) processOne(ctx context.Context, path string) (rec *schema.Record) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Str("file", filepath.Base(path)).
				Interface("panic", r).
				Msg("document processing panicked")
			rec = p.failureRecord(path)
		}
	}()

	rec, err := p.GenerateMetadata(ctx, path)
	if err != nil {
		p.logger.Warn().Str("file", filepath.Base(path)).Err(err).Msg("document failed")
		return p.failureRecord(path)
	}
	return rec
}

// failureRecord builds the degraded record for a file that could not be
// processed at all.
func (p *Pipeline) failureRecord(path string) *schema.Record {
	input := schema.AssembleInput{
		Extraction: extract.Failed(),
		Score:      p.scorer.Score(extract.Failed(), nil),
		AnalysisID: uuid.NewString(),
	}
	if doc, err := document.Open(path); err == nil {
		input.Document = doc
	}
	rec := p.assembler.Assemble(input)
	if rec.BasicInfo.Filename == "" {
		rec.BasicInfo.Filename = filepath.Base(path)
	}
	return rec
}
