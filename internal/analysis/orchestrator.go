package analysis

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/doculens/doculens/internal/capability"
	"github.com/doculens/doculens/internal/textproc"
)

// Results carries one outcome per task plus the detected language. Tasks
// never read each other's results; the zero Outcome marks a failed task.
type Results struct {
	Classification Outcome[string]
	Entities       Outcome[EntitySet]
	Summary        Outcome[string]
	Topics         Outcome[Topics]
	Sentiment      Outcome[capability.Sentiment]
	Readability    Outcome[float64]
	Language       string
}

// Config tunes the rule-based task parameters.
type Config struct {
	SummaryMaxChars int
	TopicCount      int
}

// Orchestrator runs the six analysis tasks over preprocessed text.
// Capability-backed methods go through the shared registry; every task also
// has a deterministic tier, so the orchestrator works with an empty registry.
type Orchestrator struct {
	cfg    Config
	caps   *capability.Registry
	logger zerolog.Logger
}

// NewOrchestrator wires the registry in. A nil registry behaves like an
// empty one: every capability call reports unavailable.
func NewOrchestrator(cfg Config, caps *capability.Registry, logger zerolog.Logger) *Orchestrator {
	if cfg.SummaryMaxChars <= 0 {
		cfg.SummaryMaxChars = DefaultSummaryMaxChars
	}
	if cfg.TopicCount <= 0 {
		cfg.TopicCount = DefaultTopicCount
	}
	return &Orchestrator{
		cfg:    cfg,
		caps:   caps,
		logger: logger.With().Str("component", "analysis").Logger(),
	}
}

// Run executes all tasks concurrently and waits for every one. A panic or
// failure in one task leaves that task's zero outcome and touches nothing
// else. Context cancellation stops methods between chain steps; tasks that
// already produced a value keep it.
func (o *Orchestrator) Run(ctx context.Context, text string) *Results {
	in := NewInput(text)
	results := &Results{Language: textproc.DetectLanguage(text)}

	var wg sync.WaitGroup
	launch := func(task string, run func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error().
						Str("task", task).
						Interface("panic", r).
						Msg("task panicked")
				}
			}()
			run()
		}()
	}

	launch("classification", func() { results.Classification = o.classify(ctx, in) })
	launch("entities", func() { results.Entities = o.entities(ctx, in) })
	launch("summary", func() { results.Summary = o.summary(ctx, in) })
	launch("topics", func() { results.Topics = o.topics(ctx, in) })
	launch("sentiment", func() { results.Sentiment = o.sentiment(ctx, in) })
	launch("readability", func() { results.Readability = o.readability(ctx, in) })
	wg.Wait()

	return results
}
