// Package analysis runs the per-document analysis tasks. Each task is an
// ordered chain of methods; the first method that succeeds supplies the
// task's value, and the chain position is recorded so the scorer can tell
// primary results from fallbacks.
package analysis

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/doculens/doculens/internal/textproc"
)

// Method identifiers recorded on task outcomes.
const (
	MethodML         = "ml"
	MethodRuleBased  = "rule-based"
	MethodExtractive = "extractive"
	MethodTruncation = "truncation"
	MethodFormula    = "formula"
)

// Input is the shared, read-only view of one document's preprocessed text.
// Built once per document and handed to every task.
type Input struct {
	Text      string
	Stats     textproc.Stats
	Sentences []string
	Tokens    []string
}

// NewInput preprocesses normalized text into the task input.
func NewInput(text string) Input {
	return Input{
		Text:      text,
		Stats:     textproc.ComputeStats(text),
		Sentences: textproc.Sentences(text),
		Tokens:    textproc.Tokens(text),
	}
}

// Outcome is the result of one task. The zero value means the whole chain
// failed: Success false, empty method, confidence 0.
type Outcome[T any] struct {
	Value      T       `json:"value"`
	Method     string  `json:"method"`
	Success    bool    `json:"success"`
	Primary    bool    `json:"primary"`
	Confidence float64 `json:"confidence"`
}

// step is one method in a task's fallback chain. run returns the value and a
// confidence in [0,1], or an error to move the chain along.
type step[T any] struct {
	method string
	run    func(ctx context.Context, in Input) (T, float64, error)
}

// runChain tries each step in order and returns the first success. Step zero
// is the task's primary method; landing on any later step marks the outcome
// as a fallback.
func runChain[T any](ctx context.Context, in Input, task string, steps []step[T], logger zerolog.Logger) Outcome[T] {
	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			logger.Debug().Str("task", task).Msg("task canceled")
			break
		}

		value, conf, err := s.run(ctx, in)
		if err != nil {
			logger.Debug().
				Str("task", task).
				Str("method", s.method).
				Err(err).
				Msg("task method failed")
			continue
		}

		return Outcome[T]{
			Value:      value,
			Method:     s.method,
			Success:    true,
			Primary:    i == 0,
			Confidence: clamp01(conf),
		}
	}
	return Outcome[T]{}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
