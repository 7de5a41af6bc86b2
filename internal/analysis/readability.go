package analysis

import (
	"context"
	"fmt"
)

const readabilityConfidence = 0.9

// readabilityFormula computes the Flesch reading ease score from the
// preprocessor statistics. Higher is easier; the raw value is clamped to
// [0,100] so extreme inputs stay in range.
func readabilityFormula(_ context.Context, in Input) (float64, float64, error) {
	if in.Stats.WordCount == 0 || in.Stats.SentenceCount == 0 {
		return 0, 0, fmt.Errorf("not enough text to score readability")
	}

	wordsPerSentence := float64(in.Stats.WordCount) / float64(in.Stats.SentenceCount)
	syllablesPerWord := float64(in.Stats.SyllableCount) / float64(in.Stats.WordCount)

	score := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, readabilityConfidence, nil
}

func (o *Orchestrator) readability(ctx context.Context, in Input) Outcome[float64] {
	return runChain(ctx, in, "readability", []step[float64]{
		{method: MethodFormula, run: readabilityFormula},
	}, o.logger)
}
