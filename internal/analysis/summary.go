package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/doculens/doculens/internal/textproc"
)

// DefaultSummaryMaxChars is the character budget for generated summaries.
const DefaultSummaryMaxChars = 200

const (
	extractiveSentences  = 2
	extractiveConfidence = 0.6
	truncationConfidence = 0.3
)

// summaryML delegates to the registered summarizer.
func (o *Orchestrator) summaryML(ctx context.Context, in Input) (string, float64, error) {
	summary, conf, err := o.caps.Summarize(ctx, in.Text, o.cfg.SummaryMaxChars)
	if err != nil {
		return "", 0, err
	}
	if strings.TrimSpace(summary) == "" {
		return "", 0, fmt.Errorf("summarizer returned empty summary")
	}
	return summary, conf, nil
}

// summaryExtractive scores each sentence by the document-level frequency of
// its content words and keeps the top sentences in their original order.
func (o *Orchestrator) summaryExtractive(_ context.Context, in Input) (string, float64, error) {
	if len(in.Sentences) == 0 {
		return "", 0, fmt.Errorf("no sentences to extract from")
	}

	freq := contentWordFrequencies(in.Tokens)

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, 0, len(in.Sentences))
	for i, sentence := range in.Sentences {
		tokens := textproc.Tokens(sentence)
		if len(tokens) == 0 {
			continue
		}
		total := 0.0
		for _, tok := range tokens {
			total += float64(freq[strings.ToLower(tok)])
		}
		ranked = append(ranked, scored{index: i, score: total / float64(len(tokens))})
	}
	if len(ranked) == 0 {
		return "", 0, fmt.Errorf("no scoreable sentences")
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	keep := ranked
	if len(keep) > extractiveSentences {
		keep = keep[:extractiveSentences]
	}
	sort.Slice(keep, func(i, j int) bool { return keep[i].index < keep[j].index })

	parts := make([]string, len(keep))
	for i, s := range keep {
		parts[i] = in.Sentences[s.index]
	}
	return truncateAtWord(strings.Join(parts, " "), o.cfg.SummaryMaxChars), extractiveConfidence, nil
}

// summaryTruncate is the last resort: leading text cut at the budget.
func (o *Orchestrator) summaryTruncate(_ context.Context, in Input) (string, float64, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return "", 0, fmt.Errorf("no text to truncate")
	}
	return truncateAtWord(text, o.cfg.SummaryMaxChars), truncationConfidence, nil
}

func (o *Orchestrator) summary(ctx context.Context, in Input) Outcome[string] {
	return runChain(ctx, in, "summary", []step[string]{
		{method: MethodML, run: o.summaryML},
		{method: MethodExtractive, run: o.summaryExtractive},
		{method: MethodTruncation, run: o.summaryTruncate},
	}, o.logger)
}

// contentWordFrequencies counts lowercased tokens longer than three
// characters that are not stop words.
func contentWordFrequencies(tokens []string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if len(lower) <= 3 || textproc.IsStopWord(lower) {
			continue
		}
		freq[lower]++
	}
	return freq
}

// truncateAtWord cuts text to at most maxChars runes, backing up to the last
// word boundary and appending an ellipsis when a cut happened.
func truncateAtWord(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultSummaryMaxChars
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	cut := string(runes[:maxChars])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " .,;:") + "..."
}
