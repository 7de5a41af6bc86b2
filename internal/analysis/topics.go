package analysis

import (
	"context"
	"sort"
	"strings"

	"github.com/doculens/doculens/internal/textproc"
)

// DefaultTopicCount is how many key topics and key phrases a record carries.
const DefaultTopicCount = 5

const topicConfidenceCeiling = 0.7

// Topics holds the frequency-derived key terms and adjacent-pair phrases.
type Topics struct {
	Keywords []string `json:"keywords"`
	Phrases  []string `json:"phrases"`
}

// topicsRule ranks content words by frequency and pairs of adjacent content
// words by co-occurrence. Purely rule-based; the task has no capability tier.
func (o *Orchestrator) topicsRule(_ context.Context, in Input) (Topics, float64, error) {
	limit := o.cfg.TopicCount
	if limit <= 0 {
		limit = DefaultTopicCount
	}

	freq := make(map[string]int)
	firstSeen := make(map[string]int)
	qualified := make([]string, len(in.Tokens))
	for i, tok := range in.Tokens {
		lower := strings.ToLower(tok)
		if len(lower) <= 3 || textproc.IsStopWord(lower) {
			qualified[i] = ""
			continue
		}
		qualified[i] = lower
		if _, seen := firstSeen[lower]; !seen {
			firstSeen[lower] = i
		}
		freq[lower]++
	}

	keywords := rankByCount(freq, firstSeen, limit, 1)

	pairFreq := make(map[string]int)
	pairSeen := make(map[string]int)
	for i := 0; i+1 < len(qualified); i++ {
		if qualified[i] == "" || qualified[i+1] == "" {
			continue
		}
		phrase := qualified[i] + " " + qualified[i+1]
		if _, seen := pairSeen[phrase]; !seen {
			pairSeen[phrase] = i
		}
		pairFreq[phrase]++
	}
	// A phrase must repeat to count as a phrase.
	phrases := rankByCount(pairFreq, pairSeen, limit, 2)

	topics := Topics{Keywords: keywords, Phrases: phrases}
	conf := topicConfidenceCeiling * float64(len(keywords)) / float64(limit)
	return topics, conf, nil
}

func (o *Orchestrator) topics(ctx context.Context, in Input) Outcome[Topics] {
	return runChain(ctx, in, "topics", []step[Topics]{
		{method: MethodRuleBased, run: o.topicsRule},
	}, o.logger)
}

// rankByCount returns up to limit keys with count >= minCount, ordered by
// descending count and then by first appearance in the text.
func rankByCount(counts map[string]int, firstSeen map[string]int, limit, minCount int) []string {
	keys := make([]string, 0, len(counts))
	for k, c := range counts {
		if c >= minCount {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return firstSeen[keys[i]] < firstSeen[keys[j]]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
