package analysis

import (
	"context"
	"strings"
)

// DefaultCategory is assigned when no category scores above zero.
const DefaultCategory = "General"

// categoryRule scores one document category by weighted keyword hits.
// Keyword occurrences anywhere in the text earn the base weight; a hit inside
// the opening of the document earns the lead weight on top, since titles and
// first sentences carry the strongest type signal.
type categoryRule struct {
	name     string
	keywords []string
}

const (
	keywordWeight = 0.1
	leadWeight    = 0.15
	leadWindow    = 200
)

// categoryRules is ordered by priority: ties between equal scores resolve to
// the earlier entry.
var categoryRules = []categoryRule{
	{
		name: "Legal",
		keywords: []string{
			"agreement", "contract", "whereas", "hereinafter", "party",
			"parties", "clause", "liability", "jurisdiction", "pursuant",
			"terms", "obligations",
		},
	},
	{
		name: "Report",
		keywords: []string{
			"report", "analysis", "findings", "results", "conclusion",
			"executive summary", "overview", "quarterly", "annual",
			"metrics",
		},
	},
	{
		name: "Manual",
		keywords: []string{
			"manual", "instructions", "guide", "installation", "configure",
			"troubleshooting", "step", "procedure", "warning", "caution",
		},
	},
	{
		name: "Proposal",
		keywords: []string{
			"proposal", "proposed", "budget", "timeline", "deliverables",
			"objectives", "scope", "milestones", "estimate",
		},
	},
	{
		name: "Academic",
		keywords: []string{
			"abstract", "hypothesis", "methodology", "literature",
			"research", "study", "experiment", "citation", "references",
			"university",
		},
	},
}

// classifyRule is the classification task's only method. It always succeeds:
// with no keyword hits it reports the default category at zero confidence.
func classifyRule(_ context.Context, in Input) (string, float64, error) {
	lower := strings.ToLower(in.Text)
	lead := lower
	if len(lead) > leadWindow {
		lead = lead[:leadWindow]
	}

	var top, second float64
	best := DefaultCategory
	for _, rule := range categoryRules {
		score := 0.0
		for _, kw := range rule.keywords {
			hits := strings.Count(lower, kw)
			if hits == 0 {
				continue
			}
			score += float64(hits) * keywordWeight
			if strings.Contains(lead, kw) {
				score += leadWeight
			}
		}

		// Strictly-greater keeps slice order as the tie-break.
		if score > top {
			second = top
			top = score
			best = rule.name
		} else if score > second {
			second = score
		}
	}

	if top == 0 {
		return DefaultCategory, 0, nil
	}
	return best, clamp01((top - second) / top), nil
}

func (o *Orchestrator) classify(ctx context.Context, in Input) Outcome[string] {
	return runChain(ctx, in, "classification", []step[string]{
		{method: MethodRuleBased, run: classifyRule},
	}, o.logger)
}
