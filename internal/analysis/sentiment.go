package analysis

import (
	"context"
	"strings"

	"github.com/doculens/doculens/internal/capability"
)

const (
	sentimentThreshold         = 0.1
	sentimentLexiconConfidence = 0.5
	sentimentNeutralConfidence = 0.3
)

var positiveWords = map[string]bool{
	"good": true, "great": true, "excellent": true, "positive": true,
	"success": true, "successful": true, "improve": true, "improved": true,
	"improvement": true, "benefit": true, "beneficial": true, "gain": true,
	"growth": true, "effective": true, "efficient": true, "strong": true,
	"best": true, "better": true, "achieve": true, "achieved": true,
	"win": true, "advantage": true, "innovative": true, "reliable": true,
}

var negativeWords = map[string]bool{
	"bad": true, "poor": true, "negative": true, "fail": true,
	"failed": true, "failure": true, "loss": true, "decline": true,
	"problem": true, "problems": true, "issue": true, "issues": true,
	"risk": true, "weak": true, "worst": true, "worse": true,
	"damage": true, "error": true, "errors": true, "defect": true,
	"concern": true, "concerns": true, "critical": true, "severe": true,
}

// sentimentML delegates to the registered classifier.
func (o *Orchestrator) sentimentML(ctx context.Context, in Input) (capability.Sentiment, float64, error) {
	result, conf, err := o.caps.ClassifySentiment(ctx, in.Text)
	if err != nil {
		return capability.Sentiment{}, 0, err
	}
	return result, conf, nil
}

// sentimentLexicon counts polarity words. Score is the signed fraction of
// polarity hits; labels flip at +-0.1. Documents with no polarity words are
// neutral at reduced confidence.
func sentimentLexicon(_ context.Context, in Input) (capability.Sentiment, float64, error) {
	pos, neg := 0, 0
	for _, tok := range in.Tokens {
		lower := strings.ToLower(tok)
		switch {
		case positiveWords[lower]:
			pos++
		case negativeWords[lower]:
			neg++
		}
	}

	if pos+neg == 0 {
		return capability.Sentiment{Label: "neutral", Score: 0}, sentimentNeutralConfidence, nil
	}

	score := float64(pos-neg) / float64(pos+neg)
	label := "neutral"
	switch {
	case score > sentimentThreshold:
		label = "positive"
	case score < -sentimentThreshold:
		label = "negative"
	}
	return capability.Sentiment{Label: label, Score: score}, sentimentLexiconConfidence, nil
}

func (o *Orchestrator) sentiment(ctx context.Context, in Input) Outcome[capability.Sentiment] {
	return runChain(ctx, in, "sentiment", []step[capability.Sentiment]{
		{method: MethodML, run: o.sentimentML},
		{method: MethodRuleBased, run: sentimentLexicon},
	}, o.logger)
}
