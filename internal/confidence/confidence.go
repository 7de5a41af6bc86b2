// Package confidence folds the extraction confidence and per-task outcomes
// into one overall score plus per-section quality flags.
package confidence

import (
	"github.com/doculens/doculens/internal/analysis"
	"github.com/doculens/doculens/internal/extract"
)

// Quality flags summarizing how a record section was produced.
const (
	FlagFull        = "full"
	FlagDegraded    = "degraded"
	FlagUnavailable = "unavailable"
)

// Record section names.
const (
	SectionBasicInfo = "basic_info"
	SectionContent   = "content_analysis"
	SectionSemantic  = "semantic_data"
	SectionTechnical = "technical_metadata"
)

// Weights controls the overall score blend. ExtractionShare is the fraction
// of the overall score owed to extraction; task weights split the remainder
// and must sum to 1.
type Weights struct {
	ExtractionShare float64

	Classification float64
	Entities       float64
	Summary        float64
	Readability    float64
	Topics         float64
	Sentiment      float64
}

// DefaultWeights favor classification and entity recognition over the softer
// tasks.
func DefaultWeights() Weights {
	return Weights{
		ExtractionShare: 0.4,
		Classification:  0.25,
		Entities:        0.25,
		Summary:         0.15,
		Readability:     0.15,
		Topics:          0.10,
		Sentiment:       0.10,
	}
}

// Score is the aggregated confidence for one record.
type Score struct {
	Overall  float64           `json:"overall"`
	Sections map[string]string `json:"sections"`
}

// Scorer computes scores with a fixed weight set.
type Scorer struct {
	weights Weights
}

// NewScorer returns a scorer using the given weights; zero-value weights
// fall back to the defaults.
func NewScorer(w Weights) *Scorer {
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	return &Scorer{weights: w}
}

// Score aggregates one document's results. Total extraction failure pins the
// overall score to exactly 0 with every analysis-backed section unavailable.
// A nil results pointer means the orchestrator never ran (the basic path).
func (s *Scorer) Score(ext *extract.Result, results *analysis.Results) Score {
	if ext == nil || !ext.Success {
		return Score{
			Overall: 0,
			Sections: map[string]string{
				SectionBasicInfo: FlagFull,
				SectionContent:   FlagUnavailable,
				SectionSemantic:  FlagUnavailable,
				SectionTechnical: FlagFull,
			},
		}
	}

	if results == nil {
		return Score{
			Overall: clamp01(s.weights.ExtractionShare * ext.Confidence),
			Sections: map[string]string{
				SectionBasicInfo: FlagFull,
				SectionContent:   FlagDegraded,
				SectionSemantic:  FlagUnavailable,
				SectionTechnical: FlagFull,
			},
		}
	}

	taskScore := s.weights.Classification*taskConfidence(results.Classification) +
		s.weights.Entities*taskConfidence(results.Entities) +
		s.weights.Summary*taskConfidence(results.Summary) +
		s.weights.Readability*taskConfidence(results.Readability) +
		s.weights.Topics*taskConfidence(results.Topics) +
		s.weights.Sentiment*taskConfidence(results.Sentiment)

	overall := s.weights.ExtractionShare*ext.Confidence +
		(1-s.weights.ExtractionShare)*taskScore

	return Score{
		Overall: clamp01(overall),
		Sections: map[string]string{
			SectionBasicInfo: FlagFull,
			SectionContent: sectionFlag(
				taskStatus(results.Classification),
				taskStatus(results.Readability),
			),
			SectionSemantic: sectionFlag(
				taskStatus(results.Entities),
				taskStatus(results.Summary),
				taskStatus(results.Topics),
				taskStatus(results.Sentiment),
			),
			SectionTechnical: FlagFull,
		},
	}
}

type status int

const (
	statusFailed status = iota
	statusFallback
	statusPrimary
)

func taskStatus[T any](o analysis.Outcome[T]) status {
	switch {
	case !o.Success:
		return statusFailed
	case o.Primary:
		return statusPrimary
	default:
		return statusFallback
	}
}

func taskConfidence[T any](o analysis.Outcome[T]) float64 {
	if !o.Success {
		return 0
	}
	return o.Confidence
}

// sectionFlag is full when every contributing task succeeded on its primary
// method, unavailable when all failed, degraded otherwise.
func sectionFlag(statuses ...status) string {
	allPrimary := true
	allFailed := true
	for _, st := range statuses {
		if st != statusPrimary {
			allPrimary = false
		}
		if st != statusFailed {
			allFailed = false
		}
	}
	switch {
	case allFailed:
		return FlagUnavailable
	case allPrimary:
		return FlagFull
	default:
		return FlagDegraded
	}
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
