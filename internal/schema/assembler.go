package schema

import (
	"time"

	"github.com/doculens/doculens/internal/analysis"
	"github.com/doculens/doculens/internal/confidence"
	"github.com/doculens/doculens/internal/document"
	"github.com/doculens/doculens/internal/extract"
	"github.com/doculens/doculens/internal/textproc"
)

// AssembleInput is everything one document's pipeline run produced. Analysis
// is nil when the orchestrator never ran (basic path or extraction failure).
type AssembleInput struct {
	Document   *document.Document
	Extraction *extract.Result
	Stats      textproc.Stats
	Analysis   *analysis.Results
	Score      confidence.Score
	AnalysisID string
	Duration   time.Duration
}

// Assembler merges pipeline results into records. Stateless; safe for
// concurrent use.
type Assembler struct{}

// NewAssembler returns an assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble merges the input into a record. The merge is deterministic and
// total: failed stages leave their fields at the defaults set by NewRecord.
func (a *Assembler) Assemble(in AssembleInput) *Record {
	rec := NewRecord()

	if in.Document != nil {
		rec.BasicInfo = BasicInfo{
			Filename:       in.Document.Name,
			FileType:       string(in.Document.Format),
			FileSize:       in.Document.Size,
			ProcessingDate: in.Document.ReadAt.UTC().Format(time.RFC3339),
		}
	}

	rec.ContentAnalysis.WordCount = in.Stats.WordCount
	rec.ContentAnalysis.CharacterCount = in.Stats.CharacterCount

	ext := in.Extraction
	if ext == nil {
		ext = extract.Failed()
	}
	rec.TechnicalMetadata.ExtractionMethod = ext.Method
	rec.TechnicalMetadata.ProcessingTimeMS = in.Duration.Milliseconds()
	rec.TechnicalMetadata.ConfidenceScore = in.Score.Overall
	rec.TechnicalMetadata.AnalysisID = in.AnalysisID
	if in.Score.Sections != nil {
		rec.TechnicalMetadata.SectionQuality = in.Score.Sections
	}

	if !ext.Success {
		rec.SemanticData.Summary = DefaultSummary
		return rec
	}
	if in.Analysis == nil {
		return rec
	}

	res := in.Analysis
	if res.Language != "" {
		rec.ContentAnalysis.Language = res.Language
	}
	if res.Classification.Success {
		rec.ContentAnalysis.DocumentType = res.Classification.Value
	}
	if res.Readability.Success {
		rec.ContentAnalysis.ReadabilityScore = res.Readability.Value
	}

	if res.Summary.Success {
		rec.SemanticData.Summary = res.Summary.Value
	}
	if res.Topics.Success {
		if res.Topics.Value.Keywords != nil {
			rec.SemanticData.KeyTopics = res.Topics.Value.Keywords
		}
		if res.Topics.Value.Phrases != nil {
			rec.SemanticData.KeyPhrases = res.Topics.Value.Phrases
		}
	}
	if res.Entities.Success && res.Entities.Value != nil {
		rec.SemanticData.Entities = res.Entities.Value
	}

	rec.TechnicalMetadata.TaskMethods = map[string]string{
		"classification": taskMethod(res.Classification),
		"entities":       taskMethod(res.Entities),
		"summary":        taskMethod(res.Summary),
		"topics":         taskMethod(res.Topics),
		"sentiment":      taskMethod(res.Sentiment),
		"readability":    taskMethod(res.Readability),
	}

	return rec
}

func taskMethod[T any](o analysis.Outcome[T]) string {
	if !o.Success {
		return extract.MethodFailed
	}
	return o.Method
}
