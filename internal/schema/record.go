// Package schema defines the fixed-shape metadata record and the assembler
// that merges pipeline results into it. The record's shape never varies:
// every field is present with a typed default no matter which upstream
// stages failed.
package schema

import (
	"github.com/doculens/doculens/internal/analysis"
)

// Defaults for fields whose contributing stage failed.
const (
	UnknownValue   = "unknown"
	DefaultSummary = "No text content extracted"
)

// Record is the four-section metadata record.
type Record struct {
	BasicInfo         BasicInfo         `json:"basic_info"`
	ContentAnalysis   ContentAnalysis   `json:"content_analysis"`
	SemanticData      SemanticData      `json:"semantic_data"`
	TechnicalMetadata TechnicalMetadata `json:"technical_metadata"`
}

// BasicInfo describes the input file. Populated for every record, including
// total extraction failures.
type BasicInfo struct {
	Filename       string `json:"filename"`
	FileType       string `json:"file_type"`
	FileSize       int64  `json:"file_size"`
	ProcessingDate string `json:"processing_date"`
}

// ContentAnalysis carries the statistics and classification results.
type ContentAnalysis struct {
	DocumentType     string  `json:"document_type"`
	WordCount        int     `json:"word_count"`
	CharacterCount   int     `json:"character_count"`
	ReadabilityScore float64 `json:"readability_score"`
	Language         string  `json:"language"`
}

// SemanticData carries the capability-or-fallback task outputs.
type SemanticData struct {
	Summary    string              `json:"summary"`
	KeyTopics  []string            `json:"key_topics"`
	Entities   map[string][]string `json:"entities"`
	KeyPhrases []string            `json:"key_phrases"`
}

// TechnicalMetadata records processing lineage: what ran, how long it took,
// and how much to trust the result.
type TechnicalMetadata struct {
	ExtractionMethod string            `json:"extraction_method"`
	ProcessingTimeMS int64             `json:"processing_time_ms"`
	ConfidenceScore  float64           `json:"confidence_score"`
	AnalysisID       string            `json:"analysis_id"`
	SectionQuality   map[string]string `json:"section_quality"`
	TaskMethods      map[string]string `json:"task_methods"`
}

// NewRecord returns a record with every field at its default. Slices and
// maps are allocated so JSON output never contains null.
func NewRecord() *Record {
	entities := make(map[string][]string, len(analysis.EntityTypes))
	for _, t := range analysis.EntityTypes {
		entities[t] = []string{}
	}
	return &Record{
		ContentAnalysis: ContentAnalysis{
			DocumentType: UnknownValue,
			Language:     UnknownValue,
		},
		SemanticData: SemanticData{
			KeyTopics:  []string{},
			Entities:   entities,
			KeyPhrases: []string{},
		},
		TechnicalMetadata: TechnicalMetadata{
			ExtractionMethod: UnknownValue,
			SectionQuality:   map[string]string{},
			TaskMethods:      map[string]string{},
		},
	}
}
