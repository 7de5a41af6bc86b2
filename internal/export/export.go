// Package export serializes finished metadata records to disk. It consumes
// records as opaque structures; an export failure is the only pipeline error
// surfaced to the caller as an error value.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/doculens/doculens/internal/analysis"
	"github.com/doculens/doculens/internal/document"
	"github.com/doculens/doculens/internal/schema"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Save writes records to path in the named format. JSON output is an
// indented array; CSV output is one flattened row per record under a stable
// header. Unknown formats and I/O failures wrap document.ErrExport.
func Save(records []*schema.Record, path, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return saveJSON(records, path)
	case FormatCSV:
		return saveCSV(records, path)
	default:
		return fmt.Errorf("%w: unknown format %q", document.ErrExport, format)
	}
}

// SaveRecord writes a single record.
func SaveRecord(rec *schema.Record, path, format string) error {
	return Save([]*schema.Record{rec}, path, format)
}

func saveJSON(records []*schema.Record, path string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", document.ErrExport, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", document.ErrExport, path, err)
	}
	return nil
}

// csvHeader is the stable column order for tabular export.
var csvHeader = []string{
	"filename", "file_type", "file_size", "processing_date",
	"document_type", "word_count", "character_count", "readability_score", "language",
	"summary", "key_topics", "entities", "key_phrases",
	"extraction_method", "processing_time_ms", "confidence_score", "analysis_id",
}

func saveCSV(records []*schema.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", document.ErrExport, path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("%w: write header: %v", document.ErrExport, err)
	}
	for _, rec := range records {
		if err := w.Write(csvRow(rec)); err != nil {
			return fmt.Errorf("%w: write row: %v", document.ErrExport, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush: %v", document.ErrExport, err)
	}
	return nil
}

func csvRow(rec *schema.Record) []string {
	return []string{
		rec.BasicInfo.Filename,
		rec.BasicInfo.FileType,
		strconv.FormatInt(rec.BasicInfo.FileSize, 10),
		rec.BasicInfo.ProcessingDate,
		rec.ContentAnalysis.DocumentType,
		strconv.Itoa(rec.ContentAnalysis.WordCount),
		strconv.Itoa(rec.ContentAnalysis.CharacterCount),
		strconv.FormatFloat(rec.ContentAnalysis.ReadabilityScore, 'f', 2, 64),
		rec.ContentAnalysis.Language,
		rec.SemanticData.Summary,
		strings.Join(rec.SemanticData.KeyTopics, ";"),
		flattenEntities(rec.SemanticData.Entities),
		strings.Join(rec.SemanticData.KeyPhrases, ";"),
		rec.TechnicalMetadata.ExtractionMethod,
		strconv.FormatInt(rec.TechnicalMetadata.ProcessingTimeMS, 10),
		strconv.FormatFloat(rec.TechnicalMetadata.ConfidenceScore, 'f', 3, 64),
		rec.TechnicalMetadata.AnalysisID,
	}
}

// flattenEntities renders buckets as "TYPE:value" pairs in the fixed type
// order so rows stay comparable across runs.
func flattenEntities(entities map[string][]string) string {
	var parts []string
	for _, et := range analysis.EntityTypes {
		for _, value := range entities[et] {
			parts = append(parts, et+":"+value)
		}
	}
	return strings.Join(parts, ";")
}
