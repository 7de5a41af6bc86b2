package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/doculens/doculens/internal/document"
	"github.com/doculens/doculens/internal/schema"
)

func sampleRecord() *schema.Record {
	rec := schema.NewRecord()
	rec.BasicInfo.Filename = "report.pdf"
	rec.BasicInfo.FileType = "pdf"
	rec.BasicInfo.FileSize = 1024
	rec.ContentAnalysis.DocumentType = "Report"
	rec.ContentAnalysis.WordCount = 250
	rec.SemanticData.Summary = "A summary."
	rec.SemanticData.KeyTopics = []string{"power", "solar"}
	rec.SemanticData.Entities["ORG"] = []string{"MIT"}
	rec.TechnicalMetadata.ExtractionMethod = "direct-parse"
	rec.TechnicalMetadata.ConfidenceScore = 0.81
	return rec
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := Save([]*schema.Record{sampleRecord(), schema.NewRecord()}, path, FormatJSON); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var parsed []schema.Record
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(parsed) != 2 {
		t.Errorf("expected 2 records, got %d", len(parsed))
	}
	if parsed[0].BasicInfo.Filename != "report.pdf" {
		t.Errorf("filename = %q", parsed[0].BasicInfo.Filename)
	}
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := Save([]*schema.Record{sampleRecord()}, path, FormatCSV); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if len(rows[0]) != len(rows[1]) {
		t.Errorf("header has %d columns, row has %d", len(rows[0]), len(rows[1]))
	}

	byName := make(map[string]string, len(rows[0]))
	for i, col := range rows[0] {
		byName[col] = rows[1][i]
	}
	if byName["filename"] != "report.pdf" {
		t.Errorf("filename column = %q", byName["filename"])
	}
	if byName["key_topics"] != "power;solar" {
		t.Errorf("key_topics column = %q", byName["key_topics"])
	}
	if byName["entities"] != "ORG:MIT" {
		t.Errorf("entities column = %q", byName["entities"])
	}
}

func TestSaveUnknownFormat(t *testing.T) {
	err := Save(nil, filepath.Join(t.TempDir(), "out.xml"), "xml")
	if !errors.Is(err, document.ErrExport) {
		t.Errorf("expected ErrExport, got %v", err)
	}
}

func TestSaveUnwritablePath(t *testing.T) {
	err := SaveRecord(schema.NewRecord(), filepath.Join(t.TempDir(), "missing", "out.json"), FormatJSON)
	if !errors.Is(err, document.ErrExport) {
		t.Errorf("expected ErrExport, got %v", err)
	}
}
