package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/doculens/doculens/internal/capability"
	"github.com/doculens/doculens/internal/document"
	"github.com/doculens/doculens/internal/extract"
)

const sampleText = "Hello world. This is a test document about AI research by Dr. Smith at MIT in 2024."

func newTestPipeline() *Pipeline {
	return New(DefaultConfig(), capability.NewRegistry(), zerolog.Nop())
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func TestGenerateMetadataEndToEnd(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sample.txt", []byte(sampleText))

	rec, err := newTestPipeline().GenerateMetadata(context.Background(), path)
	if err != nil {
		t.Fatalf("GenerateMetadata failed: %v", err)
	}

	if rec.BasicInfo.Filename != "sample.txt" || rec.BasicInfo.FileType != "txt" {
		t.Errorf("basic_info = %+v", rec.BasicInfo)
	}
	if wc := rec.ContentAnalysis.WordCount; wc < 15 || wc > 18 {
		t.Errorf("word_count = %d, want ~16", wc)
	}
	if !contains(rec.SemanticData.Entities["PERSON"], "Dr. Smith") {
		t.Errorf("PERSON = %v", rec.SemanticData.Entities["PERSON"])
	}
	if !contains(rec.SemanticData.Entities["ORG"], "MIT") {
		t.Errorf("ORG = %v", rec.SemanticData.Entities["ORG"])
	}
	if !contains(rec.SemanticData.Entities["DATE"], "2024") {
		t.Errorf("DATE = %v", rec.SemanticData.Entities["DATE"])
	}
	if rec.SemanticData.Summary == "" {
		t.Error("summary must be non-empty")
	}
	if c := rec.TechnicalMetadata.ConfidenceScore; c <= 0 || c > 1 {
		t.Errorf("confidence_score = %f", c)
	}
	if rec.TechnicalMetadata.ExtractionMethod != extract.MethodPlainRead {
		t.Errorf("extraction_method = %q", rec.TechnicalMetadata.ExtractionMethod)
	}
	if rec.TechnicalMetadata.AnalysisID == "" {
		t.Error("analysis_id must be set")
	}
	if rec.ContentAnalysis.Language != "en" {
		t.Errorf("language = %q", rec.ContentAnalysis.Language)
	}
}

func TestGenerateMetadataDeterministicClassification(t *testing.T) {
	path := writeFile(t, t.TempDir(), "contract.txt",
		[]byte("This agreement binds the parties to the contract terms, obligations and liability clauses herein."))
	p := newTestPipeline()

	first, err := p.GenerateMetadata(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		rec, err := p.GenerateMetadata(context.Background(), path)
		if err != nil {
			t.Fatal(err)
		}
		if rec.ContentAnalysis.DocumentType != first.ContentAnalysis.DocumentType {
			t.Fatalf("classification changed between runs: %q vs %q",
				rec.ContentAnalysis.DocumentType, first.ContentAnalysis.DocumentType)
		}
	}
}

func TestGenerateBasicMetadataMatchesFullBasicInfo(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sample.txt", []byte(sampleText))
	p := newTestPipeline()

	full, err := p.GenerateMetadata(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	basic, err := p.GenerateBasicMetadata(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	if basic.BasicInfo.Filename != full.BasicInfo.Filename ||
		basic.BasicInfo.FileType != full.BasicInfo.FileType ||
		basic.BasicInfo.FileSize != full.BasicInfo.FileSize {
		t.Errorf("basic_info differs: %+v vs %+v", basic.BasicInfo, full.BasicInfo)
	}
	if basic.ContentAnalysis.WordCount != full.ContentAnalysis.WordCount ||
		basic.ContentAnalysis.CharacterCount != full.ContentAnalysis.CharacterCount {
		t.Errorf("statistics differ: %+v vs %+v", basic.ContentAnalysis, full.ContentAnalysis)
	}

	// The basic path must leave semantic data at defaults.
	if basic.ContentAnalysis.DocumentType != "unknown" {
		t.Errorf("basic document_type = %q", basic.ContentAnalysis.DocumentType)
	}
	if len(basic.SemanticData.KeyTopics) != 0 {
		t.Errorf("basic key_topics = %v", basic.SemanticData.KeyTopics)
	}
	if len(basic.TechnicalMetadata.TaskMethods) != 0 {
		t.Errorf("basic task_methods = %v", basic.TechnicalMetadata.TaskMethods)
	}
}

func TestGenerateMetadataUnsupportedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "image.png", []byte("not really an image"))
	_, err := newTestPipeline().GenerateMetadata(context.Background(), path)
	if !errors.Is(err, document.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestProcessDirectoryWithCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", []byte("The first document has plenty of regular text content."))
	writeFile(t, dir, "b.pdf", append([]byte("%PDF-1.4"), 0xDE, 0xAD, 0x80, 0x81, 0x82))
	writeFile(t, dir, "c.md", []byte("# Notes\n\nThe third document also has enough text."))
	writeFile(t, dir, "skip.png", []byte("unsupported, must be ignored"))

	records, err := newTestPipeline().ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	// Lexicographic order by filename.
	for i, want := range []string{"a.txt", "b.pdf", "c.md"} {
		if records[i].BasicInfo.Filename != want {
			t.Errorf("record %d filename = %q, want %q", i, records[i].BasicInfo.Filename, want)
		}
	}

	corrupted := records[1]
	if corrupted.TechnicalMetadata.ExtractionMethod != extract.MethodFailed {
		t.Errorf("corrupted extraction_method = %q", corrupted.TechnicalMetadata.ExtractionMethod)
	}
	if corrupted.TechnicalMetadata.ConfidenceScore != 0 {
		t.Errorf("corrupted confidence_score = %f", corrupted.TechnicalMetadata.ConfidenceScore)
	}

	for _, i := range []int{0, 2} {
		if records[i].TechnicalMetadata.ConfidenceScore <= 0 {
			t.Errorf("record %d confidence = %f", i, records[i].TechnicalMetadata.ConfidenceScore)
		}
	}
}

func TestDocumentTimeoutYieldsRecord(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DocumentTimeout = time.Nanosecond
	p := New(cfg, capability.NewRegistry(), zerolog.Nop())

	path := writeFile(t, t.TempDir(), "slow.txt", []byte(sampleText))
	rec, err := p.GenerateMetadata(context.Background(), path)
	if err != nil {
		t.Fatalf("timeout must degrade, not error: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}
	if rec.TechnicalMetadata.ConfidenceScore != 0 {
		t.Errorf("timed-out confidence = %f", rec.TechnicalMetadata.ConfidenceScore)
	}
}
