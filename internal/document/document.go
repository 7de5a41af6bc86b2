// Package document defines the immutable document value type, format
// detection, and the error taxonomy shared by the pipeline stages.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Format identifies one of the supported input formats.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatDocx     Format = "docx"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
)

// Sentinel errors for the pipeline error taxonomy. Extraction and analysis
// degradation is represented as data on result values; these errors cover the
// cases that must surface to the caller.
var (
	// ErrUnsupportedFormat is returned before any extraction strategy runs.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractionFailed marks exhaustion of every extraction strategy. It is
	// carried on the extraction result, never thrown out of the pipeline.
	ErrExtractionFailed = errors.New("all extraction strategies failed")

	// ErrExport covers I/O failures while writing output and is the only
	// error allowed to propagate from the export layer.
	ErrExport = errors.New("export failed")
)

// Document describes an input file. Immutable once read.
type Document struct {
	Path   string
	Name   string
	Format Format
	Size   int64
	ReadAt time.Time
}

// DetectFormat maps a file extension to a supported format.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDocx, nil
	case ".txt", ".text":
		return FormatText, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// IsSupported reports whether the path has a supported extension.
func IsSupported(path string) bool {
	_, err := DetectFormat(path)
	return err == nil
}

// SupportedExtensions returns the recognized file extensions.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt", ".text", ".md", ".markdown"}
}

// Open stats the file and builds the Document descriptor. The raw content
// stays on disk; extraction strategies read it on demand.
func Open(path string) (*Document, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	return &Document{
		Path:   path,
		Name:   filepath.Base(path),
		Format: format,
		Size:   info.Size(),
		ReadAt: time.Now(),
	}, nil
}
