package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/doculens/doculens/internal/document"
)

const (
	// directParseCeiling caps the confidence of embedded-text extraction;
	// the printable ratio of the output scales it down for noisy streams.
	directParseCeiling = 0.9

	maxExtractedTextSize = 10 * 1024 * 1024
)

// pdfDirectStrategy extracts embedded text streams page by page.
type pdfDirectStrategy struct {
	maxFileSize int64
}

func (s *pdfDirectStrategy) Name() string { return MethodDirectParse }

func (s *pdfDirectStrategy) Extract(_ context.Context, doc *document.Document) (*Result, error) {
	if s.maxFileSize > 0 && doc.Size > s.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", doc.Size, s.maxFileSize)
	}

	f, reader, err := pdf.Open(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	totalLength := 0
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// Continue with other pages even if one fails.
			continue
		}

		if totalLength+len(content) > maxExtractedTextSize {
			remaining := maxExtractedTextSize - totalLength
			if remaining > 0 {
				builder.WriteString(content[:remaining])
			}
			break
		}

		builder.WriteString(content)
		builder.WriteString("\n")
		totalLength += len(content) + 1
	}

	text := builder.String()
	return &Result{
		Text:       text,
		Confidence: directParseCeiling * printableRatio(text),
		Pages:      reader.NumPage(),
	}, nil
}
