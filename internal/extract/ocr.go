package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/doculens/doculens/internal/capability"
	"github.com/doculens/doculens/internal/document"
)

// pdfOCRStrategy handles image-based PDFs: it validates the file with
// pdfcpu to learn the page count, then feeds every page to the registered
// OCR engine and averages the per-page confidences into one extraction
// confidence.
type pdfOCRStrategy struct {
	caps *capability.Registry
}

func (s *pdfOCRStrategy) Name() string { return MethodOCR }

func (s *pdfOCRStrategy) Extract(ctx context.Context, doc *document.Document) (*Result, error) {
	if s.caps == nil || !s.caps.HasOCR() {
		return nil, capability.ErrUnavailable
	}

	pages, err := pageCount(doc.Path)
	if err != nil {
		return nil, err
	}
	if pages == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	var builder strings.Builder
	var confSum float64
	recognized := 0
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, conf, err := s.caps.RecognizePage(ctx, doc.Path, page)
		if err != nil {
			return nil, fmt.Errorf("ocr page %d: %w", page, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n")
		confSum += conf
		recognized++
	}

	if recognized == 0 {
		return nil, fmt.Errorf("ocr recognized no text on %d pages", pages)
	}

	return &Result{
		Text:       builder.String(),
		Confidence: confSum / float64(recognized),
		Pages:      pages,
	}, nil
}

// pageCount reads and validates the PDF with pdfcpu.
func pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	rctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return rctx.PageCount, nil
}
