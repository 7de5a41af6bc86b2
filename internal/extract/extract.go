// Package extract turns a document's bytes into text. Each supported format
// has an ordered chain of strategies; the dispatcher tries them in order and
// records the first one that yields non-trivial text.
package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/doculens/doculens/internal/capability"
	"github.com/doculens/doculens/internal/document"
)

// Method identifiers recorded on results. MethodFailed is only ever set by
// the dispatcher after exhausting a chain.
const (
	MethodDirectParse = "direct-parse"
	MethodOCR         = "ocr"
	MethodDocxParse   = "docx-parse"
	MethodPlainRead   = "plain-read"
	MethodRawRead     = "raw-read"
	MethodFailed      = "failed"
)

// DefaultMinTextLength is the non-trivial-text threshold: a strategy whose
// output trims to fewer characters than this is treated as a miss.
const DefaultMinTextLength = 10

// Result is the outcome of extraction for one document. Produced once,
// never mutated afterward.
type Result struct {
	Text       string  `json:"text"`
	Method     string  `json:"method"`
	Success    bool    `json:"success"`
	Confidence float64 `json:"confidence"`
	Pages      int     `json:"pages"`
}

// Failed returns the canonical total-failure result.
func Failed() *Result {
	return &Result{Method: MethodFailed}
}

// Strategy is one method for turning document bytes into text. Extract
// returns an error when the strategy cannot be applied at all; returning a
// result with short text simply moves the chain along.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, doc *document.Document) (*Result, error)
}

// Config tunes dispatcher behavior.
type Config struct {
	MaxFileSize   int64
	MinTextLength int
}

// Dispatcher owns the per-format strategy chains.
type Dispatcher struct {
	chains        map[document.Format][]Strategy
	minTextLength int
	logger        zerolog.Logger
}

// NewDispatcher builds the standard chains. The OCR strategy consumes the
// registry's OCR engine; with no engine registered it reports unavailable
// and the chain falls through to raw-read.
func NewDispatcher(cfg Config, caps *capability.Registry, logger zerolog.Logger) *Dispatcher {
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = DefaultMinTextLength
	}

	raw := &rawReadStrategy{maxFileSize: cfg.MaxFileSize}
	chains := map[document.Format][]Strategy{
		document.FormatPDF: {
			&pdfDirectStrategy{maxFileSize: cfg.MaxFileSize},
			&pdfOCRStrategy{caps: caps},
			raw,
		},
		document.FormatDocx: {
			&docxStrategy{maxFileSize: cfg.MaxFileSize},
			raw,
		},
		document.FormatText: {
			&plainReadStrategy{maxFileSize: cfg.MaxFileSize},
			raw,
		},
		document.FormatMarkdown: {
			&plainReadStrategy{maxFileSize: cfg.MaxFileSize},
			raw,
		},
	}

	return &Dispatcher{
		chains:        chains,
		minTextLength: cfg.MinTextLength,
		logger:        logger.With().Str("component", "extract").Logger(),
	}
}

// Extract runs the chain for the document's format. First success wins. A
// fully exhausted chain yields the failed result with a nil error; only an
// unsupported format is an error.
func (d *Dispatcher) Extract(ctx context.Context, doc *document.Document) (*Result, error) {
	chain, ok := d.chains[doc.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", document.ErrUnsupportedFormat, doc.Format)
	}

	for _, strategy := range chain {
		if err := ctx.Err(); err != nil {
			d.logger.Debug().Str("file", doc.Name).Msg("extraction canceled")
			return Failed(), nil
		}

		res, err := strategy.Extract(ctx, doc)
		if err != nil {
			d.logger.Debug().
				Str("file", doc.Name).
				Str("strategy", strategy.Name()).
				Err(err).
				Msg("extraction strategy failed")
			continue
		}
		if len(strings.TrimSpace(res.Text)) < d.minTextLength {
			continue
		}

		res.Method = strategy.Name()
		res.Success = true
		res.Confidence = clamp01(res.Confidence)
		d.logger.Debug().
			Str("file", doc.Name).
			Str("method", res.Method).
			Float64("confidence", res.Confidence).
			Msg("extraction succeeded")
		return res, nil
	}

	d.logger.Warn().Str("file", doc.Name).Msg("all extraction strategies exhausted")
	return Failed(), nil
}

// printableRatio measures the fraction of runes that are printable and
// non-replacement, used to scale extraction confidence for noisy decodes.
func printableRatio(text string) float64 {
	if text == "" {
		return 0
	}
	printable := 0
	total := 0
	for _, r := range text {
		total++
		if r == unicode.ReplacementChar {
			continue
		}
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	return float64(printable) / float64(total)
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
