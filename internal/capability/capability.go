// Package capability defines the contracts for the heavyweight, black-box
// NLP/ML functions the pipeline consumes, and a registry that holds the
// long-lived instances constructed at process start.
package capability

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable is returned when a capability has no registered
// implementation. Tasks treat it like any other capability failure and move
// to their fallback method.
var ErrUnavailable = errors.New("capability unavailable")

// Entity is a typed span reported by an entity recognizer.
type Entity struct {
	Type string `json:"type"` // PERSON, ORG, DATE, LOCATION, PERCENT, ...
	Text string `json:"text"`
}

// Sentiment is a polarity label with a score in [-1,1].
type Sentiment struct {
	Label string  `json:"label"` // positive, neutral, negative
	Score float64 `json:"score"`
}

// EntityRecognizer extracts typed entity spans from text.
type EntityRecognizer interface {
	RecognizeEntities(ctx context.Context, text string) ([]Entity, float64, error)
}

// Summarizer produces a summary of at most maxChars characters.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxChars int) (string, float64, error)
}

// SentimentClassifier assigns a polarity label and score to text.
type SentimentClassifier interface {
	ClassifySentiment(ctx context.Context, text string) (Sentiment, float64, error)
}

// OCREngine converts one page of a document to text with a recognition
// confidence in [0,1].
type OCREngine interface {
	RecognizePage(ctx context.Context, path string, page int) (string, float64, error)
}

// Reentrant is implemented by capabilities that are safe for concurrent
// invocation. Capabilities that do not implement it (or return false) are
// serialized through a lock scoped to that capability alone.
type Reentrant interface {
	Reentrant() bool
}

// Registry holds the loaded capability instances. A nil slot means the
// capability is unavailable and the consuming task falls back to its
// rule-based method. The registry is shared read-only across workers.
type Registry struct {
	entities  EntityRecognizer
	summarize Summarizer
	sentiment SentimentClassifier
	ocr       OCREngine

	entitiesMu  sync.Mutex
	summarizeMu sync.Mutex
	sentimentMu sync.Mutex
	ocrMu       sync.Mutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithEntityRecognizer installs the entity recognition capability.
func WithEntityRecognizer(r EntityRecognizer) Option {
	return func(reg *Registry) { reg.entities = r }
}

// WithSummarizer installs the summarization capability.
func WithSummarizer(s Summarizer) Option {
	return func(reg *Registry) { reg.summarize = s }
}

// WithSentimentClassifier installs the sentiment capability.
func WithSentimentClassifier(s SentimentClassifier) Option {
	return func(reg *Registry) { reg.sentiment = s }
}

// WithOCREngine installs the OCR capability.
func WithOCREngine(o OCREngine) Option {
	return func(reg *Registry) { reg.ocr = o }
}

// NewRegistry builds a registry from the given options. Omitted capabilities
// stay nil and report ErrUnavailable.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

func isReentrant(v any) bool {
	if r, ok := v.(Reentrant); ok {
		return r.Reentrant()
	}
	return false
}

// RecognizeEntities invokes the entity capability, serializing access when
// the implementation is not reentrant.
func (reg *Registry) RecognizeEntities(ctx context.Context, text string) ([]Entity, float64, error) {
	if reg == nil || reg.entities == nil {
		return nil, 0, ErrUnavailable
	}
	if !isReentrant(reg.entities) {
		reg.entitiesMu.Lock()
		defer reg.entitiesMu.Unlock()
	}
	return reg.entities.RecognizeEntities(ctx, text)
}

// Summarize invokes the summarization capability.
func (reg *Registry) Summarize(ctx context.Context, text string, maxChars int) (string, float64, error) {
	if reg == nil || reg.summarize == nil {
		return "", 0, ErrUnavailable
	}
	if !isReentrant(reg.summarize) {
		reg.summarizeMu.Lock()
		defer reg.summarizeMu.Unlock()
	}
	return reg.summarize.Summarize(ctx, text, maxChars)
}

// ClassifySentiment invokes the sentiment capability.
func (reg *Registry) ClassifySentiment(ctx context.Context, text string) (Sentiment, float64, error) {
	if reg == nil || reg.sentiment == nil {
		return Sentiment{}, 0, ErrUnavailable
	}
	if !isReentrant(reg.sentiment) {
		reg.sentimentMu.Lock()
		defer reg.sentimentMu.Unlock()
	}
	return reg.sentiment.ClassifySentiment(ctx, text)
}

// RecognizePage invokes the OCR capability for one page.
func (reg *Registry) RecognizePage(ctx context.Context, path string, page int) (string, float64, error) {
	if reg == nil || reg.ocr == nil {
		return "", 0, ErrUnavailable
	}
	if !isReentrant(reg.ocr) {
		reg.ocrMu.Lock()
		defer reg.ocrMu.Unlock()
	}
	return reg.ocr.RecognizePage(ctx, path, page)
}

// HasOCR reports whether an OCR engine is registered.
func (reg *Registry) HasOCR() bool {
	return reg != nil && reg.ocr != nil
}
