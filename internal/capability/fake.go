package capability

import (
	"context"
	"sync/atomic"
)

// Fake capability implementations for tests. They record call counts and can
// be primed with canned results or errors.

// FakeEntityRecognizer returns a fixed entity list or error.
type FakeEntityRecognizer struct {
	Entities   []Entity
	Confidence float64
	Err        error
	Calls      atomic.Int64
}

func (f *FakeEntityRecognizer) RecognizeEntities(_ context.Context, _ string) ([]Entity, float64, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return nil, 0, f.Err
	}
	return f.Entities, f.Confidence, nil
}

func (f *FakeEntityRecognizer) Reentrant() bool { return true }

// FakeSummarizer returns a fixed summary or error.
type FakeSummarizer struct {
	Summary    string
	Confidence float64
	Err        error
	Calls      atomic.Int64
}

func (f *FakeSummarizer) Summarize(_ context.Context, _ string, maxChars int) (string, float64, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return "", 0, f.Err
	}
	s := f.Summary
	if maxChars > 0 && len(s) > maxChars {
		s = s[:maxChars]
	}
	return s, f.Confidence, nil
}

func (f *FakeSummarizer) Reentrant() bool { return true }

// FakeSentimentClassifier returns a fixed sentiment or error.
type FakeSentimentClassifier struct {
	Result     Sentiment
	Confidence float64
	Err        error
	Calls      atomic.Int64
}

func (f *FakeSentimentClassifier) ClassifySentiment(_ context.Context, _ string) (Sentiment, float64, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return Sentiment{}, 0, f.Err
	}
	return f.Result, f.Confidence, nil
}

func (f *FakeSentimentClassifier) Reentrant() bool { return true }

// FakeOCREngine returns fixed per-page text. Pages holds text keyed by page
// number; missing pages return empty text with zero confidence.
type FakeOCREngine struct {
	Pages      map[int]string
	Confidence float64
	Err        error
	Calls      atomic.Int64
}

func (f *FakeOCREngine) RecognizePage(_ context.Context, _ string, page int) (string, float64, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return "", 0, f.Err
	}
	text, ok := f.Pages[page]
	if !ok {
		return "", 0, nil
	}
	return text, f.Confidence, nil
}

func (f *FakeOCREngine) Reentrant() bool { return true }
