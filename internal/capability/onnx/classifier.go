// Package onnx provides a capability implementation backed by a local ONNX
// text-classification model. The bundle directory layout is:
//
//	model.onnx    — sequence classification model (input_ids, attention_mask → logits)
//	vocab.txt     — one token per line
//	labels.json   — ["negative","neutral","positive"] or {"0":"negative",...}
//
// The session holds pre-allocated tensors, so inference is not reentrant and
// is serialized through an internal mutex.
package onnx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/doculens/doculens/internal/capability"
)

const defaultSeqLen = 256

// Classifier wraps an ONNX session and tokenizer as a sentiment capability.
type Classifier struct {
	session   *ort.AdvancedSession
	tokenizer *Tokenizer
	labels    []string
	seqLen    int

	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	output        *ort.Tensor[float32]

	mu sync.Mutex
}

// Load initializes the ONNX environment, session, tokenizer, and labels from
// the bundle directory.
func Load(bundleDir string, seqLen int) (*Classifier, error) {
	if bundleDir == "" {
		return nil, errors.New("bundleDir is empty")
	}
	if seqLen <= 0 {
		seqLen = defaultSeqLen
	}

	if lib := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); lib != "" {
		ort.SetSharedLibraryPath(lib)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	modelPath := filepath.Join(bundleDir, "model.onnx")
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file missing at %s: %w", modelPath, err)
	}

	labels, err := loadLabels(filepath.Join(bundleDir, "labels.json"))
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}

	tokenizer, err := LoadTokenizer(filepath.Join(bundleDir, "vocab.txt"))
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	inputShape := ort.NewShape(1, int64(seqLen))
	inputIDs, err := ort.NewEmptyTensor[int64](inputShape)
	if err != nil {
		return nil, fmt.Errorf("allocate input_ids tensor: %w", err)
	}
	attnMask, err := ort.NewEmptyTensor[int64](inputShape)
	if err != nil {
		return nil, fmt.Errorf("allocate attention_mask tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(labels))))
	if err != nil {
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		[]ort.Value{inputIDs, attnMask},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &Classifier{
		session:       session,
		tokenizer:     tokenizer,
		labels:        labels,
		seqLen:        seqLen,
		inputIDs:      inputIDs,
		attentionMask: attnMask,
		output:        output,
	}, nil
}

// ClassifySentiment runs inference and returns the top label with its
// softmax probability as both score source and task confidence.
func (c *Classifier) ClassifySentiment(ctx context.Context, text string) (capability.Sentiment, float64, error) {
	if c == nil || c.session == nil {
		return capability.Sentiment{}, 0, errors.New("classifier not initialized")
	}
	if err := ctx.Err(); err != nil {
		return capability.Sentiment{}, 0, err
	}

	ids, attn := c.tokenizer.Encode(text, c.seqLen)

	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.inputIDs.GetData(), ids)
	copy(c.attentionMask.GetData(), attn)

	if err := c.session.Run(); err != nil {
		return capability.Sentiment{}, 0, fmt.Errorf("onnx run: %w", err)
	}

	probs := softmax(c.output.GetData())
	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}
	if best >= len(c.labels) {
		return capability.Sentiment{}, 0, fmt.Errorf("label index %d out of range", best)
	}

	label := c.labels[best]
	score := signedScore(label, float64(probs[best]))
	return capability.Sentiment{Label: label, Score: score}, float64(probs[best]), nil
}

// Close releases the session and tensors.
func (c *Classifier) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.Destroy()
		c.session = nil
	}
	for _, t := range []*ort.Tensor[int64]{c.inputIDs, c.attentionMask} {
		if t != nil {
			t.Destroy()
		}
	}
	if c.output != nil {
		c.output.Destroy()
	}
	return nil
}

// signedScore maps a label probability onto [-1,1] polarity.
func signedScore(label string, prob float64) float64 {
	switch label {
	case "negative":
		return -prob
	case "neutral":
		return 0
	default:
		return prob
	}
}

func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		out[i] = math.Exp(float64(l - maxLogit))
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func loadLabels(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil && len(arr) > 0 {
		return arr, nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	out := make([]string, len(m))
	for k, v := range m {
		idx, convErr := strconv.Atoi(k)
		if convErr != nil {
			return nil, fmt.Errorf("invalid label index %q: %w", k, convErr)
		}
		if idx < 0 || idx >= len(m) {
			return nil, fmt.Errorf("label index %d out of range", idx)
		}
		out[idx] = v
	}
	return out, nil
}
