package onnx

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Tokenizer is a minimal WordPiece-style tokenizer: lowercase, punctuation
// split, greedy longest-match against the vocab with "##" continuations.
type Tokenizer struct {
	vocab        map[string]int64
	clsID        int64
	sepID        int64
	padID        int64
	unkID        int64
	continuation string
}

// LoadTokenizer builds the tokenizer from a one-token-per-line vocab file.
func LoadTokenizer(path string) (*Tokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer f.Close()

	vocab := make(map[string]int64)
	sc := bufio.NewScanner(f)
	var idx int64
	for sc.Scan() {
		token := strings.TrimSpace(sc.Text())
		if token == "" {
			continue
		}
		vocab[token] = idx
		idx++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan vocab: %w", err)
	}

	return &Tokenizer{
		vocab:        vocab,
		continuation: "##",
		clsID:        vocab["[CLS]"],
		sepID:        vocab["[SEP]"],
		padID:        vocab["[PAD]"],
		unkID:        vocab["[UNK]"],
	}, nil
}

// Encode produces fixed-length input IDs and an attention mask.
func (t *Tokenizer) Encode(text string, seqLen int) ([]int64, []int64) {
	ids := make([]int64, 0, seqLen)
	ids = append(ids, t.clsID)

	for _, word := range t.split(text) {
		ids = append(ids, t.wordPiece(word)...)
		if len(ids) >= seqLen-1 {
			ids = ids[:seqLen-1]
			break
		}
	}
	ids = append(ids, t.sepID)

	attn := make([]int64, seqLen)
	out := make([]int64, seqLen)
	for i := 0; i < seqLen; i++ {
		if i < len(ids) {
			out[i] = ids[i]
			attn[i] = 1
		} else {
			out[i] = t.padID
		}
	}
	return out, attn
}

// split lowercases and breaks text on whitespace and punctuation, keeping
// punctuation as separate tokens.
func (t *Tokenizer) split(text string) []string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			flush()
			words = append(words, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}

// wordPiece applies greedy longest-match segmentation to one word.
func (t *Tokenizer) wordPiece(word string) []int64 {
	if id, ok := t.vocab[word]; ok {
		return []int64{id}
	}

	var pieces []int64
	runes := []rune(word)
	start := 0
	for start < len(runes) {
		end := len(runes)
		var matched int64 = -1
		for end > start {
			candidate := string(runes[start:end])
			if start > 0 {
				candidate = t.continuation + candidate
			}
			if id, ok := t.vocab[candidate]; ok {
				matched = id
				break
			}
			end--
		}
		if matched < 0 {
			return []int64{t.unkID}
		}
		pieces = append(pieces, matched)
		start = end
	}
	return pieces
}
