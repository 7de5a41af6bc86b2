package onnx

import (
	"os"
	"path/filepath"
	"testing"
)

func writeVocab(t *testing.T, tokens []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.txt")
	var data []byte
	for _, tok := range tokens {
		data = append(data, tok...)
		data = append(data, '\n')
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTokenizerEncode(t *testing.T) {
	vocab := []string{"[PAD]", "[UNK]", "[CLS]", "[SEP]", "hello", "world", "!", "doc", "##ument"}
	tok, err := LoadTokenizer(writeVocab(t, vocab))
	if err != nil {
		t.Fatalf("LoadTokenizer failed: %v", err)
	}

	ids, attn := tok.Encode("Hello world!", 8)
	if len(ids) != 8 || len(attn) != 8 {
		t.Fatalf("expected length 8, got %d/%d", len(ids), len(attn))
	}

	// [CLS] hello world ! [SEP] [PAD] [PAD] [PAD]
	want := []int64{2, 4, 5, 6, 3, 0, 0, 0}
	for i, w := range want {
		if ids[i] != w {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], w)
		}
	}
	for i := 0; i < 5; i++ {
		if attn[i] != 1 {
			t.Errorf("attn[%d] = %d, want 1", i, attn[i])
		}
	}
	for i := 5; i < 8; i++ {
		if attn[i] != 0 {
			t.Errorf("attn[%d] = %d, want 0", i, attn[i])
		}
	}
}

func TestTokenizerWordPieceContinuation(t *testing.T) {
	vocab := []string{"[PAD]", "[UNK]", "[CLS]", "[SEP]", "doc", "##ument"}
	tok, err := LoadTokenizer(writeVocab(t, vocab))
	if err != nil {
		t.Fatal(err)
	}

	ids, _ := tok.Encode("document", 6)
	// [CLS] doc ##ument [SEP] [PAD] [PAD]
	want := []int64{2, 4, 5, 3, 0, 0}
	for i, w := range want {
		if ids[i] != w {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], w)
		}
	}
}

func TestTokenizerUnknownWord(t *testing.T) {
	vocab := []string{"[PAD]", "[UNK]", "[CLS]", "[SEP]"}
	tok, err := LoadTokenizer(writeVocab(t, vocab))
	if err != nil {
		t.Fatal(err)
	}

	ids, _ := tok.Encode("mystery", 4)
	if ids[1] != 1 {
		t.Errorf("expected [UNK] id 1 for unknown word, got %d", ids[1])
	}
}

func TestSoftmax(t *testing.T) {
	probs := softmax([]float32{1, 2, 3})
	var sum float64
	for _, p := range probs {
		sum += p
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("softmax should sum to 1, got %f", sum)
	}
	if !(probs[2] > probs[1] && probs[1] > probs[0]) {
		t.Errorf("softmax should preserve order, got %v", probs)
	}
}
