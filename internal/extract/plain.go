package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/doculens/doculens/internal/document"
)

const (
	plainReadCeiling = 0.98
	rawReadCeiling   = 0.5
)

// plainReadStrategy reads text and markdown files that are already valid
// UTF-8. Invalid encodings are left to the raw-read fallback.
type plainReadStrategy struct {
	maxFileSize int64
}

func (s *plainReadStrategy) Name() string { return MethodPlainRead }

func (s *plainReadStrategy) Extract(_ context.Context, doc *document.Document) (*Result, error) {
	data, err := readCapped(doc.Path, doc.Size, s.maxFileSize)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("file is not valid UTF-8")
	}

	text := string(data)
	return &Result{
		Text:       text,
		Confidence: plainReadCeiling * printableRatio(text),
	}, nil
}

// rawReadStrategy is the last resort for every format: decode the bytes
// lossily, dropping whatever does not survive as UTF-8. The printable ratio
// of the result keeps the confidence honest for binary-heavy inputs.
type rawReadStrategy struct {
	maxFileSize int64
}

func (s *rawReadStrategy) Name() string { return MethodRawRead }

func (s *rawReadStrategy) Extract(_ context.Context, doc *document.Document) (*Result, error) {
	data, err := readCapped(doc.Path, doc.Size, s.maxFileSize)
	if err != nil {
		return nil, err
	}

	text := decodeLossy(data)
	return &Result{
		Text:       text,
		Confidence: rawReadCeiling * printableRatio(text),
	}, nil
}

func readCapped(path string, size, maxFileSize int64) ([]byte, error) {
	if maxFileSize > 0 && size > maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", size, maxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	return data, nil
}

// decodeLossy keeps valid UTF-8 runs and printable ASCII, dropping other
// bytes instead of emitting replacement characters.
func decodeLossy(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r != utf8.RuneError || size > 1 {
			b.WriteRune(r)
		} else if data[0] == '\n' || data[0] == '\t' || (data[0] >= 0x20 && data[0] < 0x7F) {
			b.WriteByte(data[0])
		}
		data = data[size:]
	}
	return b.String()
}
