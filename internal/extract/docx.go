package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/doculens/doculens/internal/document"
)

// docxCeiling caps confidence for the DOCX parser; the format is structured
// so successful parses are trusted slightly below PDF direct parse.
const docxCeiling = 0.92

// docxStrategy reads word/document.xml out of the DOCX ZIP archive and
// collects paragraph text.
type docxStrategy struct {
	maxFileSize int64
}

func (s *docxStrategy) Name() string { return MethodDocxParse }

func (s *docxStrategy) Extract(_ context.Context, doc *document.Document) (*Result, error) {
	if s.maxFileSize > 0 && doc.Size > s.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", doc.Size, s.maxFileSize)
	}

	r, err := zip.OpenReader(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var builder strings.Builder
	var current strings.Builder
	inParagraph := false
	inText := false

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph {
					inParagraph = false
					if text := strings.TrimSpace(current.String()); text != "" {
						builder.WriteString(text)
						builder.WriteString("\n")
					}
				}
			}
		}
	}

	text := builder.String()
	return &Result{
		Text:       text,
		Confidence: docxCeiling * printableRatio(text),
	}, nil
}
