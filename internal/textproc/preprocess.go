// Package textproc provides deterministic text normalization and primitive
// statistics used by every downstream analysis task. It never touches a
// capability-backed method.
package textproc

import (
	"strings"
	"unicode"
)

// Stats holds primitive statistics over normalized text.
type Stats struct {
	WordCount         int     `json:"word_count"`
	CharacterCount    int     `json:"character_count"`
	SentenceCount     int     `json:"sentence_count"`
	SyllableCount     int     `json:"syllable_count"`
	AverageWordLength float64 `json:"average_word_length"`
}

// Normalize strips control characters and collapses runs of whitespace into
// single spaces. Pure function; empty input yields empty output.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	lastSpace := true
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			// Dropped outright.
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}

// Sentences splits normalized text on terminal punctuation. Abbreviation
// handling is deliberately minimal; the split is locale-agnostic.
func Sentences(text string) []string {
	if text == "" {
		return nil
	}

	var sentences []string
	var current strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			// Do not split after single-letter or honorific abbreviations
			// such as "Dr." or "J.".
			if r == '.' && isAbbreviationAt(runes, i) {
				continue
			}
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

var abbreviations = map[string]bool{
	"dr": true, "mr": true, "mrs": true, "ms": true, "prof": true,
	"st": true, "jr": true, "sr": true, "vs": true, "etc": true,
	"eg": true, "ie": true, "no": true, "inc": true, "ltd": true,
}

// isAbbreviationAt reports whether the period at index i terminates a known
// abbreviation or a single capital letter initial.
func isAbbreviationAt(runes []rune, i int) bool {
	start := i
	for start > 0 && (unicode.IsLetter(runes[start-1])) {
		start--
	}
	word := strings.ToLower(string(runes[start:i]))
	if len(word) == 1 && unicode.IsUpper(runes[start]) {
		return true
	}
	return abbreviations[word]
}

// Tokens splits normalized text into word tokens, trimming surrounding
// punctuation from each token. Tokens that end up empty are dropped.
func Tokens(text string) []string {
	if text == "" {
		return nil
	}
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// ComputeStats derives word, character, sentence, and syllable counts from
// normalized text. Empty input returns the zero value rather than an error.
func ComputeStats(text string) Stats {
	if text == "" {
		return Stats{}
	}

	words := strings.Fields(text)
	tokens := Tokens(text)
	sentences := Sentences(text)

	stats := Stats{
		WordCount:      len(words),
		CharacterCount: len([]rune(text)),
		SentenceCount:  len(sentences),
	}

	totalLen := 0
	for _, tok := range tokens {
		totalLen += len([]rune(tok))
		stats.SyllableCount += CountSyllables(tok)
	}
	if len(tokens) > 0 {
		stats.AverageWordLength = float64(totalLen) / float64(len(tokens))
	}

	return stats
}

// CountSyllables estimates syllables in a word by counting vowel groups with
// a silent-e adjustment. Every word counts as at least one syllable.
func CountSyllables(word string) int {
	word = strings.ToLower(word)
	if word == "" {
		return 0
	}

	isVowel := func(r rune) bool {
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'y':
			return true
		}
		return false
	}

	count := 0
	prevVowel := false
	runes := []rune(word)
	for _, r := range runes {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	// Trailing silent e.
	if len(runes) > 2 && runes[len(runes)-1] == 'e' && !isVowel(runes[len(runes)-2]) {
		count--
	}

	if count < 1 {
		count = 1
	}
	return count
}

// englishStopWords is the seed list used by language detection and the
// frequency-based tasks.
var englishStopWords = map[string]bool{
	"the": true, "and": true, "are": true, "for": true, "with": true,
	"this": true, "that": true, "from": true, "they": true, "have": true,
	"been": true, "will": true, "said": true, "each": true, "which": true,
	"their": true, "time": true, "but": true, "all": true, "can": true,
	"may": true, "was": true, "were": true, "not": true, "you": true,
	"your": true, "its": true, "has": true, "had": true, "our": true,
	"into": true, "about": true, "than": true, "them": true, "then": true,
	"these": true, "also": true, "such": true, "when": true, "more": true,
}

// IsStopWord reports whether the lowercased word is in the stop-word list.
func IsStopWord(word string) bool {
	return englishStopWords[strings.ToLower(word)]
}

// DetectLanguage applies a coarse heuristic: mostly-ASCII text containing
// English stop words is reported as "en", anything else as "unknown".
func DetectLanguage(text string) string {
	if text == "" {
		return "unknown"
	}

	ascii := 0
	total := 0
	for _, r := range text {
		total++
		if r < 128 {
			ascii++
		}
	}
	if total == 0 || float64(ascii)/float64(total) < 0.8 {
		return "unknown"
	}

	stopHits := 0
	for _, tok := range Tokens(text) {
		if IsStopWord(tok) {
			stopHits++
		}
	}
	if stopHits > 0 {
		return "en"
	}
	return "unknown"
}
