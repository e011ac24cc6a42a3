package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer folds OCR text into the canonical form the keyword rules
// match against: NFD-decomposed, non-ASCII runes removed, lower-cased.
// Keywords and scanned text go through the same fold, so "habilitação" and
// "HABILITACAO" compare equal.
type TextNormalizer struct{}

// NewTextNormalizer creates a new TextNormalizer
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{}
}

// Normalize returns the canonical matching form of text.
func (tn *TextNormalizer) Normalize(text string) string {
	// The transformer carries state, so build one per call rather than
	// sharing it across goroutines.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	folded, _, err := transform.String(fold, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(folded)
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tn *TextNormalizer) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	// Drop invalid UTF-8 sequences
	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	return string(result)
}
