package match

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Package-level compiled regex patterns for performance
// These are compiled once at startup instead of on every call
var (
	reWhitespace = regexp.MustCompile(`\s+`)

	// Word tokens; contractions keep their apostrophe so negation
	// markers like "don't" survive as a single token
	reToken = regexp.MustCompile(`[a-z0-9]+(?:'[a-z]+)?`)
)

// quoteFolder maps typographic apostrophes and quotes to ASCII before
// tokenization. NFKC leaves U+2019 alone, so smart-quote keyboards would
// otherwise split "don't" apart.
var quoteFolder = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
)

// Normalize NFKC-folds, lower-cases, and collapses whitespace. Every
// matcher operation runs on normalized text, never on the raw input.
func Normalize(text string) string {
	t := norm.NFKC.String(text)
	t = quoteFolder.Replace(t)
	t = strings.ToLower(t)
	t = reWhitespace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// Tokens splits text into normalized word tokens.
func Tokens(text string) []string {
	return tokenize(Normalize(text))
}

// tokenize expects already-normalized text.
func tokenize(normalized string) []string {
	return reToken.FindAllString(normalized, -1)
}
