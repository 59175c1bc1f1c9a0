package textstat

import (
	"strings"
	"unicode"
)

// TTR computes the type-token ratio (unique words / total words) of the
// given text. Tokens are maximal runs of Unicode letters; digits and
// underscores act as separators. Empty input yields 0.
func TTR(text string) float64 {
	tokens := Tokens(text)
	if len(tokens) == 0 {
		return 0.0
	}

	unique := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		unique[tok] = struct{}{}
	}
	return float64(len(unique)) / float64(len(tokens))
}

// Tokens splits text into lowercased letter-only tokens.
func Tokens(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// WordCount returns the number of whitespace-separated fields in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
