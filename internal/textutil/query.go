package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Tokenize splits text into case-folded tokens of letters and digits,
// dropping single-rune tokens.
func Tokenize(text string) []string {
	folded := cases.Fold().String(text)
	raw := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len([]rune(token)) < 2 {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// MatchesQuery reports whether every token of query occurs in text, ignoring
// case. An empty query matches everything.
func MatchesQuery(text, query string) bool {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return true
	}
	folded := cases.Fold().String(text)
	for _, term := range terms {
		if !strings.Contains(folded, term) {
			return false
		}
	}
	return true
}
