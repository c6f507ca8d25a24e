package corpus

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Tokenize case-folds text and splits it into runs of letters, digits
// and underscores.
func Tokenize(text string) []string {
	// A Caser carries state, so each call gets its own.
	folded := cases.Fold().String(text)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
}

// terms returns the unigrams of tokens followed by their bigrams.
func terms(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}
