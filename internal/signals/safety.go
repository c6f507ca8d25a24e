package signals

import (
	"errors"
	"strings"
)

// ErrUnsafeInput marks a query refused before reaching the generator.
var ErrUnsafeInput = errors.New("signals: query matches a disallowed topic")

var disallowedWords = []string{"kill", "bomb", "hate", "illegal", "hack", "drug"}

// CheckSafety returns ErrUnsafeInput when the lowercased text contains a
// disallowed word anywhere.
func CheckSafety(text string) error {
	if containsAny(strings.ToLower(text), disallowedWords) {
		return ErrUnsafeInput
	}
	return nil
}
