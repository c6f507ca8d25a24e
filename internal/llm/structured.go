package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNoObject = errors.New("no balanced JSON object found")

// ExtractJSON locates the first balanced brace-delimited span in text and
// returns it when it parses as JSON. Braces inside string literals are
// ignored. Unparseable or unterminated spans are skipped and the scan
// continues from the next brace, so prose such as "use {x} here" or a
// stray "{" before the real record does not mask it.
//
// Failure is reported as *ErrInvalidResponse carrying the raw text.
func ExtractJSON(text string) (json.RawMessage, error) {
	start := strings.IndexByte(text, '{')
	for start >= 0 {
		if end := matchBrace(text, start); end >= 0 {
			span := text[start : end+1]
			if json.Valid([]byte(span)) {
				return json.RawMessage(span), nil
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, &ErrInvalidResponse{Raw: text, Err: errNoObject}
}

// ExtractInto extracts the first JSON object from text, validates it
// against schema (when non-nil) and decodes it into v.
func ExtractInto(text string, schema *Schema, v any) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := schema.Validate(raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &ErrInvalidResponse{Raw: text, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// matchBrace returns the index of the brace closing the one at open,
// or -1 if the span is unterminated.
func matchBrace(text string, open int) int {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
