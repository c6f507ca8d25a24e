// Package signals derives the reply language, emotional state and
// verbosity hint from a learner's raw text. Every detector is a pure
// function of its input.
package signals

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Register distinguishes the informal transliterated register from the
// standard one.
type Register int

const (
	RegisterStandard Register = iota
	RegisterInformal
)

// Language is the detected or requested reply language.
type Language struct {
	Tag      language.Tag
	Register Register
}

var (
	// English is the standard register.
	English = Language{Tag: language.English, Register: RegisterStandard}

	// RomanUrdu is Urdu written in Latin letters, the informal register.
	RomanUrdu = Language{Tag: language.MustParse("ur-Latn"), Register: RegisterInformal}
)

// Informal reports whether l is the informal transliterated register.
func (l Language) Informal() bool {
	return l.Register == RegisterInformal
}

// Name is the human-readable name used in prompts.
func (l Language) Name() string {
	if l.Informal() {
		return "Roman Urdu (Latin script)"
	}
	if name := display.English.Tags().Name(l.Tag); name != "" {
		return name
	}
	return l.Tag.String()
}

// InformalThreshold is the share of marker words at or above which text
// is classified as the informal register. Empirically chosen.
const InformalThreshold = 0.15

// markerPrefixMinLen is the shortest marker that also matches as the
// prefix of a longer word ("kais" in "kaise").
const markerPrefixMinLen = 4

// informalMarkers are frequent Roman Urdu words. English homographs such
// as "problem" and "detail" are left out so plain English is not misread.
var informalMarkers = []string{
	"kya", "kyun", "kais", "kaise", "krdo", "kerdo", "mujhe", "ap", "aap",
	"tum", "hain", "hun", "hy", "ha", "kia", "kerna", "krna", "sahi",
	"galat", "masla", "samjha", "btao", "batao", "seekho", "seekhna",
	"tafsil", "kesi", "nahi", "hai", "bhai",
}

// Words splits text on whitespace and trims surrounding punctuation from
// each word, lowercased. Words that are only punctuation are dropped.
func Words(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := fields[:0]
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !(unicode.IsLetter(r) || unicode.IsDigit(r))
		})
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// DetectLanguage classifies text as Roman Urdu when at least
// InformalThreshold of its words (and at least one) are informal markers,
// otherwise English.
func DetectLanguage(text string) Language {
	words := Words(text)
	if len(words) == 0 {
		return English
	}
	hits := 0
	for _, w := range words {
		if isInformalMarker(w) {
			hits++
		}
	}
	if hits >= 1 && float64(hits)/float64(len(words)) >= InformalThreshold {
		return RomanUrdu
	}
	return English
}

func isInformalMarker(word string) bool {
	for _, m := range informalMarkers {
		if word == m {
			return true
		}
		if len(m) >= markerPrefixMinLen && strings.HasPrefix(word, m) {
			return true
		}
	}
	return false
}

// ResolveLanguage honours an explicit language request and falls back to
// detection for "", "auto" or anything unparseable. Urdu in any script
// resolves to Roman Urdu because replies never use the native script.
func ResolveLanguage(explicit, text string) Language {
	switch s := strings.ToLower(strings.TrimSpace(explicit)); s {
	case "", "auto":
		return DetectLanguage(text)
	case "roman urdu", "roman_urdu", "roman-urdu", "urdu":
		return RomanUrdu
	case "english":
		return English
	default:
		tag, err := language.Parse(s)
		if err != nil {
			return DetectLanguage(text)
		}
		if base, _ := tag.Base(); base.String() == "ur" {
			return RomanUrdu
		}
		return Language{Tag: tag, Register: RegisterStandard}
	}
}
