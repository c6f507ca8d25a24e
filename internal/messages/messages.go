// Package messages holds the fixed user-visible texts of the tutor in each
// supported register.
package messages

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/signals"
)

// Message IDs.
const (
	Greeting               = "Greeting"
	Refusal                = "Refusal"
	EmptyReply             = "EmptyReply"
	GenerationError        = "GenerationError"
	SelectSubject          = "SelectSubject"
	TranslationUnavailable = "TranslationUnavailable"
	CodeAnalysisError      = "CodeAnalysisError"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	loadOnce sync.Once
	bundle   *i18n.Bundle
	loadErr  error
)

func load() (*i18n.Bundle, error) {
	loadOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("json", json.Unmarshal)

		entries, err := localeFS.ReadDir("locales")
		if err != nil {
			loadErr = fmt.Errorf("read locales dir: %w", err)
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			data, err := localeFS.ReadFile("locales/" + e.Name())
			if err != nil {
				loadErr = fmt.Errorf("read locale file %s: %w", e.Name(), err)
				return
			}
			if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
				loadErr = fmt.Errorf("parse locale file %s: %w", e.Name(), err)
				return
			}
		}
		bundle = b
	})
	return bundle, loadErr
}

// Text renders message id for lang. Languages without a catalog use
// English. An unknown id is returned as is.
func Text(lang signals.Language, id string) string {
	return render(lang, id, nil)
}

// Error renders a message id that embeds err.
func Error(lang signals.Language, id string, err error) string {
	return render(lang, id, map[string]any{"Error": err.Error()})
}

func render(lang signals.Language, id string, data map[string]any) string {
	b, err := load()
	if err != nil {
		return id
	}
	loc := i18n.NewLocalizer(b, lang.Tag.String(), language.English.String())
	s, err := loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return s
}
