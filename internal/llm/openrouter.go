package llm

import (
	"fmt"
	"net/http"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// Attribution headers OpenRouter uses to credit requests to an app.
	openRouterAppURL   = "https://github.com/Bilal-Waleed/Ai-Tutor-Platform"
	openRouterAppTitle = "AI Tutor"
)

// openRouterModels maps the friendly names used elsewhere in the tutor to
// OpenRouter's vendor-prefixed model IDs, so one config value can move
// between a direct vendor key and OpenRouter.
var openRouterModels = map[string]string{
	"gemini-exp":   "google/gemini-2.0-flash-exp",
	"gemini-flash": "google/gemini-2.0-flash-001",
	"claude-haiku": "anthropic/claude-3.5-haiku",
	"gpt-4o-mini":  "openai/gpt-4o-mini",
	"gpt-4o":       "openai/gpt-4o",
}

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter's
// OpenAI-compatible endpoint. Every request carries the app attribution
// headers.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	httpClient := &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}
	inner := newOpenAICompatible(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	}, openRouterModels, httpClient)

	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// attributionTransport sets the OpenRouter app headers on each request.
type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("HTTP-Referer", openRouterAppURL)
	req.Header.Set("X-Title", openRouterAppTitle)
	return t.base.RoundTrip(req)
}
