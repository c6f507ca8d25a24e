package llm

import "context"

// Provider is the generation capability: text in, text out, fallible.
// Implementations wrap one vendor SDK; decorators add logging and timeouts.
type Provider interface {
	// Generate sends the request to the model and returns its text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt. Optional; the tutor folds its framing
	// into the single user message.
	System string

	// Messages is the conversation. Single-turn generation (the common
	// case) carries one user message.
	Messages []Message

	Params
}

// Params are the sampling parameters of one call.
type Params struct {
	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64

	// TopP is the nucleus sampling mass. Zero leaves the vendor default.
	TopP float64

	// TopK limits sampling to the K most likely tokens. Zero leaves the
	// vendor default; ignored by vendors that do not support it.
	TopK int
}

// Prompt builds a single-turn request from prompt text.
func Prompt(text string, p Params) Request {
	return Request{
		Messages: []Message{{Role: RoleUser, Content: text}},
		Params:   p,
	}
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the model's output.
type Response struct {
	// Text is the raw generated text.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
