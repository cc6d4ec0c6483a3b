package driven

import "context"

// LLMService provides text generation for fix suggestions.
// This is an optional service - when nil, suggestions are disabled.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (GPT-4o and compatible servers)
//   - Anthropic (Claude)
type LLMService interface {
	ModelCatalog

	// Generate produces a single, non-streamed completion for a prompt.
	// Implementations make exactly one attempt; retries belong to the caller.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// System is an optional system instruction sent with the prompt.
	System string

	// MaxTokens is the maximum number of tokens to generate. Zero uses the backend default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
