package adapter

import "context"

// LLM is a single-shot prompt-in/text-out completion client. Both the
// Claude and Gemini adapters satisfy it; the provider is selected by
// configuration.
type LLM interface {
	Generate(ctx context.Context, prompt string, maxTokens int64) (string, error)
}
