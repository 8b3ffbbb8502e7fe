package llm

import "context"

type Provider interface {
	// Generate returns the complete model response for prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}
