package providers

import "context"

// CompletionProvider defines the interface to the generative text
// completion service. A single failed call is never retried; callers
// fall back to deterministic rules instead.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}
