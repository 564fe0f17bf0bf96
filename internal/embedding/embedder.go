// Package embedding defines the embedding contract and the available
// backends. The default backend is the local Ollama client; an
// OpenAI-backed embedder can be selected through configuration.
package embedding

import "context"

// Embedder turns text into a fixed-length vector. Implementations
// return an error, never a truncated or empty vector, on any transport
// or decode failure, so callers can treat an error as "skip this item".
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
