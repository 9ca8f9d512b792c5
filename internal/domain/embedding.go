package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector, the name of the provider that
// produced it, and token usage through the decorator chain. Provider is what
// makes stored vectors comparable: only vectors from the same provider share
// a dimensionality.
type EmbeddingResult struct {
	Embedding    []float32
	Provider     string
	PromptTokens int
	TotalTokens  int
}
