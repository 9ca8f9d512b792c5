package search

import (
	"context"

	"github.com/seralia/knowsearch/internal/domain"
)

// Repository defines the storage contract for search operations. Both reads
// return a snapshot sufficient for one ranking pass.
type Repository interface {
	// Get returns a single document by ID, or domain.ErrDocumentNotFound.
	Get(ctx context.Context, id string) (domain.Document, error)
	// ListWithEmbeddings returns all documents carrying a stored vector.
	ListWithEmbeddings(ctx context.Context) ([]domain.Document, error)
	// List returns all documents, embedded or not (keyword corpus).
	List(ctx context.Context) ([]domain.Document, error)
}

// Embedder vectorizes query text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
