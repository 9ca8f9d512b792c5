package document

import (
	"context"

	"github.com/seralia/knowsearch/internal/domain"
)

// Repository defines the storage contract for document management.
type Repository interface {
	// Put stores the document and reports whether it created a new entry.
	Put(ctx context.Context, doc *domain.Document) (created bool, err error)
	Get(ctx context.Context, id string) (domain.Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Document, error)
}

// Embedder vectorizes document content for later semantic ranking.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
