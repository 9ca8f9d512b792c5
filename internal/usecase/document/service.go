package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seralia/knowsearch/internal/domain"
)

// MaxContentLength caps stored document bodies.
const MaxContentLength = 1 << 20 // 1 MiB

// Service handles document lifecycle: validation, embedding, and storage.
// Embedding failures never block a write; the document is stored without a
// vector and stays reachable through keyword search.
type Service struct {
	repo   Repository
	embed  Embedder
	logger *zap.Logger
}

// New creates a document service.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	return &Service{repo: repo, embed: embed, logger: logger}
}

// Upsert validates and stores a document, embedding its content first. When
// every embedding provider is down the document is stored vectorless and the
// degradation is logged. The returned flag reports whether the write created
// a new document.
func (s *Service) Upsert(ctx context.Context, doc *domain.Document) (bool, error) {
	if err := validate(doc); err != nil {
		return false, err
	}

	doc.CreatedAt = doc.CreatedAt.UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	res, err := s.embed.Embed(ctx, embeddingInput(doc))
	switch {
	case err == nil:
		doc.Vector = res.Embedding
		doc.Provider = res.Provider
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		s.logger.Warn("Storing document without embedding",
			zap.String("document_id", doc.ID),
			zap.Error(err),
		)
		doc.Vector = nil
		doc.Provider = ""
	default:
		return false, fmt.Errorf("embed document %s: %w", doc.ID, err)
	}

	created, err := s.repo.Put(ctx, doc)
	if err != nil {
		return false, fmt.Errorf("store document %s: %w", doc.ID, err)
	}

	s.logger.Debug("Document stored",
		zap.String("document_id", doc.ID),
		zap.Bool("created", created),
		zap.Bool("embedded", doc.HasEmbedding()),
	)
	return created, nil
}

// Get returns a stored document by ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Document, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Document{}, fmt.Errorf("document id is required")
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a stored document by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("document id is required")
	}
	return s.repo.Delete(ctx, id)
}

// List returns all stored documents.
func (s *Service) List(ctx context.Context) ([]domain.Document, error) {
	return s.repo.List(ctx)
}

func validate(doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("document is required")
	}
	if strings.TrimSpace(doc.ID) == "" {
		return fmt.Errorf("document id is required")
	}
	if strings.TrimSpace(doc.Content) == "" {
		return fmt.Errorf("document content is required")
	}
	if len(doc.Content) > MaxContentLength {
		return fmt.Errorf("document content exceeds %d bytes", MaxContentLength)
	}
	return nil
}

// embeddingInput builds the text sent to the embedder. Title context helps
// short documents rank sensibly.
func embeddingInput(doc *domain.Document) string {
	if doc.Title == "" {
		return doc.Content
	}
	return doc.Title + "\n\n" + doc.Content
}
