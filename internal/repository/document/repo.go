package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/seralia/knowsearch/internal/db"
	"github.com/seralia/knowsearch/internal/domain"
)

// store is the consumer interface for documents (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo stores documents as JSON values with a set-based ID index.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a document repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Put creates or updates a document. The returned flag reports whether the
// write created a new document rather than replacing an existing one.
func (r *Repo) Put(ctx context.Context, doc *domain.Document) (created bool, err error) {
	data, err := json.Marshal(toDTO(doc))
	if err != nil {
		return false, fmt.Errorf("marshal document %s: %w", doc.ID, err)
	}

	key := r.docKey(doc.ID)
	existed, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return false, fmt.Errorf("set %s: %w", key, err)
	}
	if err := r.store.SAdd(ctx, r.indexKey(), doc.ID); err != nil {
		return false, fmt.Errorf("index %s: %w", doc.ID, err)
	}
	return !existed, nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Document, error) {
	key := r.docKey(id)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Document{}, domain.ErrDocumentNotFound
		}
		return domain.Document{}, fmt.Errorf("get %s: %w", key, err)
	}

	var dto docDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return fromDTO(id, &dto)
}

// Delete removes a document. Deleting a missing document is not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.docKey(id)); err != nil {
		return fmt.Errorf("del %s: %w", id, err)
	}
	if err := r.store.SRem(ctx, r.indexKey(), id); err != nil {
		return fmt.Errorf("unindex %s: %w", id, err)
	}
	return nil
}

// List returns all documents.
func (r *Repo) List(ctx context.Context) ([]domain.Document, error) {
	ids, err := r.store.SMembers(ctx, r.indexKey())
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}

	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrDocumentNotFound) {
				// Index entry outlived the document; skip.
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ListWithEmbeddings returns all documents that carry a stored vector.
func (r *Repo) ListWithEmbeddings(ctx context.Context) ([]domain.Document, error) {
	docs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	embedded := docs[:0]
	for _, d := range docs {
		if d.HasEmbedding() {
			embedded = append(embedded, d)
		}
	}
	return embedded, nil
}

func (r *Repo) docKey(id string) string {
	return r.keyPrefix + "doc:" + id
}

func (r *Repo) indexKey() string {
	return r.keyPrefix + "docs"
}
