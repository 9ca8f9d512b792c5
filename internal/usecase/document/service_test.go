package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seralia/knowsearch/internal/domain"
)

type fakeRepo struct {
	putDoc     *domain.Document
	putErr     error
	putCreated bool
	getDoc     domain.Document
	getErr     error
	delErr     error
	listOut    []domain.Document
}

func (f *fakeRepo) Put(_ context.Context, doc *domain.Document) (bool, error) {
	f.putDoc = doc
	return f.putCreated, f.putErr
}

func (f *fakeRepo) Get(_ context.Context, _ string) (domain.Document, error) {
	return f.getDoc, f.getErr
}

func (f *fakeRepo) Delete(_ context.Context, _ string) error { return f.delErr }

func (f *fakeRepo) List(_ context.Context) ([]domain.Document, error) { return f.listOut, nil }

type fakeEmbedder struct {
	result domain.EmbeddingResult
	err    error
	input  string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	f.input = text
	return f.result, f.err
}

func TestUpsert_EmbedsAndStores(t *testing.T) {
	repo := &fakeRepo{}
	embed := &fakeEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2},
		Provider:  "openai",
	}}
	svc := New(repo, embed, zap.NewNop())

	doc := &domain.Document{ID: "doc-1", Title: "Notes", Content: "meeting notes"}
	if _, err := svc.Upsert(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.putDoc == nil {
		t.Fatal("document was not stored")
	}
	if !repo.putDoc.HasEmbedding() || repo.putDoc.Provider != "openai" {
		t.Errorf("stored doc missing embedding metadata: %+v", repo.putDoc)
	}
	if repo.putDoc.CreatedAt.IsZero() {
		t.Error("CreatedAt was not defaulted")
	}
	if !strings.Contains(embed.input, "Notes") || !strings.Contains(embed.input, "meeting notes") {
		t.Errorf("embedding input %q should include title and content", embed.input)
	}
}

func TestUpsert_StoresWithoutVectorWhenProvidersDown(t *testing.T) {
	repo := &fakeRepo{}
	embed := &fakeEmbedder{err: domain.ErrEmbeddingUnavailable}
	svc := New(repo, embed, zap.NewNop())

	doc := &domain.Document{ID: "doc-1", Content: "body", Vector: []float32{1}, Provider: "stale"}
	if _, err := svc.Upsert(context.Background(), doc); err != nil {
		t.Fatalf("embedding outage must not block writes: %v", err)
	}

	if repo.putDoc.HasEmbedding() || repo.putDoc.Provider != "" {
		t.Errorf("stale vector should be cleared, got %+v", repo.putDoc)
	}
}

func TestUpsert_UnexpectedEmbedErrorSurfaces(t *testing.T) {
	repo := &fakeRepo{}
	boom := errors.New("boom")
	svc := New(repo, &fakeEmbedder{err: boom}, zap.NewNop())

	_, err := svc.Upsert(context.Background(), &domain.Document{ID: "d", Content: "c"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped embed error, got %v", err)
	}
	if repo.putDoc != nil {
		t.Error("document must not be stored when embedding fails unexpectedly")
	}
}

func TestUpsert_Validation(t *testing.T) {
	svc := New(&fakeRepo{}, &fakeEmbedder{}, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, nil); err == nil {
		t.Error("expected error for nil document")
	}
	if _, err := svc.Upsert(ctx, &domain.Document{Content: "c"}); err == nil {
		t.Error("expected error for missing id")
	}
	if _, err := svc.Upsert(ctx, &domain.Document{ID: "d", Content: "   "}); err == nil {
		t.Error("expected error for blank content")
	}
	big := &domain.Document{ID: "d", Content: strings.Repeat("x", MaxContentLength+1)}
	if _, err := svc.Upsert(ctx, big); err == nil {
		t.Error("expected error for oversized content")
	}
}

func TestGet_PropagatesNotFound(t *testing.T) {
	repo := &fakeRepo{getErr: domain.ErrDocumentNotFound}
	svc := New(repo, &fakeEmbedder{}, zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}

	if _, err := svc.Get(context.Background(), "  "); err == nil {
		t.Error("expected error for blank id")
	}
}

func TestDelete_RequiresID(t *testing.T) {
	svc := New(&fakeRepo{}, &fakeEmbedder{}, zap.NewNop())
	if err := svc.Delete(context.Background(), ""); err == nil {
		t.Error("expected error for blank id")
	}
	if err := svc.Delete(context.Background(), "doc-1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpsert_ReportsCreated(t *testing.T) {
	repo := &fakeRepo{putCreated: true}
	svc := New(repo, &fakeEmbedder{}, zap.NewNop())

	created, err := svc.Upsert(context.Background(), &domain.Document{ID: "d", Content: "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true for a new document")
	}

	repo.putCreated = false
	created, err = svc.Upsert(context.Background(), &domain.Document{ID: "d", Content: "c2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false for an overwrite")
	}
}
