package embedding

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/seralia/knowsearch/internal/domain"
	"github.com/seralia/knowsearch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

type stubEmbedder struct {
	result domain.EmbeddingResult
	err    error
	called bool
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	s.called = true
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	return s.result, nil
}

func TestFallback_PrimarySucceeds(t *testing.T) {
	primary := &stubEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 2}, Provider: "openai"}}
	secondary := &stubEmbedder{result: domain.EmbeddingResult{Embedding: []float32{3}, Provider: "local"}}

	chain := NewFallbackEmbedder(zap.NewNop(),
		Provider{Name: "openai", Embedder: primary},
		Provider{Name: "local", Embedder: secondary},
	)

	res, err := chain.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Provider != "openai" {
		t.Errorf("expected openai result, got %q", res.Provider)
	}
	if secondary.called {
		t.Error("secondary should not be called when primary succeeds")
	}
}

func TestFallback_PrimaryFailsSecondaryServes(t *testing.T) {
	primary := &stubEmbedder{err: domain.ErrProviderUnavailable}
	secondary := &stubEmbedder{result: domain.EmbeddingResult{Embedding: []float32{3}, Provider: "local"}}

	chain := NewFallbackEmbedder(zap.NewNop(),
		Provider{Name: "openai", Embedder: primary},
		Provider{Name: "local", Embedder: secondary},
	)

	res, err := chain.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Provider != "local" {
		t.Errorf("expected local result, got %q", res.Provider)
	}
	if !primary.called {
		t.Error("primary should be tried first")
	}
}

func TestFallback_AllFail(t *testing.T) {
	chain := NewFallbackEmbedder(zap.NewNop(),
		Provider{Name: "openai", Embedder: &stubEmbedder{err: domain.ErrProviderUnavailable}},
		Provider{Name: "local", Embedder: &stubEmbedder{err: errors.New("model load failed")}},
	)

	_, err := chain.Embed(context.Background(), "query")
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
	}
}

func TestFallback_NoProviders(t *testing.T) {
	chain := NewFallbackEmbedder(zap.NewNop())

	_, err := chain.Embed(context.Background(), "query")
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
	}
}

func TestFallback_FillsProviderName(t *testing.T) {
	inner := &stubEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	chain := NewFallbackEmbedder(zap.NewNop(), Provider{Name: "openai", Embedder: inner})

	res, err := chain.Embed(context.Background(), "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Provider != "openai" {
		t.Errorf("expected provider name filled from chain, got %q", res.Provider)
	}
}
