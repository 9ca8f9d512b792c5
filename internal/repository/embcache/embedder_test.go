package embcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seralia/knowsearch/internal/db"
	"github.com/seralia/knowsearch/internal/domain"
)

type fakeKV struct {
	data map[string][]byte
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.data[key] = value
	return nil
}

type countingEmbedder struct {
	calls  int
	result domain.EmbeddingResult
	err    error
}

func (c *countingEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	c.calls++
	if c.err != nil {
		return domain.EmbeddingResult{}, c.err
	}
	return c.result, nil
}

func TestCachedEmbedder_MissThenHit(t *testing.T) {
	inner := &countingEmbedder{
		result: domain.EmbeddingResult{
			Embedding:   []float32{0.5, -0.25, 1.0},
			Provider:    "openai",
			TotalTokens: 12,
		},
	}
	cached := New(inner, newFakeKV(), "test:", "openai:test-model:3", nil, zap.NewNop())

	first, err := cached.Embed(context.Background(), "project timeline")
	if err != nil {
		t.Fatalf("first Embed failed: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}

	second, err := cached.Embed(context.Background(), "project timeline")
	if err != nil {
		t.Fatalf("second Embed failed: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected cache hit, inner called %d times", inner.calls)
	}

	if second.Provider != first.Provider {
		t.Errorf("cached provider %q, want %q", second.Provider, first.Provider)
	}
	if len(second.Embedding) != len(first.Embedding) {
		t.Fatalf("cached vector has %d dims, want %d", len(second.Embedding), len(first.Embedding))
	}
	for i := range first.Embedding {
		if second.Embedding[i] != first.Embedding[i] {
			t.Errorf("vec[%d] = %f, want %f", i, second.Embedding[i], first.Embedding[i])
		}
	}
	if second.TotalTokens != 0 {
		t.Errorf("cache hit should report 0 tokens, got %d", second.TotalTokens)
	}
}

func TestCachedEmbedder_DifferentTextsDifferentKeys(t *testing.T) {
	inner := &countingEmbedder{
		result: domain.EmbeddingResult{Embedding: []float32{1}, Provider: "local"},
	}
	cached := New(inner, newFakeKV(), "test:", "openai:test-model:3", nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "alpha"); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if _, err := cached.Embed(context.Background(), "beta"); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 inner calls for distinct texts, got %d", inner.calls)
	}
}

func TestDecodeEntry_Corrupt(t *testing.T) {
	if _, err := decodeEntry(nil); err == nil {
		t.Error("expected error for empty entry")
	}
	if _, err := decodeEntry([]byte{10, 'a'}); err == nil {
		t.Error("expected error for truncated provider")
	}
	if _, err := decodeEntry([]byte{1, 'a', 0x01, 0x02}); err == nil {
		t.Error("expected error for misaligned vector bytes")
	}
}

func TestCachedEmbedder_VariantIsolation(t *testing.T) {
	kv := newFakeKV()
	inner := &countingEmbedder{
		result: domain.EmbeddingResult{Embedding: []float32{1}, Provider: "openai"},
	}

	// Same text, same store, different embedding configuration.
	small := New(inner, kv, "test:", "openai:model-a:256", nil, zap.NewNop())
	large := New(inner, kv, "test:", "openai:model-a:1024", nil, zap.NewNop())

	if _, err := small.Embed(context.Background(), "project timeline"); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if _, err := large.Embed(context.Background(), "project timeline"); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected a miss per configuration, got %d inner calls", inner.calls)
	}
}
