package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/seralia/knowsearch/internal/db"
	"github.com/seralia/knowsearch/internal/domain"
)

// DefaultTTL bounds how long a cached query embedding stays valid.
const DefaultTTL = 24 * time.Hour

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedEmbedder caches embeddings in a key-value store. The cached entry
// records the producing provider so dimensionality checks survive a cache hit.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      store
	keyPrefix  string
	variant    string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. variant identifies the embedding
// configuration (provider, model, dimensions); it is folded into every cache
// key so entries from one configuration are never served to another.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Embedder,
	s store,
	keyPrefix string,
	variant string,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		keyPrefix:  keyPrefix + "emb_cache:",
		variant:    variant,
		ttl:        DefaultTTL,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed returns a cached embedding or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
// Cache miss: full EmbeddingResult from inner.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)

	if res, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return res, nil
	}

	c.incCache("miss")

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	c.putToCache(ctx, key, result)
	return result, nil
}

// HealthCheck delegates to the inner embedder when it supports health checks.
func (c *CachedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("inner health check: %w", err)
		}
	}
	return nil
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedEmbedder) cacheKey(text string) string {
	h := sha256.New()
	h.Write([]byte(c.variant))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return c.keyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedEmbedder) getFromCache(ctx context.Context, key string) (domain.EmbeddingResult, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		return domain.EmbeddingResult{}, false
	}

	res, err := decodeEntry(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached embedding", zap.String("key", key), zap.Error(err))
		return domain.EmbeddingResult{}, false
	}
	return res, true
}

func (c *CachedEmbedder) putToCache(ctx context.Context, key string, res domain.EmbeddingResult) {
	if err := c.store.SetWithTTL(ctx, key, encodeEntry(res), c.ttl); err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

// encodeEntry packs provider name (length-prefixed) followed by the vector
// as little-endian float32.
func encodeEntry(res domain.EmbeddingResult) []byte {
	prov := []byte(res.Provider)
	buf := make([]byte, 1+len(prov)+len(res.Embedding)*4)
	buf[0] = byte(len(prov))
	copy(buf[1:], prov)

	off := 1 + len(prov)
	for i, f := range res.Embedding {
		binary.LittleEndian.PutUint32(buf[off+i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeEntry(data []byte) (domain.EmbeddingResult, error) {
	if len(data) < 1 {
		return domain.EmbeddingResult{}, fmt.Errorf("empty cache entry")
	}
	provLen := int(data[0])
	if len(data) < 1+provLen {
		return domain.EmbeddingResult{}, fmt.Errorf("truncated cache entry: len=%d", len(data))
	}
	provider := string(data[1 : 1+provLen])

	vecData := data[1+provLen:]
	if len(vecData)%4 != 0 {
		return domain.EmbeddingResult{}, fmt.Errorf("invalid embedding cache data: len=%d (not multiple of 4)", len(vecData))
	}
	vec := make([]float32, len(vecData)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(vecData[i*4:]))
	}
	if len(vec) == 0 {
		return domain.EmbeddingResult{}, fmt.Errorf("empty cached vector")
	}

	return domain.EmbeddingResult{Embedding: vec, Provider: provider}, nil
}
