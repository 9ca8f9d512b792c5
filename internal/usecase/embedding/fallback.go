package embedding

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seralia/knowsearch/internal/domain"
	"github.com/seralia/knowsearch/internal/metrics"
)

// Provider pairs an embedder with its name for logging and metrics.
type Provider struct {
	Name     string
	Embedder domain.Embedder
}

// FallbackEmbedder tries providers in strict order and returns the first
// successful result. Provider failures are recoverable; only when every
// provider fails does Embed return domain.ErrEmbeddingUnavailable.
type FallbackEmbedder struct {
	providers []Provider
	logger    *zap.Logger
}

// NewFallbackEmbedder creates a fallback chain. Order matters: the first
// provider is primary.
func NewFallbackEmbedder(logger *zap.Logger, providers ...Provider) *FallbackEmbedder {
	return &FallbackEmbedder{providers: providers, logger: logger}
}

// Embed tries each provider in order.
func (f *FallbackEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if len(f.providers) == 0 {
		return domain.EmbeddingResult{}, fmt.Errorf("no providers configured: %w", domain.ErrEmbeddingUnavailable)
	}

	var lastErr error
	for i, p := range f.providers {
		result, err := p.Embedder.Embed(ctx, text)
		if err == nil {
			if result.Provider == "" {
				result.Provider = p.Name
			}
			return result, nil
		}

		lastErr = err
		f.logger.Warn("Embedding provider failed",
			zap.String("provider", p.Name),
			zap.Error(err),
		)
		if i+1 < len(f.providers) {
			metrics.EmbeddingFallbackTotal.WithLabelValues(p.Name, f.providers[i+1].Name).Inc()
		}

		// Give up early if the caller is gone; retrying another provider
		// with a dead context would fail for the wrong reason.
		if ctx.Err() != nil {
			break
		}
	}

	return domain.EmbeddingResult{}, fmt.Errorf("all providers failed: %w: %w", domain.ErrEmbeddingUnavailable, lastErr)
}

// HealthCheck reports the primary provider's availability.
func (f *FallbackEmbedder) HealthCheck(ctx context.Context) error {
	if len(f.providers) == 0 {
		return fmt.Errorf("no providers configured")
	}
	if hc, ok := f.providers[0].Embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("provider %s: %w", f.providers[0].Name, err)
		}
	}
	return nil
}
