// Package local provides an in-process fallback embedding provider.
//
// The embedder hashes tokens into a fixed-size feature vector and normalizes
// the result. It is not a semantic model: its job is to keep search alive,
// deterministically, when the remote provider is down or unconfigured.
// Vectors it produces use their own dimensionality and are only ever compared
// against other locally produced vectors.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/seralia/knowsearch/internal/domain"
)

// Provider is the name recorded on vectors produced by this embedder.
const Provider = "local"

// DefaultDimensions is the default vector size for the hashed embedder.
const DefaultDimensions = 384

// Embedder computes hashed bag-of-words embeddings.
type Embedder struct {
	dimensions int
}

// NewEmbedder creates a local hashed-token embedder.
func NewEmbedder(dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Embedder{dimensions: dimensions}
}

// Dimensions returns the vector size this embedder produces.
func (e *Embedder) Dimensions() int { return e.dimensions }

// Embed implements domain.Embedder. The same text always maps to the same
// vector; texts sharing tokens land near each other.
func (e *Embedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec := make([]float32, e.dimensions)

	for _, token := range tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(token))
		sum := h.Sum64()

		idx := int(sum % uint64(e.dimensions))
		// A second bit of the hash picks the sign so collisions partially cancel.
		sign := float32(1)
		if (sum>>63)&1 == 1 {
			sign = -1
		}
		vec[idx] += sign
	}

	normalize(vec)

	return domain.EmbeddingResult{
		Embedding: vec,
		Provider:  Provider,
	}, nil
}

// tokenize lowercases and splits on non-letter/non-digit runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// normalize scales the vector to unit length. A zero vector stays zero.
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
