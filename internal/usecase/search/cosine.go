package search

import (
	"math"
	"sort"

	"github.com/seralia/knowsearch/internal/domain"
)

// scoreEpsilon absorbs floating-point noise when comparing scores; candidates
// within epsilon of each other tie and fall through to the recency tie-break.
const scoreEpsilon = 1e-9

type scoredDoc struct {
	doc   domain.Document
	score float64
}

// cosineSimilarity computes the cosine of the angle between two equal-length
// vectors. A zero-magnitude vector yields 0.0 rather than a division error.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// rankCosine scores every candidate against the query vector and returns the
// top limit entries in descending score order. Candidates whose stored vector
// comes from a different provider or has a different dimensionality are
// excluded before scoring and counted in skipped. Negative similarities are
// clamped to 0 so scores stay in [0, 1].
//
// All candidates are scored before truncation; there is no early exit.
func rankCosine(query []float32, provider string, candidates []domain.Document, limit int) (ranked []scoredDoc, skipped int) {
	ranked = make([]scoredDoc, 0, len(candidates))

	for _, doc := range candidates {
		if !compatible(query, provider, &doc) {
			skipped++
			continue
		}
		score := cosineSimilarity(query, doc.Vector)
		if score < 0 {
			score = 0
		}
		ranked = append(ranked, scoredDoc{doc: doc, score: score})
	}

	sortScored(ranked)

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, skipped
}

// compatible gates dimensionality compatibility: same vector length, and the
// same producing provider when both sides record one.
func compatible(query []float32, provider string, doc *domain.Document) bool {
	if len(doc.Vector) != len(query) {
		return false
	}
	if provider != "" && doc.Provider != "" && doc.Provider != provider {
		return false
	}
	return true
}

// sortScored orders by score descending; ties within scoreEpsilon break by
// newer CreatedAt, then by ID so repeated calls produce identical ordering.
func sortScored(docs []scoredDoc) {
	sort.Slice(docs, func(i, j int) bool {
		di, dj := docs[i], docs[j]
		if math.Abs(di.score-dj.score) > scoreEpsilon {
			return di.score > dj.score
		}
		if !di.doc.CreatedAt.Equal(dj.doc.CreatedAt) {
			return di.doc.CreatedAt.After(dj.doc.CreatedAt)
		}
		return di.doc.ID < dj.doc.ID
	})
}
