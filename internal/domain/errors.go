package domain

import "errors"

var (
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrRateLimited signals a rate limit hit at the embedding provider.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderUnavailable signals a single embedding provider failure;
	// the fallback chain tries the next provider.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
	// ErrEmbeddingUnavailable signals that every embedding provider failed;
	// search degrades to keyword mode.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrSearchUnavailable signals that the document store is unreachable.
	// Fatal to the request.
	ErrSearchUnavailable = errors.New("search unavailable")
)
