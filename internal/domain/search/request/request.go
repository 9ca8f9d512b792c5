package request

import (
	"fmt"

	"github.com/seralia/knowsearch/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 10
	MaxLimit       = 100
)

// Limits bounds result-set sizes, usually from configuration. Zero fields
// fall back to the package defaults, so the zero value is usable.
type Limits struct {
	Default int
	Max     int
}

func (l Limits) defaultLimit() int {
	if l.Default > 0 {
		return l.Default
	}
	return DefaultLimit
}

func (l Limits) maxLimit() int {
	if l.Max > 0 {
		return l.Max
	}
	return MaxLimit
}

// Request is a validated search query.
type Request struct {
	query      string
	searchMode mode.Mode
	limit      int
}

// New validates and normalizes search parameters.
// Defaults: mode=semantic, limit=limits.Default. Limit is clamped to limits.Max.
func New(query string, m mode.Mode, limit int, limits Limits) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if m == "" {
		m = mode.Semantic
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid search mode: %q", m)
	}
	if limit <= 0 {
		limit = limits.defaultLimit()
	}
	if max := limits.maxLimit(); limit > max {
		limit = max
	}

	return Request{
		query:      query,
		searchMode: m,
		limit:      limit,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Mode returns the search strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }
