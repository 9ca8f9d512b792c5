package result

import (
	"time"

	"github.com/seralia/knowsearch/internal/domain"
	"github.com/seralia/knowsearch/internal/domain/search/mode"
)

// Result is a single search hit: a document with its relevance score,
// extracted snippet, and rank position. Constructed per request, never persisted.
type Result struct {
	document domain.Document
	score    float64
	snippet  string
	rank     int
}

// New creates a search result.
func New(document domain.Document, score float64, snippet string, rank int) Result {
	return Result{document: document, score: score, snippet: snippet, rank: rank}
}

// Document returns the matched document.
func (r *Result) Document() domain.Document { return r.document }

// Score returns the normalized relevance score in [0, 1].
func (r *Result) Score() float64 { return r.score }

// Snippet returns the extracted excerpt.
func (r *Result) Snippet() string { return r.snippet }

// Rank returns the 1-based rank position.
func (r *Result) Rank() int { return r.rank }

// Response is an immutable search response.
type Response struct {
	query         string
	results       []Result
	totalResults  int
	executionTime time.Duration
	searchMode    mode.Mode
	degraded      bool
}

// NewResponse assembles a search response.
// totalResults is the pre-limit candidate count, not len(results).
// degraded marks a semantic request that fell back to keyword mode.
func NewResponse(
	query string, results []Result, totalResults int,
	executionTime time.Duration, m mode.Mode, degraded bool,
) Response {
	return Response{
		query:         query,
		results:       results,
		totalResults:  totalResults,
		executionTime: executionTime,
		searchMode:    m,
		degraded:      degraded,
	}
}

// Query returns the original query string.
func (r *Response) Query() string { return r.query }

// Results returns the ordered results.
func (r *Response) Results() []Result { return r.results }

// TotalResults returns the number of candidates considered before the limit.
func (r *Response) TotalResults() int { return r.totalResults }

// ExecutionTime returns the total wall-clock time of the search.
func (r *Response) ExecutionTime() time.Duration { return r.executionTime }

// Mode returns the mode the search actually executed in.
func (r *Response) Mode() mode.Mode { return r.searchMode }

// Degraded reports whether a semantic request fell back to keyword mode.
func (r *Response) Degraded() bool { return r.degraded }
