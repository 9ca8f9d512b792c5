package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seralia/knowsearch/internal/domain"
	"github.com/seralia/knowsearch/internal/domain/search/mode"
	"github.com/seralia/knowsearch/internal/domain/search/request"
	"github.com/seralia/knowsearch/internal/domain/search/result"
	"github.com/seralia/knowsearch/internal/metrics"
)

// DefaultSnippetLength bounds snippets when no length is configured.
const DefaultSnippetLength = 200

// DefaultRelatedLimit is how many related documents a lookup returns when the
// caller does not ask for a specific count.
const DefaultRelatedLimit = 5

// Service handles document search across semantic and keyword modes.
// A semantic request degrades to keyword mode when no embedding can be
// produced; the response reports the mode that actually ran.
type Service struct {
	repo       Repository
	embed      Embedder
	snippetLen int
	logger     *zap.Logger
}

// New creates a search service.
func New(repo Repository, embed Embedder, snippetLen int, logger *zap.Logger) *Service {
	if snippetLen <= 0 {
		snippetLen = DefaultSnippetLength
	}
	return &Service{repo: repo, embed: embed, snippetLen: snippetLen, logger: logger}
}

// Search executes a search request and assembles the response.
// Only storage failures surface as errors (domain.ErrSearchUnavailable);
// embedding failures degrade, snippet failures yield empty snippets.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Response, error) {
	start := time.Now()

	var (
		ranked   []scoredDoc
		total    int
		ranMode  = req.Mode()
		degraded bool
		err      error
	)

	switch req.Mode() {
	case mode.Semantic:
		ranked, total, degraded, err = s.searchSemantic(ctx, req)
		if degraded {
			ranMode = mode.Keyword
		}
	case mode.Keyword:
		ranked, total, err = s.searchKeyword(ctx, req)
	default:
		err = fmt.Errorf("unsupported search mode: %s", req.Mode())
	}
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(req.Mode()), "error").Inc()
		return result.Response{}, err
	}

	results := s.assemble(req.Query(), ranked)

	elapsed := time.Since(start)
	metrics.SearchRequestsTotal.WithLabelValues(string(ranMode), "success").Inc()
	metrics.SearchDuration.WithLabelValues(string(ranMode)).Observe(elapsed.Seconds())
	if degraded {
		metrics.SearchDegradedTotal.Inc()
	}

	s.logger.Debug("Search completed",
		zap.String("mode", string(ranMode)),
		zap.Bool("degraded", degraded),
		zap.Int("total_results", total),
		zap.Int("returned", len(results)),
		zap.Duration("elapsed", elapsed),
	)

	return result.NewResponse(req.Query(), results, total, elapsed, ranMode, degraded), nil
}

// Related ranks every other embedded document against the stored vector of
// the document with the given ID. A document without an embedding has no
// vector to compare against, so it yields an empty result set rather than an
// error. The source document itself is never part of the ranking.
func (s *Service) Related(ctx context.Context, id string, limit int) ([]result.Result, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.HasEmbedding() {
		return []result.Result{}, nil
	}

	docs, err := s.repo.ListWithEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch candidates: %w", domain.ErrSearchUnavailable, err)
	}

	candidates := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if d.ID != doc.ID {
			candidates = append(candidates, d)
		}
	}

	ranked, skipped := rankCosine(doc.Vector, doc.Provider, candidates, limit)
	if skipped > 0 {
		metrics.SearchCandidatesSkippedTotal.Add(float64(skipped))
		s.logger.Warn("Skipped candidates with incompatible vectors",
			zap.Int("skipped", skipped),
			zap.String("source_provider", doc.Provider),
			zap.Int("source_dimensions", len(doc.Vector)),
		)
	}

	// No query text: snippets fall back to the summary or content prefix.
	return s.assemble("", ranked), nil
}

// searchSemantic embeds the query and ranks stored vectors by cosine
// similarity. When every embedding provider fails it falls back to keyword
// matching for this request and reports degraded=true.
func (s *Service) searchSemantic(ctx context.Context, req *request.Request) (
	ranked []scoredDoc, total int, degraded bool, err error,
) {
	embResult, embErr := s.embed.Embed(ctx, req.Query())
	if embErr != nil {
		s.logger.Warn("Embedding unavailable, degrading to keyword mode",
			zap.String("query", req.Query()),
			zap.Error(embErr),
		)
		ranked, total, err = s.searchKeyword(ctx, req)
		return ranked, total, true, err
	}

	docs, fetchErr := s.repo.ListWithEmbeddings(ctx)
	if fetchErr != nil {
		return nil, 0, false, fmt.Errorf("%w: fetch candidates: %w", domain.ErrSearchUnavailable, fetchErr)
	}

	ranked, skipped := rankCosine(embResult.Embedding, embResult.Provider, docs, req.Limit())
	if skipped > 0 {
		metrics.SearchCandidatesSkippedTotal.Add(float64(skipped))
		s.logger.Warn("Skipped candidates with incompatible vectors",
			zap.Int("skipped", skipped),
			zap.String("query_provider", embResult.Provider),
			zap.Int("query_dimensions", len(embResult.Embedding)),
		)
	}

	return ranked, len(docs) - skipped, false, nil
}

// searchKeyword filters by case-insensitive term matching over title,
// content, and tags.
func (s *Service) searchKeyword(ctx context.Context, req *request.Request) (
	ranked []scoredDoc, total int, err error,
) {
	docs, fetchErr := s.repo.List(ctx)
	if fetchErr != nil {
		return nil, 0, fmt.Errorf("%w: fetch documents: %w", domain.ErrSearchUnavailable, fetchErr)
	}

	// Score everything first so total reflects the pre-limit match count.
	matches := rankKeyword(req.Query(), docs, 0)
	total = len(matches)
	if len(matches) > req.Limit() {
		matches = matches[:req.Limit()]
	}
	return matches, total, nil
}

// assemble builds ranked results with snippets. A snippet failure on one
// document yields an empty snippet, never a failed request.
func (s *Service) assemble(query string, ranked []scoredDoc) []result.Result {
	results := make([]result.Result, len(ranked))
	for i, sd := range ranked {
		snippet, err := extractSnippet(sd.doc.Content, sd.doc.Summary, query, s.snippetLen)
		if err != nil {
			metrics.SearchSnippetFailuresTotal.Inc()
			s.logger.Warn("Snippet extraction failed",
				zap.String("document_id", sd.doc.ID),
				zap.Error(err),
			)
			snippet = ""
		}
		results[i] = result.New(sd.doc, sd.score, snippet, i+1)
	}
	return results
}
