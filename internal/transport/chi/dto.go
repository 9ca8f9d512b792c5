package chi

import (
	"time"

	"github.com/seralia/knowsearch/internal/domain"
	"github.com/seralia/knowsearch/internal/domain/search/result"
)

// ErrorCode identifies an error class in API responses.
type ErrorCode string

const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeDocumentNotFound  ErrorCode = "document_not_found"
	CodeRateLimited       ErrorCode = "rate_limited"
	CodeSearchUnavailable ErrorCode = "search_unavailable"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// UpsertDocumentRequest is the PUT /v1/documents/{id} payload.
type UpsertDocumentRequest struct {
	Title     string     `json:"title,omitempty"`
	Content   string     `json:"content"`
	FileType  string     `json:"file_type,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Summary   string     `json:"summary,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// DocumentResponse is the stored-document payload. Vectors stay internal.
type DocumentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	FileType  string    `json:"file_type,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Embedded  bool      `json:"embedded"`
}

// DocumentListResponse is the GET /v1/documents payload.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Total int                `json:"total"`
}

// SearchResultItem is one ranked hit.
type SearchResultItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title,omitempty"`
	Score    float64  `json:"score"`
	Snippet  string   `json:"snippet"`
	Rank     int      `json:"rank"`
	FileType string   `json:"file_type,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// SearchResponse is the GET /v1/search payload. Mode reports the mode that
// actually ran; degraded marks a semantic request served by keyword fallback.
// ExecutionTime is wall-clock seconds.
type SearchResponse struct {
	Query         string             `json:"query"`
	Mode          string             `json:"mode"`
	Degraded      bool               `json:"degraded"`
	TotalResults  int                `json:"total_results"`
	ExecutionTime float64            `json:"execution_time"`
	Results       []SearchResultItem `json:"results"`
}

// RelatedResponse is the GET /v1/documents/{id}/related payload.
type RelatedResponse struct {
	DocumentID   string             `json:"document_id"`
	TotalResults int                `json:"total_results"`
	Results      []SearchResultItem `json:"results"`
}

// HealthResponse is the GET /healthz payload.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func documentToDTO(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID,
		Title:     doc.Title,
		Content:   doc.Content,
		FileType:  doc.FileType,
		Tags:      doc.Tags,
		Summary:   doc.Summary,
		CreatedAt: doc.CreatedAt,
		Embedded:  doc.HasEmbedding(),
	}
}

func documentFromUpsert(id string, req UpsertDocumentRequest) domain.Document {
	doc := domain.Document{
		ID:       id,
		Title:    req.Title,
		Content:  req.Content,
		FileType: req.FileType,
		Tags:     req.Tags,
		Summary:  req.Summary,
	}
	if req.CreatedAt != nil {
		doc.CreatedAt = *req.CreatedAt
	}
	return doc
}

func resultsToDTO(results []result.Result) []SearchResultItem {
	items := make([]SearchResultItem, len(results))
	for i := range results {
		r := &results[i]
		doc := r.Document()
		items[i] = SearchResultItem{
			ID:       doc.ID,
			Title:    doc.Title,
			Score:    r.Score(),
			Snippet:  r.Snippet(),
			Rank:     r.Rank(),
			FileType: doc.FileType,
			Tags:     doc.Tags,
		}
	}
	return items
}

func searchResponseToDTO(resp *result.Response) SearchResponse {
	items := resultsToDTO(resp.Results())

	return SearchResponse{
		Query:         resp.Query(),
		Mode:          string(resp.Mode()),
		Degraded:      resp.Degraded(),
		TotalResults:  resp.TotalResults(),
		ExecutionTime: resp.ExecutionTime().Seconds(),
		Results:       items,
	}
}
