package search

import (
	"testing"
	"time"

	"github.com/seralia/knowsearch/internal/domain"
)

func TestQueryTerms(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"Project Timeline", []string{"project", "timeline"}},
		{"  what's   the plan?  ", []string{"what's", "the", "plan"}},
		{"(roadmap)", []string{"roadmap"}},
		{"... !!", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := queryTerms(tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("queryTerms(%q) = %v, want %v", tt.query, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("queryTerms(%q)[%d] = %q, want %q", tt.query, i, got[i], tt.want[i])
			}
		}
	}
}

func TestRankKeyword_MatchesAcrossFields(t *testing.T) {
	now := time.Now()
	docs := []domain.Document{
		{ID: "title", Title: "Release Timeline", Content: "nothing relevant", CreatedAt: now},
		{ID: "content", Title: "Notes", Content: "the timeline slipped by a week", CreatedAt: now},
		{ID: "tag", Title: "Plan", Content: "quarterly goals", Tags: []string{"timeline", "q3"}, CreatedAt: now},
		{ID: "miss", Title: "Recipes", Content: "flour and water", CreatedAt: now},
	}

	ranked := rankKeyword("timeline", docs, 0)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(ranked))
	}
	for _, sd := range ranked {
		if sd.doc.ID == "miss" {
			t.Error("non-matching document was returned")
		}
		if sd.score != 1.0 {
			t.Errorf("doc %s: score = %f, want 1.0 for full term match", sd.doc.ID, sd.score)
		}
	}
}

func TestRankKeyword_PartialMatchScoresLower(t *testing.T) {
	now := time.Now()
	docs := []domain.Document{
		{ID: "both", Title: "project timeline", Content: "", CreatedAt: now},
		{ID: "one", Title: "project notes", Content: "", CreatedAt: now},
	}

	ranked := rankKeyword("project timeline", docs, 0)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(ranked))
	}
	if ranked[0].doc.ID != "both" || ranked[0].score != 1.0 {
		t.Errorf("rank 1: got %s score=%f, want both score=1.0", ranked[0].doc.ID, ranked[0].score)
	}
	if ranked[1].doc.ID != "one" || ranked[1].score != 0.5 {
		t.Errorf("rank 2: got %s score=%f, want one score=0.5", ranked[1].doc.ID, ranked[1].score)
	}
}

func TestRankKeyword_CaseInsensitive(t *testing.T) {
	docs := []domain.Document{
		{ID: "d", Title: "TIMELINE Review", Content: ""},
	}
	if got := rankKeyword("Timeline", docs, 0); len(got) != 1 {
		t.Fatalf("expected case-insensitive match, got %d results", len(got))
	}
}

func TestRankKeyword_EmptyQuery(t *testing.T) {
	docs := []domain.Document{{ID: "d", Title: "anything"}}
	if got := rankKeyword("  ?! ", docs, 0); got != nil {
		t.Fatalf("expected nil for punctuation-only query, got %v", got)
	}
}

func TestRankKeyword_Limit(t *testing.T) {
	docs := []domain.Document{
		{ID: "a", Title: "go"},
		{ID: "b", Title: "go"},
		{ID: "c", Title: "go"},
	}
	if got := rankKeyword("go", docs, 2); len(got) != 2 {
		t.Fatalf("expected limit applied, got %d", len(got))
	}
}
