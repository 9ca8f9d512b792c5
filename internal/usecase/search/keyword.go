package search

import (
	"strings"

	"github.com/seralia/knowsearch/internal/domain"
)

// queryTerms lowercases and whitespace-tokenizes a query, trimming
// surrounding punctuation from each term.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.Trim(f, ".,!?;:'\"-()[]{}"); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// rankKeyword filters and scores documents by case-insensitive term matching
// over title, content, and tags. The score is the fraction of query terms the
// document matches, so it stays in (0, 1]. Only matching documents are
// returned, ordered with the same tie-break as semantic ranking.
func rankKeyword(query string, docs []domain.Document, limit int) []scoredDoc {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil
	}

	ranked := make([]scoredDoc, 0, len(docs))
	for _, doc := range docs {
		matched := 0
		for _, term := range terms {
			if docContainsTerm(&doc, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		ranked = append(ranked, scoredDoc{
			doc:   doc,
			score: float64(matched) / float64(len(terms)),
		})
	}

	sortScored(ranked)

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func docContainsTerm(doc *domain.Document, term string) bool {
	if strings.Contains(strings.ToLower(doc.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(doc.Content), term) {
		return true
	}
	for _, tag := range doc.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
