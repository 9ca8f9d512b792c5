package search

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// extractSnippet returns a bounded excerpt of text representing the match.
//
// If any query term occurs in the text (case-insensitive), the snippet is a
// window of maxLen runes centered on the first occurrence, shifted rather
// than shrunk when the match sits near either end. Otherwise the stored
// summary is used when it fits, else the text prefix. The result never
// exceeds maxLen runes and never splits a multi-byte character.
func extractSnippet(text, summary, query string, maxLen int) (string, error) {
	if maxLen <= 0 {
		return "", fmt.Errorf("snippet length must be positive, got %d", maxLen)
	}
	if text == "" {
		return "", nil
	}

	if center, ok := firstTermOccurrence(text, query); ok {
		return window(text, center, maxLen), nil
	}

	if summary != "" && utf8.RuneCountInString(summary) <= maxLen {
		return summary, nil
	}
	return window(text, 0, maxLen), nil
}

// firstTermOccurrence finds the earliest occurrence of any query term in
// text, case-insensitive, and returns its rune offset.
func firstTermOccurrence(text, query string) (int, bool) {
	lower := strings.ToLower(text)

	best := -1
	for _, term := range queryTerms(query) {
		if idx := strings.Index(lower, term); idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	if best < 0 {
		return 0, false
	}
	// ToLower maps rune to rune, so rune offsets in lower match text even
	// when byte offsets drift.
	return utf8.RuneCountInString(lower[:best]), true
}

// window cuts maxLen runes around center, shifting the window to stay inside
// the text so it is always min(maxLen, len) runes long.
func window(text string, center, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	start := center - maxLen/2
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(runes) {
		end = len(runes)
		start = end - maxLen
	}
	return string(runes[start:end])
}
