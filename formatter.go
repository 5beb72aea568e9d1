package techdoc

import (
	"fmt"
	"strings"
)

// DefaultPreviewLength is the number of characters of content shown per
// formatted search result.
const DefaultPreviewLength = 1500

// NoResultsText is returned by FormatResults for an empty result set.
const NoResultsText = "No results found."

// FormatResults formats search results for display or LLM context.
// Content longer than previewLen characters is cut and marked as truncated.
// Results without a URL show their path instead.
func FormatResults(results []SearchResult, previewLen int) string {
	if len(results) == 0 {
		return NoResultsText
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		var b strings.Builder
		fmt.Fprintf(&b, "=== Result %d (Score: %.4f) ===\n", i+1, r.Score)
		fmt.Fprintf(&b, "Category: %s\n", r.Category)
		if r.URL != "" {
			fmt.Fprintf(&b, "URL: %s\n", r.URL)
		}
		fmt.Fprintf(&b, "Path: %s\n\n", r.Path)

		content, truncated := preview(r.Content, previewLen)
		b.WriteString(content)
		b.WriteString("\n")
		if truncated {
			b.WriteString("...(truncated)\n")
		}
		b.WriteString(strings.Repeat("=", 80))
		b.WriteString("\n")
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n")
}

// preview returns the first n runes of s and whether s was cut.
func preview(s string, n int) (string, bool) {
	if n <= 0 {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s, false
	}
	return string(runes[:n]), true
}
