package techdoc

import "context"

// Search limits shared by every SearchService implementation.
const (
	DefaultTopK = 5
	MaxTopK     = 10
)

// SearchService provides semantic search over indexed documents.
type SearchService interface {
	// Search encodes the query and returns documents ordered by relevance,
	// most similar first. Returns EINVALID for an empty query, an unknown
	// category or a TopK outside 1..MaxTopK.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Category restricts results to one category. Empty searches all.
	Category string `json:"category,omitempty"`

	// TopK is the maximum number of results. Zero means DefaultTopK.
	TopK int `json:"topK,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	Path     string `json:"path"`
	URL      string `json:"url"`
	Category string `json:"category"`
	Content  string `json:"content"`

	// Score is the L2 distance to the query; lower is more similar.
	Score float64 `json:"score"`
}

// NewSearchResult projects a scored document into a SearchResult.
func NewSearchResult(sd ScoredDocument) SearchResult {
	return SearchResult{
		Path:     sd.Document.Path,
		URL:      sd.Document.URL,
		Category: sd.Document.Category,
		Content:  sd.Document.Text,
		Score:    sd.Score,
	}
}
