// Package search answers similarity queries over the document index.
package search

import (
	"context"
	"strings"

	"github.com/fwojciec/techdoc"
)

// CategoryChecker reports whether a category is configured.
// techdoc.PathResolver satisfies it.
type CategoryChecker interface {
	IsKnownCategory(category string) bool
}

// Ensure Engine implements techdoc.SearchService at compile time.
var _ techdoc.SearchService = (*Engine)(nil)

// Engine encodes a query once and ranks stored documents by L2 distance.
type Engine struct {
	documents  techdoc.DocumentService
	embedder   techdoc.Embedder
	categories CategoryChecker
}

// NewEngine creates an Engine. A nil categories accepts any category.
func NewEngine(documents techdoc.DocumentService, embedder techdoc.Embedder, categories CategoryChecker) *Engine {
	return &Engine{
		documents:  documents,
		embedder:   embedder,
		categories: categories,
	}
}

// Search returns up to opts.TopK documents, most similar first.
func (e *Engine) Search(ctx context.Context, query string, opts techdoc.SearchOptions) ([]techdoc.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, techdoc.Errorf(techdoc.EINVALID, "query required")
	}
	topK := opts.TopK
	if topK == 0 {
		topK = techdoc.DefaultTopK
	}
	if topK < 1 || topK > techdoc.MaxTopK {
		return nil, techdoc.Errorf(techdoc.EINVALID, "top_k must be between 1 and %d, got %d", techdoc.MaxTopK, opts.TopK)
	}
	category := techdoc.NormalizeCategory(opts.Category)
	if category != "" && e.categories != nil && !e.categories.IsKnownCategory(category) {
		return nil, techdoc.Errorf(techdoc.EINVALID, "unknown category %q", opts.Category)
	}

	vec, err := e.embedder.Encode(ctx, query)
	if err != nil {
		return nil, err
	}

	scored, err := e.documents.SearchByVector(ctx, vec, techdoc.VectorSearchOptions{
		Category: category,
		Limit:    topK,
	})
	if err != nil {
		return nil, err
	}

	results := make([]techdoc.SearchResult, 0, len(scored))
	for _, sd := range scored {
		results = append(results, techdoc.NewSearchResult(sd))
	}
	return results, nil
}
