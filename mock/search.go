package mock

import (
	"context"

	"github.com/fwojciec/techdoc"
)

var _ techdoc.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of techdoc.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts techdoc.SearchOptions) ([]techdoc.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts techdoc.SearchOptions) ([]techdoc.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}
