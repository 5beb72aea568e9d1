package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/techdoc"
)

// Ensure LoggingSearchService implements techdoc.SearchService.
var _ techdoc.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with logging.
type LoggingSearchService struct {
	next   techdoc.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a new LoggingSearchService.
func NewLoggingSearchService(next techdoc.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// Search delegates to the wrapped service and logs the query.
func (s *LoggingSearchService) Search(ctx context.Context, query string, opts techdoc.SearchOptions) (results []techdoc.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query,
			"category", opts.Category,
			"top_k", opts.TopK,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, opts)
}
