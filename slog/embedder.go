package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/techdoc"
)

// Ensure LoggingEmbedder implements techdoc.Embedder.
var _ techdoc.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with debug logging.
type LoggingEmbedder struct {
	next   techdoc.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next techdoc.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Encode delegates to the wrapped embedder and logs the call.
func (e *LoggingEmbedder) Encode(ctx context.Context, text string) (vec []float32, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("encode",
			"chars", len(text),
			"dims", len(vec),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Encode(ctx, text)
}

// EncodeBatch delegates to the wrapped embedder and logs the call.
func (e *LoggingEmbedder) EncodeBatch(ctx context.Context, texts []string) (vecs [][]float32, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("encode batch",
			"texts", len(texts),
			"count", len(vecs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.EncodeBatch(ctx, texts)
}

// Dimensions delegates to the wrapped embedder.
func (e *LoggingEmbedder) Dimensions() int {
	return e.next.Dimensions()
}
