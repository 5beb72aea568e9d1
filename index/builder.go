// Package index builds and maintains the document index: it turns files
// into stored, embedded documents and prunes documents that configuration
// no longer admits.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/techdoc"
	"github.com/google/uuid"
)

// Outcome describes what happened to a single file.
type Outcome string

// Build outcomes.
const (
	OutcomeNew       Outcome = "new"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeSkipped   Outcome = "skipped"
)

// Request is one batch of files to index.
type Request struct {
	Files []string

	// Category labels every file, normalised to its stored spelling.
	// Empty detects the category per file.
	Category string

	// MaxTextLength caps the runes sent to the embedder. Zero means
	// techdoc.DefaultMaxEmbedTextLength. The stored text is never cut.
	MaxTextLength int

	// Reembed embeds every accepted file even when a current embedding is
	// stored.
	Reembed bool
}

// Result counts file outcomes. Unchanged is the subset of Updated whose
// stored embedding was reused.
type Result struct {
	New       int `json:"new"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Unchanged int `json:"unchanged"`
}

// Event reports the outcome of one file.
type Event struct {
	Index   int // 1-based position in Request.Files
	Total   int
	Path    string
	Outcome Outcome
	Reason  string // set for skipped files
}

// ProgressFunc receives one event per processed file.
type ProgressFunc func(Event)

// Builder indexes files one at a time. A failure on one file never aborts
// the batch.
type Builder struct {
	Documents techdoc.DocumentService
	Embedder  techdoc.Embedder
	Extractor techdoc.TextExtractor
	Policy    *techdoc.ContentPolicy
	Paths     techdoc.PathMapper
	Logger    *slog.Logger

	// Model identifies the embedder, such as "gemini/gemini-embedding-001".
	// Stored embeddings are reused only when they were produced by the same
	// model with the same MaxTextLength.
	Model string
}

// Build processes req.Files in order. Only context cancellation ends the
// batch early; the partial result is returned with the context error.
func (b *Builder) Build(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	logger := b.logger().With("run", uuid.NewString())
	maxLen := req.MaxTextLength
	if maxLen <= 0 {
		maxLen = techdoc.DefaultMaxEmbedTextLength
	}

	category := techdoc.NormalizeCategory(req.Category)
	key := EmbeddingKey(b.Model, maxLen)
	logger.Info("build started", "files", len(req.Files), "category", category)

	res := &Result{}
	for i, path := range req.Files {
		if err := ctx.Err(); err != nil {
			logger.Warn("build canceled", "processed", i, "err", err)
			return res, err
		}

		outcome, reason := b.indexFile(ctx, logger, path, category, key, maxLen, req.Reembed)
		if outcome == OutcomeSkipped && ctx.Err() != nil {
			logger.Warn("build canceled", "processed", i, "err", ctx.Err())
			return res, ctx.Err()
		}

		switch outcome {
		case OutcomeNew:
			res.New++
		case OutcomeUpdated:
			res.Updated++
		case OutcomeUnchanged:
			res.Updated++
			res.Unchanged++
		case OutcomeSkipped:
			res.Skipped++
		}

		if progress != nil {
			progress(Event{
				Index:   i + 1,
				Total:   len(req.Files),
				Path:    path,
				Outcome: outcome,
				Reason:  reason,
			})
		}
	}

	logger.Info("build finished",
		"new", res.New,
		"updated", res.Updated,
		"unchanged", res.Unchanged,
		"skipped", res.Skipped,
	)
	return res, nil
}

func (b *Builder) indexFile(ctx context.Context, logger *slog.Logger, path, category, key string, maxLen int, reembed bool) (Outcome, string) {
	text, err := b.Extractor.Extract(path)
	if err != nil {
		logger.Warn("extraction failed", "path", path, "err", err)
		return OutcomeSkipped, "extraction failed"
	}
	if strings.TrimSpace(text) == "" {
		logger.Debug("empty text", "path", path)
		return OutcomeSkipped, "empty"
	}
	if b.Policy != nil && !b.Policy.IsMeaningfulFor(path, text) {
		logger.Debug("not meaningful", "path", path, "chars", utf8.RuneCountInString(text))
		return OutcomeSkipped, "not meaningful"
	}

	if category == "" {
		category = b.Paths.DetectCategory(path)
	}

	existed := true
	if _, err := b.Documents.FindDocumentByPath(ctx, path); techdoc.ErrorCode(err) == techdoc.ENOTFOUND {
		existed = false
	} else if err != nil {
		logger.Warn("lookup failed", "path", path, "err", err)
		return OutcomeSkipped, "lookup failed"
	}

	doc := &techdoc.Document{
		Path:     path,
		Text:     text,
		Category: category,
	}
	if url := b.Paths.PathToURL(path); url != path {
		doc.URL = url
	}
	if err := b.Documents.SaveDocument(ctx, doc); err != nil {
		logger.Warn("save failed", "path", path, "err", err)
		return OutcomeSkipped, "save failed"
	}

	if doc.HasEmbedding && doc.EmbeddingModel == key && !reembed {
		logger.Debug("embedding reused", "path", path, "id", doc.ID)
		return OutcomeUnchanged, ""
	}

	vec, err := b.Embedder.Encode(ctx, Truncate(text, maxLen))
	if err != nil {
		logger.Warn("embedding failed", "path", path, "err", err)
		return OutcomeSkipped, "embedding failed"
	}
	if err := b.Documents.SaveEmbedding(ctx, doc.ID, vec, key); err != nil {
		logger.Warn("save embedding failed", "path", path, "err", err)
		return OutcomeSkipped, "save embedding failed"
	}

	logger.Debug("indexed", "path", path, "id", doc.ID, "category", category, "new", !existed)
	if existed {
		return OutcomeUpdated, ""
	}
	return OutcomeNew, ""
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// EmbeddingKey identifies embeddings produced by model from text cut to
// maxLen runes.
func EmbeddingKey(model string, maxLen int) string {
	return fmt.Sprintf("%s@%d", model, maxLen)
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
