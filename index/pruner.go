package index

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fwojciec/techdoc"
)

const prunePageSize = 500

// Pruner applies the current path configuration to documents that were
// indexed under an older one.
type Pruner struct {
	Documents techdoc.DocumentService
	Paths     *techdoc.PathResolver
	Logger    *slog.Logger
}

// PruneDisallowedDomains deletes documents whose host is blocklisted and
// returns the number removed.
func (p *Pruner) PruneDisallowedDomains(ctx context.Context) (int, error) {
	return p.pruneWhere(ctx, "blocked domain", func(doc *techdoc.Document) bool {
		return !p.Paths.IsAllowedDomain(doc.Path)
	})
}

// PruneSkipFiles deletes documents whose file name or path matches a skip
// pattern and returns the number removed.
func (p *Pruner) PruneSkipFiles(ctx context.Context) (int, error) {
	return p.pruneWhere(ctx, "skip pattern", func(doc *techdoc.Document) bool {
		return p.Paths.ShouldSkip(filepath.Base(doc.Path), doc.Path)
	})
}

func (p *Pruner) pruneWhere(ctx context.Context, reason string, match func(*techdoc.Document) bool) (int, error) {
	var ids []int64
	err := p.each(ctx, techdoc.DocumentFilter{}, func(doc *techdoc.Document) error {
		if match(doc) {
			ids = append(ids, doc.ID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	n, err := p.Documents.DeleteDocuments(ctx, ids)
	if err != nil {
		return 0, err
	}
	p.logger().Info("pruned documents", "reason", reason, "count", n)
	return n, nil
}

// BackfillURLs sets the URL of documents stored without one, where the path
// maps to a URL. It returns the number of documents updated.
func (p *Pruner) BackfillURLs(ctx context.Context) (int, error) {
	var docs []*techdoc.Document
	err := p.each(ctx, techdoc.DocumentFilter{MissingURL: true}, func(doc *techdoc.Document) error {
		if url := p.Paths.PathToURL(doc.Path); url != doc.Path {
			doc.URL = url
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	var n int
	for _, doc := range docs {
		if err := p.Documents.SaveDocument(ctx, doc); err != nil {
			return n, err
		}
		n++
	}
	if n > 0 {
		p.logger().Info("backfilled URLs", "count", n)
	}
	return n, nil
}

// each pages through the documents matching filter. Matching documents are
// collected before any change is written, so fn never sees a shifting page.
func (p *Pruner) each(ctx context.Context, filter techdoc.DocumentFilter, fn func(*techdoc.Document) error) error {
	filter.Limit = prunePageSize
	for offset := 0; ; offset += prunePageSize {
		filter.Offset = offset
		docs, err := p.Documents.FindDocuments(ctx, filter)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := fn(doc); err != nil {
				return err
			}
		}
		if len(docs) < prunePageSize {
			return nil
		}
	}
}

func (p *Pruner) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}
