package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/techdoc"
)

// Compile-time interface verification.
var _ techdoc.DocumentService = (*DocumentService)(nil)

// documentColumns lists the columns scanned by scanDocument.
const documentColumns = `d.id, d.path, COALESCE(d.url, ''), COALESCE(d.text, ''), COALESCE(d.category, ''),
	d.content_hash, e.doc_id IS NOT NULL, COALESCE(e.model, '')`

// DocumentService implements techdoc.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*techdoc.Document, error) {
	var doc techdoc.Document
	if err := s.Scan(&doc.ID, &doc.Path, &doc.URL, &doc.Text, &doc.Category,
		&doc.ContentHash, &doc.HasEmbedding, &doc.EmbeddingModel); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SaveDocument inserts a document or updates the one stored under the same
// path. A text change drops the stale embedding in the same transaction.
func (s *DocumentService) SaveDocument(ctx context.Context, doc *techdoc.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	hash := techdoc.HashContent(doc.Text)

	var (
		hasEmbedding bool
		model        string
	)
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var id int64
		var oldHash string
		err := tx.QueryRowContext(ctx, `
			SELECT d.id, d.content_hash, e.doc_id IS NOT NULL, COALESCE(e.model, '')
			FROM documents d LEFT JOIN doc_embeddings e ON e.doc_id = d.id
			WHERE d.path = ?
		`, doc.Path).Scan(&id, &oldHash, &hasEmbedding, &model)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			res, err := tx.ExecContext(ctx, `
				INSERT INTO documents (path, url, text, category, content_hash)
				VALUES (?, ?, ?, ?, ?)
			`, doc.Path, doc.URL, doc.Text, doc.Category, hash)
			if err != nil {
				return fmt.Errorf("failed to insert document: %w", err)
			}
			if id, err = res.LastInsertId(); err != nil {
				return err
			}
			hasEmbedding, model = false, ""
		case err != nil:
			return fmt.Errorf("failed to look up document: %w", err)
		default:
			if _, err := tx.ExecContext(ctx, `
				UPDATE documents SET url = ?, text = ?, category = ?, content_hash = ?
				WHERE id = ?
			`, doc.URL, doc.Text, doc.Category, hash, id); err != nil {
				return fmt.Errorf("failed to update document: %w", err)
			}
			if oldHash != hash && hasEmbedding {
				if _, err := tx.ExecContext(ctx, "DELETE FROM doc_embeddings WHERE doc_id = ?", id); err != nil {
					return fmt.Errorf("failed to drop stale embedding: %w", err)
				}
				hasEmbedding, model = false, ""
			}
		}
		doc.ID = id
		return nil
	})
	if err != nil {
		return err
	}

	doc.ContentHash = hash
	doc.HasEmbedding = hasEmbedding
	doc.EmbeddingModel = model
	return nil
}

// SaveEmbedding replaces the embedding of a document and records the model
// that produced it.
func (s *DocumentService) SaveEmbedding(ctx context.Context, id int64, embedding []float32, model string) error {
	if len(embedding) != techdoc.EmbeddingDimensions {
		return techdoc.Errorf(techdoc.EINVALID, "embedding must have %d dimensions, got %d",
			techdoc.EmbeddingDimensions, len(embedding))
	}
	blob := techdoc.EncodeVector(embedding)

	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM documents WHERE id = ?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return techdoc.Errorf(techdoc.ENOTFOUND, "document not found")
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM doc_embeddings WHERE doc_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete embedding: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO doc_embeddings (doc_id, embedding, model) VALUES (?, ?, ?)", id, blob, model); err != nil {
			return fmt.Errorf("failed to insert embedding: %w", err)
		}
		return nil
	})
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id int64) (*techdoc.Document, error) {
	return s.findOne(ctx, "d.id = ?", id)
}

// FindDocumentByPath retrieves a document by its source path.
func (s *DocumentService) FindDocumentByPath(ctx context.Context, path string) (*techdoc.Document, error) {
	return s.findOne(ctx, "d.path = ?", path)
}

func (s *DocumentService) findOne(ctx context.Context, where string, arg any) (*techdoc.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents d LEFT JOIN doc_embeddings e ON e.doc_id = d.id
		WHERE `+where, arg)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, techdoc.Errorf(techdoc.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindDocuments retrieves documents matching the filter, ordered by ID.
func (s *DocumentService) FindDocuments(ctx context.Context, filter techdoc.DocumentFilter) ([]*techdoc.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + documentColumns + " FROM documents d LEFT JOIN doc_embeddings e ON e.doc_id = d.id WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND d.id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Category != nil {
		query.WriteString(" AND d.category = ?")
		args = append(args, *filter.Category)
	}
	if filter.MissingURL {
		query.WriteString(" AND COALESCE(d.url, '') = ''")
	}
	query.WriteString(" ORDER BY d.id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*techdoc.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// SearchByVector returns embedded documents nearest to vector.
func (s *DocumentService) SearchByVector(ctx context.Context, vector []float32, opts techdoc.VectorSearchOptions) ([]techdoc.ScoredDocument, error) {
	if len(vector) != techdoc.EmbeddingDimensions {
		return nil, techdoc.Errorf(techdoc.EINVALID, "query vector must have %d dimensions, got %d",
			techdoc.EmbeddingDimensions, len(vector))
	}
	if opts.Limit <= 0 {
		return nil, techdoc.Errorf(techdoc.EINVALID, "search limit must be positive")
	}

	var query strings.Builder
	args := []any{techdoc.EncodeVector(vector)}

	query.WriteString(`
		SELECT d.id, d.path, COALESCE(d.url, ''), COALESCE(d.text, ''), COALESCE(d.category, ''),
			d.content_hash, e.model, ` + DistanceFunc + `(e.embedding, ?) AS score
		FROM doc_embeddings e
		JOIN documents d ON d.id = e.doc_id`)
	if opts.Category != "" {
		query.WriteString(" WHERE d.category = ?")
		args = append(args, opts.Category)
	}
	query.WriteString(" ORDER BY score ASC, d.id ASC LIMIT ?")
	args = append(args, opts.Limit)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search embeddings: %w", err)
	}
	defer rows.Close()

	var results []techdoc.ScoredDocument
	for rows.Next() {
		doc := &techdoc.Document{HasEmbedding: true}
		var score float64
		if err := rows.Scan(&doc.ID, &doc.Path, &doc.URL, &doc.Text, &doc.Category,
			&doc.ContentHash, &doc.EmbeddingModel, &score); err != nil {
			return nil, err
		}
		results = append(results, techdoc.ScoredDocument{Document: doc, Score: score})
	}
	return results, rows.Err()
}

// Categories returns the distinct stored categories, sorted.
func (s *DocumentService) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM documents
		WHERE category IS NOT NULL AND category != ''
		ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteDocument removes a document and its embedding.
func (s *DocumentService) DeleteDocument(ctx context.Context, id int64) error {
	_, err := s.DeleteDocuments(ctx, []int64{id})
	return err
}

// DeleteDocuments removes documents and their embeddings in one transaction.
func (s *DocumentService) DeleteDocuments(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, id := range ids {
			res, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
			if err != nil {
				return fmt.Errorf("failed to delete document %d: %w", id, err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			n += int(affected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteDocumentsByDomain removes every document whose path contains domain.
func (s *DocumentService) DeleteDocumentsByDomain(ctx context.Context, domain string) (int, error) {
	if domain == "" {
		return 0, techdoc.Errorf(techdoc.EINVALID, "domain required")
	}
	var n int
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE instr(path, ?) > 0", domain)
		if err != nil {
			return fmt.Errorf("failed to delete documents: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		n = int(affected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
