// Package inmem provides an in-memory DocumentService with the same
// semantics as the SQLite implementation.
package inmem

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/fwojciec/techdoc"
)

var _ techdoc.DocumentService = (*DocumentService)(nil)

// DocumentService stores documents and embeddings in maps.
type DocumentService struct {
	mu         sync.Mutex
	nextID     int64
	docs       map[int64]techdoc.Document
	byPath     map[string]int64
	embeddings map[int64]embedding
}

type embedding struct {
	vector []float32
	model  string
}

// NewDocumentService returns an empty store.
func NewDocumentService() *DocumentService {
	return &DocumentService{
		docs:       make(map[int64]techdoc.Document),
		byPath:     make(map[string]int64),
		embeddings: make(map[int64]embedding),
	}
}

// SaveDocument inserts a document or updates the one stored under the same
// path, dropping its embedding when the text changed.
func (s *DocumentService) SaveDocument(_ context.Context, doc *techdoc.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	hash := techdoc.HashContent(doc.Text)

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byPath[doc.Path]
	if ok {
		if s.docs[id].ContentHash != hash {
			delete(s.embeddings, id)
		}
	} else {
		s.nextID++
		id = s.nextID
		s.byPath[doc.Path] = id
	}

	stored := techdoc.Document{
		ID:          id,
		Path:        doc.Path,
		URL:         doc.URL,
		Text:        doc.Text,
		Category:    doc.Category,
		ContentHash: hash,
	}
	s.docs[id] = stored

	doc.ID = id
	doc.ContentHash = hash
	e, ok := s.embeddings[id]
	doc.HasEmbedding, doc.EmbeddingModel = ok, e.model
	return nil
}

// SaveEmbedding replaces the embedding of a document.
func (s *DocumentService) SaveEmbedding(_ context.Context, id int64, vector []float32, model string) error {
	if len(vector) != techdoc.EmbeddingDimensions {
		return techdoc.Errorf(techdoc.EINVALID, "embedding must have %d dimensions, got %d",
			techdoc.EmbeddingDimensions, len(vector))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return techdoc.Errorf(techdoc.ENOTFOUND, "document not found")
	}
	s.embeddings[id] = embedding{vector: slices.Clone(vector), model: model}
	return nil
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(_ context.Context, id int64) (*techdoc.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return nil, techdoc.Errorf(techdoc.ENOTFOUND, "document not found")
	}
	return s.document(id), nil
}

// FindDocumentByPath retrieves a document by its source path.
func (s *DocumentService) FindDocumentByPath(_ context.Context, path string) (*techdoc.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byPath[path]
	if !ok {
		return nil, techdoc.Errorf(techdoc.ENOTFOUND, "document not found")
	}
	return s.document(id), nil
}

// document returns a copy of the stored document. Callers hold mu.
func (s *DocumentService) document(id int64) *techdoc.Document {
	doc := s.docs[id]
	e, ok := s.embeddings[id]
	doc.HasEmbedding, doc.EmbeddingModel = ok, e.model
	return &doc
}

// sortedIDs returns every stored ID in ascending order. Callers hold mu.
func (s *DocumentService) sortedIDs() []int64 {
	ids := make([]int64, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// FindDocuments retrieves documents matching the filter, ordered by ID.
func (s *DocumentService) FindDocuments(_ context.Context, filter techdoc.DocumentFilter) ([]*techdoc.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var docs []*techdoc.Document
	for _, id := range s.sortedIDs() {
		doc := s.docs[id]
		if filter.ID != nil && doc.ID != *filter.ID {
			continue
		}
		if filter.Category != nil && doc.Category != *filter.Category {
			continue
		}
		if filter.MissingURL && doc.URL != "" {
			continue
		}
		docs = append(docs, s.document(id))
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(docs) {
			return nil, nil
		}
		docs = docs[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(docs) {
		docs = docs[:filter.Limit]
	}
	return docs, nil
}

// SearchByVector returns embedded documents nearest to vector.
func (s *DocumentService) SearchByVector(_ context.Context, vector []float32, opts techdoc.VectorSearchOptions) ([]techdoc.ScoredDocument, error) {
	if len(vector) != techdoc.EmbeddingDimensions {
		return nil, techdoc.Errorf(techdoc.EINVALID, "query vector must have %d dimensions, got %d",
			techdoc.EmbeddingDimensions, len(vector))
	}
	if opts.Limit <= 0 {
		return nil, techdoc.Errorf(techdoc.EINVALID, "search limit must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var results []techdoc.ScoredDocument
	for _, id := range s.sortedIDs() {
		e, ok := s.embeddings[id]
		if !ok {
			continue
		}
		if opts.Category != "" && s.docs[id].Category != opts.Category {
			continue
		}
		score, err := techdoc.L2Distance(e.vector, vector)
		if err != nil {
			return nil, err
		}
		results = append(results, techdoc.ScoredDocument{Document: s.document(id), Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// Categories returns the distinct stored categories, sorted.
func (s *DocumentService) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var categories []string
	for _, doc := range s.docs {
		if doc.Category != "" && !seen[doc.Category] {
			seen[doc.Category] = true
			categories = append(categories, doc.Category)
		}
	}
	slices.Sort(categories)
	return categories, nil
}

// DeleteDocument removes a document and its embedding.
func (s *DocumentService) DeleteDocument(ctx context.Context, id int64) error {
	_, err := s.DeleteDocuments(ctx, []int64{id})
	return err
}

// DeleteDocuments removes documents and their embeddings.
func (s *DocumentService) DeleteDocuments(_ context.Context, ids []int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, id := range ids {
		if s.remove(id) {
			n++
		}
	}
	return n, nil
}

// DeleteDocumentsByDomain removes every document whose path contains domain.
func (s *DocumentService) DeleteDocumentsByDomain(_ context.Context, domain string) (int, error) {
	if domain == "" {
		return 0, techdoc.Errorf(techdoc.EINVALID, "domain required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, id := range s.sortedIDs() {
		if strings.Contains(s.docs[id].Path, domain) && s.remove(id) {
			n++
		}
	}
	return n, nil
}

// remove deletes one document. Callers hold mu.
func (s *DocumentService) remove(id int64) bool {
	doc, ok := s.docs[id]
	if !ok {
		return false
	}
	delete(s.docs, id)
	delete(s.byPath, doc.Path)
	delete(s.embeddings, id)
	return true
}
