package mock

import (
	"context"

	"github.com/fwojciec/techdoc"
)

var _ techdoc.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of techdoc.DocumentService.
type DocumentService struct {
	SaveDocumentFn            func(ctx context.Context, doc *techdoc.Document) error
	SaveEmbeddingFn           func(ctx context.Context, id int64, embedding []float32, model string) error
	FindDocumentByIDFn        func(ctx context.Context, id int64) (*techdoc.Document, error)
	FindDocumentByPathFn      func(ctx context.Context, path string) (*techdoc.Document, error)
	FindDocumentsFn           func(ctx context.Context, filter techdoc.DocumentFilter) ([]*techdoc.Document, error)
	SearchByVectorFn          func(ctx context.Context, vector []float32, opts techdoc.VectorSearchOptions) ([]techdoc.ScoredDocument, error)
	CategoriesFn              func(ctx context.Context) ([]string, error)
	DeleteDocumentFn          func(ctx context.Context, id int64) error
	DeleteDocumentsFn         func(ctx context.Context, ids []int64) (int, error)
	DeleteDocumentsByDomainFn func(ctx context.Context, domain string) (int, error)
}

func (s *DocumentService) SaveDocument(ctx context.Context, doc *techdoc.Document) error {
	return s.SaveDocumentFn(ctx, doc)
}

func (s *DocumentService) SaveEmbedding(ctx context.Context, id int64, embedding []float32, model string) error {
	return s.SaveEmbeddingFn(ctx, id, embedding, model)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id int64) (*techdoc.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocumentByPath(ctx context.Context, path string) (*techdoc.Document, error) {
	return s.FindDocumentByPathFn(ctx, path)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter techdoc.DocumentFilter) ([]*techdoc.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) SearchByVector(ctx context.Context, vector []float32, opts techdoc.VectorSearchOptions) ([]techdoc.ScoredDocument, error) {
	return s.SearchByVectorFn(ctx, vector, opts)
}

func (s *DocumentService) Categories(ctx context.Context) ([]string, error) {
	return s.CategoriesFn(ctx)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, id int64) error {
	return s.DeleteDocumentFn(ctx, id)
}

func (s *DocumentService) DeleteDocuments(ctx context.Context, ids []int64) (int, error) {
	return s.DeleteDocumentsFn(ctx, ids)
}

func (s *DocumentService) DeleteDocumentsByDomain(ctx context.Context, domain string) (int, error) {
	return s.DeleteDocumentsByDomainFn(ctx, domain)
}
