package techdoc

import (
	"context"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// EmbeddingDimensions is the fixed length of every stored embedding.
const EmbeddingDimensions = 384

// Document represents an indexed documentation page.
type Document struct {
	// ID is assigned on first persistence and never changes afterwards.
	// Zero means the document has not been stored yet.
	ID int64 `json:"id"`

	// Path is the local file path. It is the natural key of a document.
	Path     string `json:"path"`
	URL      string `json:"url"`
	Text     string `json:"text"`
	Category string `json:"category"`

	// ContentHash is computed from Text by the store on save.
	ContentHash string `json:"contentHash"`

	// HasEmbedding reports whether a vector is stored for the document.
	// It is read-only and filled in by the store.
	HasEmbedding bool `json:"hasEmbedding"`

	// EmbeddingModel identifies the embedder that produced the stored
	// vector. It is read-only and filled in by the store.
	EmbeddingModel string `json:"embeddingModel,omitempty"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Path == "" {
		return Errorf(EINVALID, "document path required")
	}
	return nil
}

// HashContent returns the hex-encoded xxHash of text.
func HashContent(text string) string {
	var b [8]byte
	h := xxhash.Sum64String(text)
	for i := 7; i >= 0; i-- {
		b[i] = byte(h)
		h >>= 8
	}
	return hex.EncodeToString(b[:])
}

// DocumentService represents a service for managing documents and their
// embeddings.
type DocumentService interface {
	// SaveDocument inserts the document or, when a document with the same
	// path exists, updates its URL, text and category in place and keeps
	// its ID. The assigned ID is written back to doc. A changed text
	// invalidates the stored embedding in the same transaction.
	SaveDocument(ctx context.Context, doc *Document) error

	// SaveEmbedding replaces the embedding for a document and records the
	// model that produced it.
	// Returns ENOTFOUND if the document does not exist and EINVALID if the
	// vector does not have EmbeddingDimensions components.
	SaveEmbedding(ctx context.Context, id int64, embedding []float32, model string) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id int64) (*Document, error)

	// FindDocumentByPath retrieves a document by its source path.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByPath(ctx context.Context, path string) (*Document, error)

	// FindDocuments retrieves documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// SearchByVector returns embedded documents ordered by ascending L2
	// distance to vector. Documents without an embedding are never returned.
	SearchByVector(ctx context.Context, vector []float32, opts VectorSearchOptions) ([]ScoredDocument, error)

	// Categories returns the distinct categories of stored documents, sorted.
	Categories(ctx context.Context) ([]string, error)

	// DeleteDocument removes a document and its embedding.
	// Deleting a document that does not exist is not an error.
	DeleteDocument(ctx context.Context, id int64) error

	// DeleteDocuments removes several documents and their embeddings in one
	// transaction and returns the number of documents removed.
	DeleteDocuments(ctx context.Context, ids []int64) (int, error)

	// DeleteDocumentsByDomain removes every document whose path contains
	// domain and returns the number of documents removed.
	// Returns EINVALID for an empty domain.
	DeleteDocumentsByDomain(ctx context.Context, domain string) (int, error)
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID       *int64  `json:"id"`
	Category *string `json:"category"`

	// MissingURL restricts results to documents with an empty URL.
	MissingURL bool `json:"missingUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// VectorSearchOptions configures DocumentService.SearchByVector.
type VectorSearchOptions struct {
	// Category restricts results to an exact category match when set.
	Category string

	// Limit is the maximum number of results.
	Limit int
}

// ScoredDocument pairs a document with its distance to a query vector.
type ScoredDocument struct {
	Document *Document
	Score    float64
}
