package search_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/techdoc"
	"github.com/fwojciec/techdoc/inmem"
	"github.com/fwojciec/techdoc/mock"
	"github.com/fwojciec/techdoc/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vector(x float32) []float32 {
	v := make([]float32, techdoc.EmbeddingDimensions)
	v[0] = x
	return v
}

// fixedEmbedder maps every query to vector(x) and counts calls.
func fixedEmbedder(x float32, calls *int) *mock.Embedder {
	return &mock.Embedder{
		EncodeFn: func(context.Context, string) ([]float32, error) {
			*calls++
			return vector(x), nil
		},
	}
}

func newResolver() *techdoc.PathResolver {
	return techdoc.NewPathResolver(techdoc.PathConfig{
		Base:       "/docs/",
		Categories: []string{"python", "vue"},
	})
}

func seedDocs(t *testing.T) *inmem.DocumentService {
	t.Helper()
	ctx := context.Background()
	docs := inmem.NewDocumentService()
	for _, d := range []struct {
		path, category string
		x              float32
	}{
		{"/docs/python/docs.python.org/far.html", "python", 10},
		{"/docs/python/docs.python.org/near.html", "python", 1},
		{"/docs/vue/vuejs.org/mid.html", "vue", 3},
	} {
		doc := &techdoc.Document{Path: d.path, URL: "https://example.com", Text: "text", Category: d.category}
		require.NoError(t, docs.SaveDocument(ctx, doc))
		require.NoError(t, docs.SaveEmbedding(ctx, doc.ID, vector(d.x), "test-model"))
	}
	return docs
}

func TestEngine_Search(t *testing.T) {
	t.Parallel()

	t.Run("ranks by distance and encodes once", func(t *testing.T) {
		t.Parallel()

		var calls int
		e := search.NewEngine(seedDocs(t), fixedEmbedder(0, &calls), newResolver())

		results, err := e.Search(context.Background(), "how do I", techdoc.SearchOptions{})

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "/docs/python/docs.python.org/near.html", results[0].Path)
		assert.Equal(t, "/docs/vue/vuejs.org/mid.html", results[1].Path)
		assert.Equal(t, "/docs/python/docs.python.org/far.html", results[2].Path)
		assert.InDelta(t, 1.0, results[0].Score, 1e-9)
		assert.Equal(t, "python", results[0].Category)
		assert.Equal(t, "text", results[0].Content)
		assert.Equal(t, 1, calls)
	})

	t.Run("filters by category and limits results", func(t *testing.T) {
		t.Parallel()

		var calls int
		e := search.NewEngine(seedDocs(t), fixedEmbedder(0, &calls), newResolver())

		results, err := e.Search(context.Background(), "q", techdoc.SearchOptions{Category: "python", TopK: 1})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "/docs/python/docs.python.org/near.html", results[0].Path)
	})

	t.Run("matches categories regardless of case", func(t *testing.T) {
		t.Parallel()

		var calls int
		e := search.NewEngine(seedDocs(t), fixedEmbedder(0, &calls), newResolver())

		results, err := e.Search(context.Background(), "q", techdoc.SearchOptions{Category: " Python "})

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "python", results[0].Category)
	})

	t.Run("defaults TopK", func(t *testing.T) {
		t.Parallel()

		var got techdoc.VectorSearchOptions
		docs := &mock.DocumentService{
			SearchByVectorFn: func(_ context.Context, _ []float32, opts techdoc.VectorSearchOptions) ([]techdoc.ScoredDocument, error) {
				got = opts
				return nil, nil
			},
		}
		var calls int
		e := search.NewEngine(docs, fixedEmbedder(0, &calls), nil)

		results, err := e.Search(context.Background(), "q", techdoc.SearchOptions{})

		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, techdoc.DefaultTopK, got.Limit)
	})

	t.Run("rejects invalid input without encoding", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			query string
			opts  techdoc.SearchOptions
		}{
			{"empty query", "  ", techdoc.SearchOptions{}},
			{"top_k too large", "q", techdoc.SearchOptions{TopK: 11}},
			{"negative top_k", "q", techdoc.SearchOptions{TopK: -1}},
			{"unknown category", "q", techdoc.SearchOptions{Category: "rust"}},
		}
		for _, tt := range tests {
			var calls int
			e := search.NewEngine(inmem.NewDocumentService(), fixedEmbedder(0, &calls), newResolver())

			_, err := e.Search(context.Background(), tt.query, tt.opts)

			require.Error(t, err, tt.name)
			assert.Equal(t, techdoc.EINVALID, techdoc.ErrorCode(err), tt.name)
			assert.Zero(t, calls, tt.name)
		}
	})

	t.Run("returns embedder errors", func(t *testing.T) {
		t.Parallel()

		encodeErr := errors.New("model down")
		embedder := &mock.Embedder{
			EncodeFn: func(context.Context, string) ([]float32, error) {
				return nil, encodeErr
			},
		}
		e := search.NewEngine(inmem.NewDocumentService(), embedder, nil)

		_, err := e.Search(context.Background(), "q", techdoc.SearchOptions{})

		require.ErrorIs(t, err, encodeErr)
	})
}
