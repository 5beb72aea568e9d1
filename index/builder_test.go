package index_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/techdoc"
	"github.com/fwojciec/techdoc/index"
	"github.com/fwojciec/techdoc/inmem"
	"github.com/fwojciec/techdoc/mock"
	"github.com/fwojciec/techdoc/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver() *techdoc.PathResolver {
	return techdoc.NewPathResolver(techdoc.PathConfig{
		Base:         "/docs/",
		Categories:   []string{"typescript", "python", "cdk", "vue", "aws_design"},
		Blocklist:    []string{"doubleclick.net"},
		SkipPatterns: techdoc.DefaultSkipPatterns,
	})
}

// fileText serves extracted text from a map; unknown paths fail.
func fileText(texts map[string]string) *mock.TextExtractor {
	return &mock.TextExtractor{
		ExtractFn: func(path string) (string, error) {
			text, ok := texts[path]
			if !ok {
				return "", techdoc.Errorf(techdoc.EINVALID, "cannot read %s", path)
			}
			return text, nil
		},
	}
}

// countingEmbedder embeds text as its rune count and records the inputs.
func countingEmbedder(inputs *[]string) *mock.Embedder {
	return &mock.Embedder{
		EncodeFn: func(_ context.Context, text string) ([]float32, error) {
			*inputs = append(*inputs, text)
			v := make([]float32, techdoc.EmbeddingDimensions)
			v[0] = float32(len([]rune(text)))
			return v, nil
		},
		DimensionsFn: func() int { return techdoc.EmbeddingDimensions },
	}
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	t.Run("counts new updated and skipped files", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		docs := inmem.NewDocumentService()
		var embedded []string
		texts := map[string]string{
			"/docs/python/docs.python.org/3/a.html": "first page",
			"/docs/python/docs.python.org/3/b.html": "second page",
			"/docs/python/docs.python.org/3/c.html": "   \n ",
		}
		b := &index.Builder{
			Documents: docs,
			Embedder:  countingEmbedder(&embedded),
			Extractor: fileText(texts),
			Paths:     newResolver(),
		}

		// Seed b.html so the second run sees it as existing.
		_, err := b.Build(ctx, index.Request{Files: []string{"/docs/python/docs.python.org/3/b.html"}}, nil)
		require.NoError(t, err)
		texts["/docs/python/docs.python.org/3/b.html"] = "second page, revised"

		var events []index.Event
		res, err := b.Build(ctx, index.Request{Files: []string{
			"/docs/python/docs.python.org/3/a.html",
			"/docs/python/docs.python.org/3/b.html",
			"/docs/python/docs.python.org/3/c.html",
			"/docs/python/docs.python.org/3/missing.html",
		}}, func(e index.Event) { events = append(events, e) })

		require.NoError(t, err)
		assert.Equal(t, &index.Result{New: 1, Updated: 1, Skipped: 2}, res)
		require.Len(t, events, 4)
		assert.Equal(t, index.OutcomeNew, events[0].Outcome)
		assert.Equal(t, index.OutcomeUpdated, events[1].Outcome)
		assert.Equal(t, index.OutcomeSkipped, events[2].Outcome)
		assert.Equal(t, "empty", events[2].Reason)
		assert.Equal(t, "extraction failed", events[3].Reason)
		assert.Equal(t, 4, events[3].Index)
		assert.Equal(t, 4, events[3].Total)

		doc, err := docs.FindDocumentByPath(ctx, "/docs/python/docs.python.org/3/a.html")
		require.NoError(t, err)
		assert.Equal(t, "python", doc.Category)
		assert.Equal(t, "https://docs.python.org/3/a", doc.URL)
		assert.True(t, doc.HasEmbedding)

		assert.Equal(t, []string{"second page", "first page", "second page, revised"}, embedded)
	})

	t.Run("reuses embeddings of unchanged documents", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		var embedded []string
		b := &index.Builder{
			Documents: inmem.NewDocumentService(),
			Embedder:  countingEmbedder(&embedded),
			Extractor: fileText(map[string]string{"/docs/vue/vuejs.org/guide.html": "guide text"}),
			Paths:     newResolver(),
		}
		req := index.Request{Files: []string{"/docs/vue/vuejs.org/guide.html"}}

		first, err := b.Build(ctx, req, nil)
		require.NoError(t, err)
		second, err := b.Build(ctx, req, nil)
		require.NoError(t, err)

		assert.Equal(t, &index.Result{New: 1}, first)
		assert.Equal(t, &index.Result{Updated: 1, Unchanged: 1}, second)
		assert.Len(t, embedded, 1)
	})

	t.Run("re-embeds when the model or text limit changes", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		docs := inmem.NewDocumentService()
		var embedded []string
		path := "/docs/vue/vuejs.org/guide.html"
		newBuilder := func(model string) *index.Builder {
			return &index.Builder{
				Documents: docs,
				Embedder:  countingEmbedder(&embedded),
				Extractor: fileText(map[string]string{path: "guide text"}),
				Paths:     newResolver(),
				Model:     model,
			}
		}
		req := index.Request{Files: []string{path}}

		_, err := newBuilder("gemini/a").Build(ctx, req, nil)
		require.NoError(t, err)

		res, err := newBuilder("openai/b").Build(ctx, req, nil)
		require.NoError(t, err)
		assert.Equal(t, &index.Result{Updated: 1}, res)

		res, err = newBuilder("openai/b").Build(ctx, index.Request{Files: req.Files, MaxTextLength: 5}, nil)
		require.NoError(t, err)
		assert.Equal(t, &index.Result{Updated: 1}, res)

		res, err = newBuilder("openai/b").Build(ctx, index.Request{Files: req.Files, MaxTextLength: 5}, nil)
		require.NoError(t, err)
		assert.Equal(t, &index.Result{Updated: 1, Unchanged: 1}, res)

		assert.Len(t, embedded, 3)
		doc, err := docs.FindDocumentByPath(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, index.EmbeddingKey("openai/b", 5), doc.EmbeddingModel)
	})

	t.Run("re-embeds unchanged documents on request", func(t *testing.T) {
		t.Parallel()

		var embedded []string
		b := &index.Builder{
			Documents: inmem.NewDocumentService(),
			Embedder:  countingEmbedder(&embedded),
			Extractor: fileText(map[string]string{"/docs/vue/vuejs.org/guide.html": "guide text"}),
			Paths:     newResolver(),
		}
		req := index.Request{Files: []string{"/docs/vue/vuejs.org/guide.html"}}

		_, err := b.Build(context.Background(), req, nil)
		require.NoError(t, err)
		req.Reembed = true
		res, err := b.Build(context.Background(), req, nil)

		require.NoError(t, err)
		assert.Equal(t, &index.Result{Updated: 1}, res)
		assert.Len(t, embedded, 2)
	})

	t.Run("uses the request category over detection", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		docs := inmem.NewDocumentService()
		var embedded []string
		b := &index.Builder{
			Documents: docs,
			Embedder:  countingEmbedder(&embedded),
			Extractor: fileText(map[string]string{"/docs/python/docs.python.org/x.html": "text"}),
			Paths:     newResolver(),
		}

		_, err := b.Build(ctx, index.Request{Files: []string{"/docs/python/docs.python.org/x.html"}, Category: "cdk"}, nil)
		require.NoError(t, err)

		doc, err := docs.FindDocumentByPath(ctx, "/docs/python/docs.python.org/x.html")
		require.NoError(t, err)
		assert.Equal(t, "cdk", doc.Category)
	})

	t.Run("stores the request category in its normalized spelling", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		docs := inmem.NewDocumentService()
		var embedded []string
		b := &index.Builder{
			Documents: docs,
			Embedder:  countingEmbedder(&embedded),
			Extractor: fileText(map[string]string{"/docs/python/docs.python.org/y.html": "text"}),
			Paths:     newResolver(),
		}

		_, err := b.Build(ctx, index.Request{Files: []string{"/docs/python/docs.python.org/y.html"}, Category: "Python"}, nil)
		require.NoError(t, err)

		doc, err := docs.FindDocumentByPath(ctx, "/docs/python/docs.python.org/y.html")
		require.NoError(t, err)
		assert.Equal(t, "python", doc.Category)

		results, err := search.NewEngine(docs, countingEmbedder(&embedded), newResolver()).
			Search(ctx, "text", techdoc.SearchOptions{Category: "python"})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("stores paths outside the base without a URL", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		docs := inmem.NewDocumentService()
		var embedded []string
		b := &index.Builder{
			Documents: docs,
			Embedder:  countingEmbedder(&embedded),
			Extractor: fileText(map[string]string{"/elsewhere/page.html": "text"}),
			Paths:     newResolver(),
		}

		_, err := b.Build(ctx, index.Request{Files: []string{"/elsewhere/page.html"}}, nil)
		require.NoError(t, err)

		doc, err := docs.FindDocumentByPath(ctx, "/elsewhere/page.html")
		require.NoError(t, err)
		assert.Empty(t, doc.URL)
		assert.Equal(t, techdoc.UnknownCategory, doc.Category)
	})

	t.Run("truncates embedding input but stores the full text", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		docs := inmem.NewDocumentService()
		var embedded []string
		long := strings.Repeat("é", 20)
		b := &index.Builder{
			Documents: docs,
			Embedder:  countingEmbedder(&embedded),
			Extractor: fileText(map[string]string{"/docs/vue/vuejs.org/long.html": long}),
			Paths:     newResolver(),
		}

		_, err := b.Build(ctx, index.Request{Files: []string{"/docs/vue/vuejs.org/long.html"}, MaxTextLength: 5}, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{strings.Repeat("é", 5)}, embedded)
		doc, err := docs.FindDocumentByPath(ctx, "/docs/vue/vuejs.org/long.html")
		require.NoError(t, err)
		assert.Equal(t, long, doc.Text)
	})

	t.Run("skips text rejected by the content policy", func(t *testing.T) {
		t.Parallel()

		var embedded []string
		b := &index.Builder{
			Documents: inmem.NewDocumentService(),
			Embedder:  countingEmbedder(&embedded),
			Extractor: fileText(map[string]string{"/docs/vue/vuejs.org/short.html": "Too short."}),
			Policy:    techdoc.DefaultContentPolicy(),
			Paths:     newResolver(),
		}

		res, err := b.Build(context.Background(), index.Request{Files: []string{"/docs/vue/vuejs.org/short.html"}}, nil)

		require.NoError(t, err)
		assert.Equal(t, &index.Result{Skipped: 1}, res)
		assert.Empty(t, embedded)
	})

	t.Run("counts embedding and save failures as skipped", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		failing := &mock.Embedder{
			EncodeFn: func(context.Context, string) ([]float32, error) {
				return nil, errors.New("model unavailable")
			},
		}
		store := &mock.DocumentService{
			FindDocumentByPathFn: func(context.Context, string) (*techdoc.Document, error) {
				return nil, techdoc.Errorf(techdoc.ENOTFOUND, "not found")
			},
			SaveDocumentFn: func(_ context.Context, doc *techdoc.Document) error {
				if strings.HasSuffix(doc.Path, "bad.html") {
					return errors.New("disk full")
				}
				doc.ID = 1
				return nil
			},
		}
		b := &index.Builder{
			Documents: store,
			Embedder:  failing,
			Extractor: fileText(map[string]string{
				"/docs/vue/vuejs.org/bad.html":  "text",
				"/docs/vue/vuejs.org/good.html": "text",
			}),
			Paths: newResolver(),
		}

		var reasons []string
		res, err := b.Build(ctx, index.Request{Files: []string{
			"/docs/vue/vuejs.org/bad.html",
			"/docs/vue/vuejs.org/good.html",
		}}, func(e index.Event) { reasons = append(reasons, e.Reason) })

		require.NoError(t, err)
		assert.Equal(t, &index.Result{Skipped: 2}, res)
		assert.Equal(t, []string{"save failed", "embedding failed"}, reasons)
	})

	t.Run("stops on cancellation with a partial result", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var embedded []string
		b := &index.Builder{
			Documents: inmem.NewDocumentService(),
			Embedder:  countingEmbedder(&embedded),
			Extractor: fileText(map[string]string{
				"/docs/vue/vuejs.org/a.html": "a",
				"/docs/vue/vuejs.org/b.html": "b",
			}),
			Paths: newResolver(),
		}

		res, err := b.Build(ctx, index.Request{Files: []string{
			"/docs/vue/vuejs.org/a.html",
			"/docs/vue/vuejs.org/b.html",
		}}, func(index.Event) { cancel() })

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, &index.Result{New: 1}, res)
	})
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter than limit", "abc", 5, "abc"},
		{"exact limit", "abcde", 5, "abcde"},
		{"cuts runes not bytes", "żółćx", 3, "żół"},
		{"zero disables", "abc", 0, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, index.Truncate(tt.in, tt.n))
		})
	}
}
