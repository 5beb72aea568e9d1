package sqlite_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/fwojciec/techdoc"
	"github.com/fwojciec/techdoc/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkSaveDocument measures the upsert path for an index build that
// writes a document and its embedding per file.
func BenchmarkSaveDocument(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	svc := sqlite.NewDocumentService(db)
	vec := randomVector(rand.New(rand.NewPCG(1, 2)))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		doc := &techdoc.Document{
			Path:     fmt.Sprintf("/docs/python/example.com/page%d.html", i),
			URL:      fmt.Sprintf("https://example.com/page%d", i),
			Text:     fmt.Sprintf("Page %d. Lorem ipsum dolor sit amet, consectetur adipiscing elit.", i),
			Category: "python",
		}
		if err := svc.SaveDocument(ctx, doc); err != nil {
			b.Fatal(err)
		}
		if err := svc.SaveEmbedding(ctx, doc.ID, vec, "test-model"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSearchByVector measures a full scan over a corpus of embedded
// documents.
func BenchmarkSearchByVector(b *testing.B) {
	for _, size := range []int{100, 1000} {
		b.Run(fmt.Sprintf("docs_%d", size), func(b *testing.B) {
			db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
			require.NoError(b, db.Open())
			defer db.Close()

			ctx := context.Background()
			svc := sqlite.NewDocumentService(db)
			rng := rand.New(rand.NewPCG(1, 2))
			for i := 0; i < size; i++ {
				doc := &techdoc.Document{
					Path:     fmt.Sprintf("/docs/python/example.com/page%d.html", i),
					Text:     fmt.Sprintf("Page %d", i),
					Category: "python",
				}
				require.NoError(b, svc.SaveDocument(ctx, doc))
				require.NoError(b, svc.SaveEmbedding(ctx, doc.ID, randomVector(rng), "test-model"))
			}
			query := randomVector(rng)

			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := svc.SearchByVector(ctx, query, techdoc.VectorSearchOptions{Limit: techdoc.DefaultTopK}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func randomVector(rng *rand.Rand) []float32 {
	v := make([]float32, techdoc.EmbeddingDimensions)
	for i := range v {
		v[i] = rng.Float32()
	}
	return v
}
