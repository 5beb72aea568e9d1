package techdoc

import "context"

// Embedder turns text into fixed-length vectors.
type Embedder interface {
	// Encode embeds a single text.
	Encode(ctx context.Context, text string) ([]float32, error)

	// EncodeBatch embeds several texts, returning vectors in input order.
	EncodeBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the length of the produced vectors.
	Dimensions() int
}
