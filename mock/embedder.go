package mock

import (
	"context"

	"github.com/fwojciec/techdoc"
)

var _ techdoc.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of techdoc.Embedder.
type Embedder struct {
	EncodeFn      func(ctx context.Context, text string) ([]float32, error)
	EncodeBatchFn func(ctx context.Context, texts []string) ([][]float32, error)
	DimensionsFn  func() int
}

func (e *Embedder) Encode(ctx context.Context, text string) ([]float32, error) {
	return e.EncodeFn(ctx, text)
}

func (e *Embedder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EncodeBatchFn(ctx, texts)
}

func (e *Embedder) Dimensions() int {
	return e.DimensionsFn()
}
