package openai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/techdoc"
	"github.com/fwojciec/techdoc/openai"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	requests []goopenai.EmbeddingRequest
	dims     int
	reverse  bool
	err      error
}

func (f *fakeClient) CreateEmbeddings(_ context.Context, conv goopenai.EmbeddingRequestConverter) (goopenai.EmbeddingResponse, error) {
	if f.err != nil {
		return goopenai.EmbeddingResponse{}, f.err
	}
	req := conv.Convert()
	f.requests = append(f.requests, req)

	input := req.Input.([]string)
	var resp goopenai.EmbeddingResponse
	for i, text := range input {
		vec := make([]float32, f.dims)
		vec[0] = float32(len(text))
		resp.Data = append(resp.Data, goopenai.Embedding{Index: i, Embedding: vec})
	}
	if f.reverse {
		for i, j := 0, len(resp.Data)-1; i < j; i, j = i+1, j-1 {
			resp.Data[i], resp.Data[j] = resp.Data[j], resp.Data[i]
		}
	}
	return resp, nil
}

func TestEmbedder_EncodeBatch(t *testing.T) {
	t.Parallel()

	t.Run("orders vectors by index", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{dims: techdoc.EmbeddingDimensions, reverse: true}
		e := openai.NewEmbedder(client, "")

		vectors, err := e.EncodeBatch(context.Background(), []string{"a", "bb", "ccc"})

		require.NoError(t, err)
		require.Len(t, vectors, 3)
		assert.InDelta(t, 1, vectors[0][0], 0)
		assert.InDelta(t, 2, vectors[1][0], 0)
		assert.InDelta(t, 3, vectors[2][0], 0)
	})

	t.Run("requests shortened vectors from text-embedding-3 models", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{dims: techdoc.EmbeddingDimensions}
		e := openai.NewEmbedder(client, "")

		_, err := e.Encode(context.Background(), "query")

		require.NoError(t, err)
		require.Len(t, client.requests, 1)
		assert.Equal(t, goopenai.EmbeddingModel(openai.DefaultModel), client.requests[0].Model)
		assert.Equal(t, techdoc.EmbeddingDimensions, client.requests[0].Dimensions)
	})

	t.Run("omits dimensions for other models", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{dims: techdoc.EmbeddingDimensions}
		e := openai.NewEmbedder(client, "all-minilm")

		_, err := e.Encode(context.Background(), "query")

		require.NoError(t, err)
		assert.Zero(t, client.requests[0].Dimensions)
	})

	t.Run("rejects models with other dimensions", func(t *testing.T) {
		t.Parallel()

		e := openai.NewEmbedder(&fakeClient{dims: 1536}, "text-embedding-ada-002")

		_, err := e.Encode(context.Background(), "query")

		require.Error(t, err)
		assert.Equal(t, techdoc.EINTERNAL, techdoc.ErrorCode(err))
	})

	t.Run("rejects empty text", func(t *testing.T) {
		t.Parallel()

		e := openai.NewEmbedder(&fakeClient{dims: techdoc.EmbeddingDimensions}, "")

		_, err := e.Encode(context.Background(), "")

		assert.Equal(t, techdoc.EINVALID, techdoc.ErrorCode(err))
	})

	t.Run("wraps client errors", func(t *testing.T) {
		t.Parallel()

		clientErr := errors.New("unauthorized")
		e := openai.NewEmbedder(&fakeClient{err: clientErr}, "")

		_, err := e.Encode(context.Background(), "query")

		require.ErrorIs(t, err, clientErr)
	})
}
