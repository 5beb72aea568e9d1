// Package openai implements techdoc.Embedder on OpenAI-compatible embedding
// endpoints, including local servers such as Ollama.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/techdoc"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "text-embedding-3-small"

const maxBatchSize = 100

// EmbeddingCreator is the subset of *openai.Client used by Embedder.
type EmbeddingCreator interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

var _ techdoc.Embedder = (*Embedder)(nil)

// Embedder generates embeddings with an OpenAI-compatible API.
type Embedder struct {
	client EmbeddingCreator
	model  string
}

// NewEmbedder creates an Embedder using client and model.
func NewEmbedder(client EmbeddingCreator, model string) *Embedder {
	if model == "" {
		model = DefaultModel
	}
	return &Embedder{client: client, model: model}
}

// NewClient creates an API client. An empty baseURL uses the OpenAI API.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (e *Embedder) Dimensions() int {
	return techdoc.EmbeddingDimensions
}

func (e *Embedder) Encode(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *Embedder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if text == "" {
			return nil, techdoc.Errorf(techdoc.EINVALID, "text %d is empty", i)
		}
	}

	all := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += maxBatchSize {
		end := min(i+maxBatchSize, len(texts))
		batch := texts[i:end]

		req := openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		}
		// Only the text-embedding-3 family can shorten its output.
		if strings.HasPrefix(e.model, "text-embedding-3") {
			req.Dimensions = techdoc.EmbeddingDimensions
		}

		resp, err := e.client.CreateEmbeddings(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("openai embedding request failed: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, techdoc.Errorf(techdoc.EINTERNAL, "openai returned %d embeddings, expected %d", len(resp.Data), len(batch))
		}

		ordered := make([][]float32, len(batch))
		for _, emb := range resp.Data {
			if emb.Index < 0 || emb.Index >= len(batch) || ordered[emb.Index] != nil {
				return nil, techdoc.Errorf(techdoc.EINTERNAL, "openai returned an unexpected embedding index %d", emb.Index)
			}
			if len(emb.Embedding) != techdoc.EmbeddingDimensions {
				return nil, techdoc.Errorf(techdoc.EINTERNAL, "model %s produces %d dimensions, want %d", e.model, len(emb.Embedding), techdoc.EmbeddingDimensions)
			}
			ordered[emb.Index] = emb.Embedding
		}
		all = append(all, ordered...)
	}
	return all, nil
}
