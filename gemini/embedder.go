// Package gemini implements techdoc.Embedder on the Gemini embedding API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/techdoc"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Embedding defaults.
const (
	DefaultModel             = "gemini-embedding-001"
	DefaultRequestsPerMinute = 1500

	// Task types for asymmetric retrieval.
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"

	// maxBatchSize is the API limit on contents per request.
	maxBatchSize = 100
)

// ContentEmbedder is the subset of *genai.Models used by Embedder.
type ContentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Ensure Embedder implements techdoc.Embedder at compile time.
var _ techdoc.Embedder = (*Embedder)(nil)

// Embedder produces unit-length techdoc.EmbeddingDimensions-long vectors
// with a Gemini embedding model. Requests are throttled to the configured
// rate.
type Embedder struct {
	models   ContentEmbedder
	model    string
	taskType string
	limiter  *rate.Limiter
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(e *Embedder) {
		if model != "" {
			e.model = model
		}
	}
}

// WithTaskType tells the model how the vectors will be used, for example
// TaskRetrievalDocument when indexing and TaskRetrievalQuery when searching.
func WithTaskType(taskType string) Option {
	return func(e *Embedder) {
		e.taskType = taskType
	}
}

// WithRequestsPerMinute overrides DefaultRequestsPerMinute.
// A value of zero or less disables throttling.
func WithRequestsPerMinute(rpm int) Option {
	return func(e *Embedder) {
		e.limiter = newLimiter(rpm)
	}
}

func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

// NewEmbedder creates an Embedder backed by models, usually client.Models.
func NewEmbedder(models ContentEmbedder, opts ...Option) *Embedder {
	e := &Embedder{
		models:  models,
		model:   DefaultModel,
		limiter: newLimiter(DefaultRequestsPerMinute),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewClient creates a Gemini API client for apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, techdoc.Errorf(techdoc.EINVALID, "gemini API key required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}
	return client, nil
}

// Dimensions returns techdoc.EmbeddingDimensions.
func (e *Embedder) Dimensions() int {
	return techdoc.EmbeddingDimensions
}

// Encode embeds a single text.
func (e *Embedder) Encode(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EncodeBatch embeds texts in chunks of at most 100, preserving input order.
// Vectors are scaled to unit length since the API only normalizes them at
// full dimensionality. Returns EINVALID if any text is empty.
func (e *Embedder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if text == "" {
			return nil, techdoc.Errorf(techdoc.EINVALID, "text %d is empty", i)
		}
	}

	dims := int32(techdoc.EmbeddingDimensions)
	config := &genai.EmbedContentConfig{
		OutputDimensionality: &dims,
		TaskType:             e.taskType,
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := min(start+maxBatchSize, len(texts))

		contents := make([]*genai.Content, 0, end-start)
		for _, text := range texts[start:end] {
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := e.models.EmbedContent(ctx, e.model, contents, config)
		if err != nil {
			return nil, fmt.Errorf("gemini embed: %w", err)
		}
		if resp == nil || len(resp.Embeddings) != len(contents) {
			return nil, techdoc.Errorf(techdoc.EINTERNAL, "gemini returned %d embeddings for %d texts", embeddingCount(resp), len(contents))
		}
		for _, emb := range resp.Embeddings {
			if emb == nil || len(emb.Values) != techdoc.EmbeddingDimensions {
				return nil, techdoc.Errorf(techdoc.EINTERNAL, "gemini returned an embedding with %d dimensions, want %d", valueCount(emb), techdoc.EmbeddingDimensions)
			}
			vectors = append(vectors, techdoc.Normalize(emb.Values))
		}
	}
	return vectors, nil
}

func embeddingCount(resp *genai.EmbedContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Embeddings)
}

func valueCount(emb *genai.ContentEmbedding) int {
	if emb == nil {
		return 0
	}
	return len(emb.Values)
}
