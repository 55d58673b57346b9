package domain

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/litsearch/internal/domain/vector"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// UnitEmbedder is a domain decorator that enforces the vector contract of the index:
// a fixed dimension and unit Euclidean norm.
type UnitEmbedder struct {
	inner Embedder
	dim   int
}

// NewUnitEmbedder wraps inner so every result has exactly dim elements and norm 1.
func NewUnitEmbedder(inner Embedder, dim int) *UnitEmbedder {
	return &UnitEmbedder{inner: inner, dim: dim}
}

// Embed delegates to the inner embedder, checks the dimension and normalizes.
func (e *UnitEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	res, err := e.inner.Embed(ctx, text)
	if err != nil {
		return EmbeddingResult{}, err
	}
	if len(res.Embedding) != e.dim {
		return EmbeddingResult{}, NewProviderError("embedding",
			fmt.Errorf("%w: got %d, want %d", ErrVectorDimMismatch, len(res.Embedding), e.dim))
	}
	unit, err := vector.Normalize(res.Embedding)
	if err != nil {
		return EmbeddingResult{}, NewProviderError("embedding", err)
	}
	res.Embedding = unit
	return res, nil
}

// HealthCheck forwards to the inner embedder when it supports health checks.
func (e *UnitEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
