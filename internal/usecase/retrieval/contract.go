package retrieval

import (
	"context"

	"github.com/kailas-cloud/litsearch/internal/domain"
	"github.com/kailas-cloud/litsearch/internal/domain/search/request"
	"github.com/kailas-cloud/litsearch/internal/domain/search/result"
)

// Repository defines the index queries the pipeline runs.
type Repository interface {
	Neighbours(ctx context.Context, vec []float32, k, size int) ([]result.Neighbour, error)
	Hybrid(ctx context.Context, q request.Hybrid) (result.Ranked, error)
}

// Embedder vectorizes text into unit embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
