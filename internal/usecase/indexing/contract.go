package indexing

import (
	"context"

	"github.com/kailas-cloud/litsearch/internal/domain"
	domdoc "github.com/kailas-cloud/litsearch/internal/domain/document"
)

// DocumentWriter persists validated documents.
type DocumentWriter interface {
	Insert(ctx context.Context, f domdoc.Fields) (domdoc.Document, error)
}

// IndexManager creates and drops the search index.
type IndexManager interface {
	Name() string
	Create(ctx context.Context) error
	Drop(ctx context.Context) (bool, error)
}

// Embedder vectorizes text into unit embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
