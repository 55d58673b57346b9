package health

import (
	"context"

	"github.com/kailas-cloud/litsearch/internal/domain"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexInspector reports the state of the search index.
type IndexInspector interface {
	Stats(ctx context.Context) (domain.IndexStats, error)
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
