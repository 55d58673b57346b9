package document

import (
	"context"

	domdoc "github.com/kailas-cloud/litsearch/internal/domain/document"
)

// Repository defines the read contract for stored documents.
type Repository interface {
	Get(ctx context.Context, id string) (domdoc.Document, error)
}
