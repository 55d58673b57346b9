package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/litsearch/internal/domain"
	domdoc "github.com/kailas-cloud/litsearch/internal/domain/document"
)

// Service serves stored literature records.
type Service struct {
	repo Repository
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves a document by ID.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	if strings.TrimSpace(id) == "" {
		return domdoc.Document{}, fmt.Errorf("%w: document id is required", domain.ErrInvalidRequest)
	}
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}
