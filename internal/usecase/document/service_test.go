package document

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/litsearch/internal/domain"
	domdoc "github.com/kailas-cloud/litsearch/internal/domain/document"
)

type mockRepo struct {
	getFn func(ctx context.Context, id string) (domdoc.Document, error)
	calls int
}

func (m *mockRepo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	m.calls++
	return m.getFn(ctx, id)
}

func TestGet_OK(t *testing.T) {
	repo := &mockRepo{getFn: func(_ context.Context, id string) (domdoc.Document, error) {
		return domdoc.Reconstruct(domdoc.Fields{ID: id, Title: "Hip outcomes"}), nil
	}}
	svc := New(repo)

	doc, err := svc.Get(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "abc" || doc.Title() != "Hip outcomes" {
		t.Errorf("unexpected document: %s / %s", doc.ID(), doc.Title())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := &mockRepo{getFn: func(_ context.Context, _ string) (domdoc.Document, error) {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}}
	svc := New(repo)

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_EmptyID(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	_, err := svc.Get(context.Background(), " ")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if repo.calls != 0 {
		t.Errorf("repository called %d times", repo.calls)
	}
}
