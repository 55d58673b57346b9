package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/litsearch/internal/db"
	domdoc "github.com/kailas-cloud/litsearch/internal/domain/document"
	"github.com/kailas-cloud/litsearch/internal/domain/entity"
	"github.com/kailas-cloud/litsearch/internal/repository/keyspace"
)

const testID = "0b6f3c3e-8a57-4d0f-9a8e-3f3c5e1f2a10"

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn func(ctx context.Context, key string, paths ...string) ([]byte, error)
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, keyspace.New("litsearch:"))
	repo.newID = func() string { return testID }
	return repo, ms
}

// unitVector returns a 768-dim basis vector e_i.
func unitVector(i int) []float32 {
	v := make([]float32, 768)
	v[i] = 1
	return v
}

func testFields() domdoc.Fields {
	return domdoc.Fields{
		Title:             "Outcomes after TKA",
		Abstract:          "We studied TKA patients.",
		Authors:           []string{"Smith, John", "Doe, Jane"},
		DOI:               "10.1000/xyz",
		TitleEmbedding:    unitVector(0),
		AbstractEmbedding: unitVector(1),
		Entities:          []entity.Entity{{Text: "TKA", Label: entity.LabelCategory}},
		Mentions:          []entity.Entity{{Text: "osteoarthritis", Label: entity.LabelDisease}},
		Meta:              domdoc.Meta{PublicationDate: "2021 Mar", Keywords: []string{"knee"}},
	}
}
