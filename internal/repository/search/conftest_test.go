package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/litsearch/internal/db"
	"github.com/kailas-cloud/litsearch/internal/repository/keyspace"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn    func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	scoreAllFn     func(ctx context.Context, q *db.ScoreQuery) (*db.ScoredResult, error)
	jsonGetMultiFn func(ctx context.Context, keys []string) ([][]byte, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) ScoreAll(ctx context.Context, q *db.ScoreQuery) (*db.ScoredResult, error) {
	if m.scoreAllFn != nil {
		return m.scoreAllFn(ctx, q)
	}
	return &db.ScoredResult{}, nil
}

func (m *mockStore) JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if m.jsonGetMultiFn != nil {
		return m.jsonGetMultiFn(ctx, keys)
	}
	return make([][]byte, len(keys)), nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "pubmed-tja", keyspace.New("litsearch:")), ms
}
