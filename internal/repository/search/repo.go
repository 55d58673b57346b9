package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/litsearch/internal/db"
	"github.com/kailas-cloud/litsearch/internal/domain"
	"github.com/kailas-cloud/litsearch/internal/domain/entity"
	"github.com/kailas-cloud/litsearch/internal/domain/search/request"
	"github.com/kailas-cloud/litsearch/internal/domain/search/result"
	"github.com/kailas-cloud/litsearch/internal/repository/index"
	"github.com/kailas-cloud/litsearch/internal/repository/keyspace"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	ScoreAll(ctx context.Context, q *db.ScoreQuery) (*db.ScoredResult, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// Repo runs the retrieval queries against the literature index.
type Repo struct {
	store    store
	index    string
	keys     keyspace.Keyspace
	pageSize int
}

// New creates a search repository.
func New(s store, indexName string, keys keyspace.Keyspace) *Repo {
	return &Repo{store: s, index: indexName, keys: keys}
}

// WithScanPageSize sets how many documents one scoring page fetches.
func (r *Repo) WithScanPageSize(n int) *Repo {
	if n > 0 {
		r.pageSize = n
	}
	return r
}

// Neighbours returns up to size nearest abstracts to vec, searching k candidates.
// Neighbours whose stored embedding cannot be decoded are dropped.
func (r *Repo) Neighbours(ctx context.Context, vec []float32, k, size int) ([]result.Neighbour, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.index,
		Field:        index.FieldAbstractEmbedding,
		Vector:       vec,
		K:            k,
		Limit:        size,
		ReturnFields: []string{index.PathAbstract, index.PathAbstractEmbedding},
	})
	if err != nil {
		return nil, fmt.Errorf("knn %s: %w: %w", r.index, domain.ErrIndexUnavailable, err)
	}

	out := make([]result.Neighbour, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		emb, ok := decodeVector(e.Fields[index.PathAbstractEmbedding])
		if !ok {
			continue
		}
		out = append(out, result.Neighbour{
			ID:        r.keys.DocID(e.Key),
			Score:     e.Score,
			Abstract:  decodeString(e.Fields[index.PathAbstract]),
			Embedding: emb,
		})
	}
	return out, nil
}

// Hybrid ranks the whole corpus and projects the top hits.
func (r *Repo) Hybrid(ctx context.Context, q request.Hybrid) (result.Ranked, error) {
	scored, err := r.store.ScoreAll(ctx, &db.ScoreQuery{
		IndexName: r.index,
		Clauses: []db.VectorClause{
			{Field: index.PathAbstractEmbedding, Vector: q.Abstract, Bias: q.AbstractBias},
			{Field: index.PathTitleEmbedding, Vector: q.Title, Bias: q.TitleBias},
		},
		Size:     q.Size,
		PageSize: r.pageSize,
		Facet:    &db.FacetSpec{Field: index.PathEntity, Size: q.FacetSize},
	})
	if err != nil {
		return result.Ranked{}, fmt.Errorf("score %s: %w: %w", r.index, domain.ErrIndexUnavailable, err)
	}

	hits, err := r.project(ctx, scored.Entries)
	if err != nil {
		return result.Ranked{}, err
	}

	facets := make([]result.Facet, len(scored.Facets))
	for i, b := range scored.Facets {
		facets[i] = result.Facet{Value: b.Value, Count: b.Count}
	}

	return result.Ranked{Total: scored.Total, Hits: hits, Facets: facets}, nil
}

// source is the projected subset of the stored document.
type source struct {
	Title    string          `json:"title"`
	Abstract string          `json:"abstract"`
	Authors  []string        `json:"authors"`
	DOI      string          `json:"doi"`
	Entities []entity.Entity `json:"entities"`
}

// project fetches the hit documents in one round-trip, keeping score order.
// A document deleted between scoring and fetching is left out.
func (r *Repo) project(ctx context.Context, entries []db.SearchEntry) ([]result.Hit, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	raws, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch hits: %w: %w", domain.ErrIndexUnavailable, err)
	}

	hits := make([]result.Hit, 0, len(entries))
	for i, e := range entries {
		if i >= len(raws) || raws[i] == nil {
			continue
		}
		var s source
		if err := json.Unmarshal(raws[i], &s); err != nil {
			return nil, fmt.Errorf("decode hit %s: %w", e.Key, err)
		}
		hits = append(hits, result.NewHit(r.keys.DocID(e.Key), e.Score, result.Source{
			Title:    s.Title,
			Abstract: s.Abstract,
			Authors:  s.Authors,
			DOI:      s.DOI,
			Entities: s.Entities,
		}))
	}
	return hits, nil
}

// decodeVector accepts a JSON array of numbers or, as DIALECT 3 returns, an array of them.
func decodeVector(raw string) ([]float32, bool) {
	var v []float32
	if err := json.Unmarshal([]byte(raw), &v); err == nil && len(v) > 0 {
		return v, true
	}
	var matches [][]float32
	if err := json.Unmarshal([]byte(raw), &matches); err == nil && len(matches) > 0 && len(matches[0]) > 0 {
		return matches[0], true
	}
	return nil, false
}

// decodeString unquotes a JSON string value; bare text passes through.
func decodeString(raw string) string {
	if !strings.HasPrefix(raw, `"`) {
		return raw
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return raw
	}
	return s
}
