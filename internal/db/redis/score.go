package redis

import (
	"container/heap"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/kailas-cloud/litsearch/internal/db"
	"github.com/kailas-cloud/litsearch/internal/domain/vector"
)

const defaultScanPageSize = 500

// ScoreAll scores every document of the index against q.Clauses.
//
// The Query Engine has no script scoring, so the store pages through a
// match-all FT.SEARCH with DIALECT 3 (each returned path is a JSON array of
// matches) and computes the sum of cosine(clause, stored) + bias per document.
// Documents whose vectors cannot be decoded are skipped and not counted.
func (s *Store) ScoreAll(ctx context.Context, q *db.ScoreQuery) (*db.ScoredResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Clauses) == 0 {
		return nil, fmt.Errorf("at least one clause is required")
	}
	if q.Size <= 0 {
		return nil, fmt.Errorf("size must be positive")
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultScanPageSize
	}

	returnFields := make([]string, 0, len(q.Clauses)+1)
	for _, c := range q.Clauses {
		returnFields = append(returnFields, c.Field)
	}
	if q.Facet != nil {
		returnFields = append(returnFields, q.Facet.Field)
	}

	top := &scoredHeap{}
	facets := make(map[string]int)
	scored := 0

	for offset := 0; ; offset += pageSize {
		page, err := s.scanPage(ctx, q.IndexName, returnFields, offset, pageSize)
		if err != nil {
			return nil, err
		}

		for _, e := range page.Entries {
			score, ok := scoreEntry(e.Fields, q.Clauses)
			if !ok {
				continue
			}
			scored++
			pushBounded(top, db.SearchEntry{Key: e.Key, Score: score}, q.Size)

			if q.Facet != nil {
				for _, v := range decodeStrings(e.Fields[q.Facet.Field]) {
					facets[v]++
				}
			}
		}

		if len(page.Entries) == 0 || offset+pageSize >= page.Total {
			break
		}
	}

	res := &db.ScoredResult{Total: scored, Entries: drainDesc(top)}
	if q.Facet != nil {
		res.Facets = topFacets(facets, q.Facet.Size)
	}
	return res, nil
}

func (s *Store) scanPage(
	ctx context.Context, index string, fields []string, offset, limit int,
) (*db.SearchResult, error) {
	args := []string{index, "*", "RETURN", strconv.Itoa(len(fields))}
	args = append(args, fields...)
	args = append(args, "LIMIT", strconv.Itoa(offset), strconv.Itoa(limit), "DIALECT", "3")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isMissingIndex(err) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return parseListResult(raw)
}

func scoreEntry(fields map[string]string, clauses []db.VectorClause) (float64, bool) {
	var total float64
	for _, c := range clauses {
		v, ok := decodeVector(fields[c.Field])
		if !ok {
			return 0, false
		}
		total += vector.Cosine(c.Vector, v) + c.Bias
	}
	return total, true
}

// decodeVector reads a DIALECT 3 reply: [[f1, f2, ...]].
func decodeVector(raw string) ([]float32, bool) {
	if raw == "" {
		return nil, false
	}
	var matches [][]float32
	if err := json.Unmarshal([]byte(raw), &matches); err != nil || len(matches) == 0 || len(matches[0]) == 0 {
		return nil, false
	}
	return matches[0], true
}

// decodeStrings reads a DIALECT 3 reply of string values: ["a", "b"].
func decodeStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func topFacets(counts map[string]int, size int) []db.FacetBucket {
	buckets := make([]db.FacetBucket, 0, len(counts))
	for v, n := range counts {
		buckets = append(buckets, db.FacetBucket{Value: v, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Value < buckets[j].Value
	})
	if size > 0 && len(buckets) > size {
		buckets = buckets[:size]
	}
	return buckets
}

// scoredHeap is a min-heap on rank: the root is the weakest kept entry.
type scoredHeap []db.SearchEntry

func (h scoredHeap) Len() int           { return len(h) }
func (h scoredHeap) Less(i, j int) bool { return ranksBelow(h[i], h[j]) }
func (h scoredHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *scoredHeap) Push(x any)        { *h = append(*h, x.(db.SearchEntry)) }
func (h *scoredHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// ranksBelow orders by score desc, then key asc.
func ranksBelow(a, b db.SearchEntry) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Key > b.Key
}

func pushBounded(h *scoredHeap, e db.SearchEntry, size int) {
	if h.Len() < size {
		heap.Push(h, e)
		return
	}
	if ranksBelow((*h)[0], e) {
		(*h)[0] = e
		heap.Fix(h, 0)
	}
}

func drainDesc(h *scoredHeap) []db.SearchEntry {
	out := make([]db.SearchEntry, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(db.SearchEntry)
	}
	return out
}
