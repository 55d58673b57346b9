package result

import "github.com/kailas-cloud/litsearch/internal/domain/entity"

// Source is the projected part of a stored document returned with each hit.
type Source struct {
	Title    string          `json:"title"`
	Abstract string          `json:"abstract"`
	Authors  []string        `json:"authors"`
	DOI      string          `json:"doi"`
	Entities []entity.Entity `json:"entities"`
}

// Hit is a single ranked document.
type Hit struct {
	id     string
	score  float64
	source Source
}

// NewHit creates a ranked hit.
func NewHit(id string, score float64, source Source) Hit {
	return Hit{id: id, score: score, source: source}
}

// ID returns the document identifier.
func (h *Hit) ID() string { return h.id }

// Score returns the additive hybrid score.
func (h *Hit) Score() float64 { return h.score }

// Source returns the projected document fields.
func (h *Hit) Source() Source { return h.source }

// Facet is a single aggregation bucket.
type Facet struct {
	Value string
	Count int
}

// Result is the full response of the retrieval pipeline.
type Result struct {
	query         string
	expandedQuery string
	total         int
	hits          []Hit
	facets        []Facet
}

// New creates a result.
func New(query, expandedQuery string, total int, hits []Hit, facets []Facet) Result {
	return Result{query: query, expandedQuery: expandedQuery, total: total, hits: hits, facets: facets}
}

// Query returns the original query text.
func (r *Result) Query() string { return r.query }

// ExpandedQuery returns the query followed by the expansion terms (display only).
func (r *Result) ExpandedQuery() string { return r.expandedQuery }

// Total returns the number of matched documents.
func (r *Result) Total() int { return r.total }

// Hits returns the ranked documents.
func (r *Result) Hits() []Hit { return r.hits }

// Facets returns the entity aggregation buckets.
func (r *Result) Facets() []Facet { return r.facets }

// Neighbour is one pseudo-relevant document returned by the feedback query.
type Neighbour struct {
	ID        string
	Score     float64
	Abstract  string
	Embedding []float32
}

// Ranked is the outcome of a hybrid scoring pass over the corpus.
type Ranked struct {
	Total  int
	Hits   []Hit
	Facets []Facet
}
