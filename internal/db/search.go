package db

// KNNQuery is the input for vector similarity search.
// K bounds the ANN candidate set, Limit bounds how many hits come back.
type KNNQuery struct {
	IndexName    string
	Field        string // vector field alias
	Vector       []float32
	K            int
	Limit        int // 0 means K
	ReturnFields []string
}

// VectorClause is one additive scoring term: cosine(Vector, Field) + Bias.
type VectorClause struct {
	Field  string // JSON path of the stored vector
	Vector []float32
	Bias   float64
}

// FacetSpec asks for the most frequent values found at Field.
type FacetSpec struct {
	Field string // JSON path, may match several values per document
	Size  int
}

// ScoreQuery scores every document in the index by summing its clauses,
// the equivalent of a match-all query with script scoring.
type ScoreQuery struct {
	IndexName string
	Clauses   []VectorClause
	Size      int
	PageSize  int
	Facet     *FacetSpec
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// FacetBucket is a single facet value with its occurrence count.
type FacetBucket struct {
	Value string
	Count int
}

// ScoredResult is the output of ScoreAll. Entries carry only keys and scores.
type ScoredResult struct {
	Total   int
	Entries []SearchEntry
	Facets  []FacetBucket
}
