package domain

// VectorDimensions is the length of every stored and query embedding.
const VectorDimensions = 768

// RetrievalConfig holds the tunables of the retrieval pipeline.
// PRFK and PRFSize are deliberately separate: K bounds the ANN candidate
// search, Size bounds how many neighbours come back.
type RetrievalConfig struct {
	PRFK           int
	PRFSize        int
	AlphaPRF       float64
	AlphaFinal     float64
	ExpansionTerms int
	ResultSize     int
	FacetSize      int
	AbstractBias   float64
	TitleBias      float64
}

// DefaultRetrievalConfig returns the reference ranking parameters.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		PRFK:           100,
		PRFSize:        50,
		AlphaPRF:       0.4,
		AlphaFinal:     0.7,
		ExpansionTerms: 5,
		ResultSize:     50,
		FacetSize:      10,
		AbstractBias:   2.5,
		TitleBias:      1.5,
	}
}

// HNSWConfig holds the ANN graph parameters for vector fields.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// DefaultHNSWConfig returns connectivity 16 and construction breadth 200.
func DefaultHNSWConfig() HNSWConfig {
	return HNSWConfig{M: 16, EFConstruct: 200}
}

// IndexStats is the index state reported by health checks.
type IndexStats struct {
	Name           string
	Exists         bool
	NumDocs        int
	Indexing       bool
	PercentIndexed float64
}
