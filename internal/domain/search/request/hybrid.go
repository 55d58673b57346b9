package request

// Hybrid scores every document by
// cos(Abstract, abstract_embedding) + AbstractBias + cos(Title, title_embedding) + TitleBias.
type Hybrid struct {
	Abstract     []float32
	AbstractBias float64
	Title        []float32
	TitleBias    float64
	Size         int
	FacetSize    int
}
