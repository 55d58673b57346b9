package chi

import (
	domdoc "github.com/kailas-cloud/litsearch/internal/domain/document"
	"github.com/kailas-cloud/litsearch/internal/domain/entity"
	"github.com/kailas-cloud/litsearch/internal/domain/search/result"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status  string          `json:"status"`
	Backend backendResponse `json:"backend"`
}

type backendResponse struct {
	Checks map[string]string `json:"checks"`
	Index  indexResponse     `json:"index"`
}

type indexResponse struct {
	Name           string  `json:"name"`
	Exists         bool    `json:"exists"`
	NumDocs        int     `json:"num_docs"`
	Indexing       bool    `json:"indexing"`
	PercentIndexed float64 `json:"percent_indexed"`
}

type searchRequest struct {
	Query string   `json:"query"`
	Alpha *float64 `json:"alpha,omitempty"`
}

type searchResponse struct {
	TotalResults    int          `json:"total_results"`
	ReturnedResults int          `json:"returned_results"`
	Query           string       `json:"query"`
	ExpandedQuery   string       `json:"expanded_query"`
	Results         []hitItem    `json:"results"`
	AggData         aggregations `json:"agg_data"`
}

type hitItem struct {
	ID     string        `json:"id"`
	Score  float64       `json:"score"`
	Source result.Source `json:"source"`
}

type aggregations struct {
	Entities termsAgg `json:"entities"`
}

type termsAgg struct {
	Buckets []bucket `json:"buckets"`
}

type bucket struct {
	Key      string `json:"key"`
	DocCount int    `json:"doc_count"`
}

type documentResponse struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Abstract          string          `json:"abstract"`
	Authors           []string        `json:"authors"`
	DOI               string          `json:"doi"`
	Entities          []entity.Entity `json:"entities"`
	Mentions          []entity.Entity `json:"mentions,omitempty"`
	PublicationDate   string          `json:"publication_date,omitempty"`
	MeshHeadings      []string        `json:"mesh_headings,omitempty"`
	Keywords          []string        `json:"keywords,omitempty"`
	TitleEmbedding    []float32       `json:"title_embedding,omitempty"`
	AbstractEmbedding []float32       `json:"abstract_embedding,omitempty"`
}

func documentToResponse(doc *domdoc.Document, withVectors bool) documentResponse {
	meta := doc.Meta()
	resp := documentResponse{
		ID:              doc.ID(),
		Title:           doc.Title(),
		Abstract:        doc.Abstract(),
		Authors:         nonNil(doc.Authors()),
		DOI:             doc.DOI(),
		Entities:        doc.Entities(),
		Mentions:        doc.Mentions(),
		PublicationDate: meta.PublicationDate,
		MeshHeadings:    meta.MeshHeadings,
		Keywords:        meta.Keywords,
	}
	if withVectors {
		resp.TitleEmbedding = doc.TitleEmbedding()
		resp.AbstractEmbedding = doc.AbstractEmbedding()
	}
	return resp
}

func searchResultToResponse(r *result.Result) searchResponse {
	hits := r.Hits()
	items := make([]hitItem, len(hits))
	for i := range hits {
		src := hits[i].Source()
		src.Authors = nonNil(src.Authors)
		items[i] = hitItem{ID: hits[i].ID(), Score: hits[i].Score(), Source: src}
	}

	facets := r.Facets()
	buckets := make([]bucket, len(facets))
	for i, f := range facets {
		buckets[i] = bucket{Key: f.Value, DocCount: f.Count}
	}

	return searchResponse{
		TotalResults:    r.Total(),
		ReturnedResults: len(items),
		Query:           r.Query(),
		ExpandedQuery:   r.ExpandedQuery(),
		Results:         items,
		AggData:         aggregations{Entities: termsAgg{Buckets: buckets}},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
