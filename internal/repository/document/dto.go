package document

import (
	domdoc "github.com/kailas-cloud/litsearch/internal/domain/document"
	"github.com/kailas-cloud/litsearch/internal/domain/entity"
)

// jsonDoc is the stored JSON layout. Index paths in repository/index refer to these names.
type jsonDoc struct {
	Title             string          `json:"title"`
	Abstract          string          `json:"abstract"`
	Authors           []string        `json:"authors"`
	DOI               string          `json:"doi"`
	TitleEmbedding    []float32       `json:"title_embedding"`
	AbstractEmbedding []float32       `json:"abstract_embedding"`
	Entities          []entity.Entity `json:"entities"`
	Mentions          []entity.Entity `json:"mentions,omitempty"`
	PublicationDate   string          `json:"publication_date,omitempty"`
	MeshHeadings      []string        `json:"mesh_headings,omitempty"`
	Keywords          []string        `json:"keywords,omitempty"`
}

func toJSONDoc(d *domdoc.Document) jsonDoc {
	meta := d.Meta()
	authors := d.Authors()
	if authors == nil {
		authors = []string{}
	}
	return jsonDoc{
		Title:             d.Title(),
		Abstract:          d.Abstract(),
		Authors:           authors,
		DOI:               d.DOI(),
		TitleEmbedding:    d.TitleEmbedding(),
		AbstractEmbedding: d.AbstractEmbedding(),
		Entities:          d.Entities(),
		Mentions:          d.Mentions(),
		PublicationDate:   meta.PublicationDate,
		MeshHeadings:      meta.MeshHeadings,
		Keywords:          meta.Keywords,
	}
}

func (j *jsonDoc) toDomain(id string) domdoc.Document {
	return domdoc.Reconstruct(domdoc.Fields{
		ID:                id,
		Title:             j.Title,
		Abstract:          j.Abstract,
		Authors:           j.Authors,
		DOI:               j.DOI,
		TitleEmbedding:    j.TitleEmbedding,
		AbstractEmbedding: j.AbstractEmbedding,
		Entities:          j.Entities,
		Mentions:          j.Mentions,
		Meta: domdoc.Meta{
			PublicationDate: j.PublicationDate,
			MeshHeadings:    j.MeshHeadings,
			Keywords:        j.Keywords,
		},
	})
}
