package document

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/litsearch/internal/domain"
	"github.com/kailas-cloud/litsearch/internal/domain/entity"
	"github.com/kailas-cloud/litsearch/internal/domain/vector"
)

// DOIPrefix is prepended to every stored DOI, including an empty one.
const DOIPrefix = "https://doi.org/"

// normTolerance bounds how far a stored embedding's norm may drift from 1.
const normTolerance = 1e-3

// Document is the literature record aggregate (immutable value object).
type Document struct {
	id                string
	title             string
	abstract          string
	authors           []string
	doi               string
	titleEmbedding    []float32
	abstractEmbedding []float32
	entities          []entity.Entity
	mentions          []entity.Entity
	meta              Meta
}

// Meta holds optional bibliographic fields carried over from the source record.
type Meta struct {
	PublicationDate string
	MeshHeadings    []string
	Keywords        []string
}

// Fields groups the validated inputs of New.
type Fields struct {
	ID                string
	Title             string
	Abstract          string
	Authors           []string
	DOI               string // raw DOI; New canonicalizes it
	TitleEmbedding    []float32
	AbstractEmbedding []float32
	Entities          []entity.Entity
	Mentions          []entity.Entity
	Meta              Meta
}

// New validates and creates a Document.
// Both embeddings must have domain.VectorDimensions elements and unit norm.
func New(f Fields) (Document, error) {
	if f.ID == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if err := checkEmbedding("title_embedding", f.TitleEmbedding); err != nil {
		return Document{}, err
	}
	if err := checkEmbedding("abstract_embedding", f.AbstractEmbedding); err != nil {
		return Document{}, err
	}
	if len(f.Entities) == 0 {
		return Document{}, fmt.Errorf("at least one category entity is required")
	}

	return Document{
		id:                f.ID,
		title:             f.Title,
		abstract:          f.Abstract,
		authors:           cloneStrings(f.Authors),
		doi:               CanonicalDOI(f.DOI),
		titleEmbedding:    f.TitleEmbedding,
		abstractEmbedding: f.AbstractEmbedding,
		entities:          cloneEntities(f.Entities),
		mentions:          cloneEntities(f.Mentions),
		meta: Meta{
			PublicationDate: f.Meta.PublicationDate,
			MeshHeadings:    cloneStrings(f.Meta.MeshHeadings),
			Keywords:        cloneStrings(f.Meta.Keywords),
		},
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
// doi is taken as already canonical.
func Reconstruct(f Fields) Document {
	return Document{
		id: f.ID, title: f.Title, abstract: f.Abstract, authors: f.Authors, doi: f.DOI,
		titleEmbedding: f.TitleEmbedding, abstractEmbedding: f.AbstractEmbedding,
		entities: f.Entities, mentions: f.Mentions, meta: f.Meta,
	}
}

// CanonicalDOI returns the DOI as a resolver URL.
func CanonicalDOI(doi string) string {
	return DOIPrefix + doi
}

func checkEmbedding(name string, v []float32) error {
	if len(v) != domain.VectorDimensions {
		return fmt.Errorf("%s: %w: got %d, want %d",
			name, domain.ErrVectorDimMismatch, len(v), domain.VectorDimensions)
	}
	if n := vector.Norm(v); math.Abs(n-1) > normTolerance {
		return fmt.Errorf("%s: not unit-normalized (norm %.4f)", name, n)
	}
	return nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Title returns the article title.
func (d *Document) Title() string { return d.title }

// Abstract returns the article abstract.
func (d *Document) Abstract() string { return d.abstract }

// Authors returns the author list in source order.
func (d *Document) Authors() []string { return d.authors }

// DOI returns the canonical DOI URL.
func (d *Document) DOI() string { return d.doi }

// TitleEmbedding returns the unit title vector.
func (d *Document) TitleEmbedding() []float32 { return d.titleEmbedding }

// AbstractEmbedding returns the unit abstract vector.
func (d *Document) AbstractEmbedding() []float32 { return d.abstractEmbedding }

// Entities returns the CATEGORY entities.
func (d *Document) Entities() []entity.Entity { return d.entities }

// Mentions returns the raw extracted entities, de-duplicated per label.
func (d *Document) Mentions() []entity.Entity { return d.mentions }

// Meta returns optional bibliographic fields.
func (d *Document) Meta() Meta { return d.meta }

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}

func cloneEntities(e []entity.Entity) []entity.Entity {
	if e == nil {
		return nil
	}
	c := make([]entity.Entity, len(e))
	copy(c, e)
	return c
}
