package index

import (
	"github.com/kailas-cloud/litsearch/internal/db"
	"github.com/kailas-cloud/litsearch/internal/domain"
)

// JSON paths of the stored document. The search repository scores and facets on these.
const (
	PathTitle             = "$.title"
	PathAbstract          = "$.abstract"
	PathTitleEmbedding    = "$.title_embedding"
	PathAbstractEmbedding = "$.abstract_embedding"
	PathEntity            = "$.entities[*].entity"
	PathLabel             = "$.entities[*].label"
)

// Aliases the schema assigns to the paths above.
const (
	FieldTitle             = "title"
	FieldAbstract          = "abstract"
	FieldTitleEmbedding    = "title_embedding"
	FieldAbstractEmbedding = "abstract_embedding"
	FieldEntity            = "entity"
	FieldLabel             = "label"
)

// buildSchema declares the literature index over JSON documents under docPrefix.
func buildSchema(name, docPrefix string, dim int, hnsw domain.HNSWConfig) (*db.IndexDefinition, error) {
	return db.NewIndex(name).
		OnJSON().
		Prefix(docPrefix).
		Text(PathTitle, FieldTitle).
		Text(PathAbstract, FieldAbstract).
		Tag(PathEntity, FieldEntity).
		Tag(PathLabel, FieldLabel).
		VectorHNSW(PathTitleEmbedding, FieldTitleEmbedding, dim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).
		VectorHNSW(PathAbstractEmbedding, FieldAbstractEmbedding, dim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).
		Build()
}
