package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/litsearch/internal/db"
	"github.com/kailas-cloud/litsearch/internal/domain"
	"github.com/kailas-cloud/litsearch/internal/repository/keyspace"
)

// store is the consumer interface for index lifecycle (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
	IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error)
}

// Repo manages the literature search index.
type Repo struct {
	store store
	name  string
	keys  keyspace.Keyspace
	dim   int
	hnsw  domain.HNSWConfig
}

// New creates an index repository for the named index.
func New(s store, name string, keys keyspace.Keyspace, dim int) *Repo {
	return &Repo{store: s, name: name, keys: keys, dim: dim, hnsw: domain.DefaultHNSWConfig()}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg domain.HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// Name returns the index name.
func (r *Repo) Name() string { return r.name }

// Create declares the index schema. An existing index yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context) error {
	def, err := buildSchema(r.name, r.keys.DocPrefix(), r.dim, r.hnsw)
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("index %s: %w", r.name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("create index %s: %w: %w", r.name, domain.ErrIndexUnavailable, err)
	}
	return nil
}

// Drop removes the index together with its documents.
// It reports whether an index was actually there.
func (r *Repo) Drop(ctx context.Context) (bool, error) {
	if err := r.store.DropIndex(ctx, r.name, true); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("drop index %s: %w: %w", r.name, domain.ErrIndexUnavailable, err)
	}
	return true, nil
}

// Stats returns index existence and document counters. A missing index is not an error.
func (r *Repo) Stats(ctx context.Context) (domain.IndexStats, error) {
	info, err := r.store.IndexInfo(ctx, r.name)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return domain.IndexStats{Name: r.name}, nil
		}
		return domain.IndexStats{}, fmt.Errorf("index info %s: %w: %w", r.name, domain.ErrIndexUnavailable, err)
	}
	return domain.IndexStats{
		Name:           r.name,
		Exists:         true,
		NumDocs:        info.NumDocs,
		Indexing:       info.Indexing,
		PercentIndexed: info.PercentIdx,
	}, nil
}

// Exists reports whether the index is declared.
func (r *Repo) Exists(ctx context.Context) (bool, error) {
	ok, err := r.store.IndexExists(ctx, r.name)
	if err != nil {
		return false, fmt.Errorf("index exists %s: %w: %w", r.name, domain.ErrIndexUnavailable, err)
	}
	return ok, nil
}
