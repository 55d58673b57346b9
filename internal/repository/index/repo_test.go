package index

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/litsearch/internal/db"
	"github.com/kailas-cloud/litsearch/internal/domain"
)

func TestCreate_Schema(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		got = def
		return nil
	}

	if err := repo.Create(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Name != "pubmed-tja" {
		t.Errorf("name = %q", got.Name)
	}
	if got.StorageType != db.StorageJSON {
		t.Errorf("storage = %q, want JSON", got.StorageType)
	}
	if len(got.Prefixes) != 1 || got.Prefixes[0] != "litsearch:doc:" {
		t.Errorf("prefixes = %v", got.Prefixes)
	}

	for _, alias := range []string{FieldTitleEmbedding, FieldAbstractEmbedding} {
		f, ok := got.Field(alias)
		if !ok {
			t.Fatalf("missing vector field %s", alias)
		}
		if f.Type != db.IndexFieldVector || f.VectorDim != 768 || f.VectorDistance != db.DistanceCosine {
			t.Errorf("%s = %+v", alias, f)
		}
		if f.VectorM != 16 || f.VectorEFConstruct != 200 {
			t.Errorf("%s hnsw = M %d EF %d, want 16/200", alias, f.VectorM, f.VectorEFConstruct)
		}
	}

	entity, ok := got.Field(FieldEntity)
	if !ok || entity.Type != db.IndexFieldTag || entity.Name != PathEntity {
		t.Errorf("entity field = %+v", entity)
	}
	if _, ok := got.Field(FieldLabel); !ok {
		t.Error("missing label field")
	}
	for _, alias := range []string{FieldTitle, FieldAbstract} {
		f, ok := got.Field(alias)
		if !ok || f.Type != db.IndexFieldText {
			t.Errorf("%s = %+v, want TEXT", alias, f)
		}
	}
}

func TestCreate_CustomHNSW(t *testing.T) {
	repo, ms := newTestRepo(t)
	repo.WithHNSW(domain.HNSWConfig{M: 32})

	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		f, _ := def.Field(FieldAbstractEmbedding)
		if f.VectorM != 32 || f.VectorEFConstruct != 200 {
			t.Errorf("hnsw = M %d EF %d, want 32/200", f.VectorM, f.VectorEFConstruct)
		}
		return nil
	}
	if err := repo.Create(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreate_AlreadyExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		return db.ErrIndexExists
	}

	err := repo.Create(context.Background())
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_BackendError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		return &db.Error{Op: db.OpCreateIndex, Err: errors.New("connection refused")}
	}

	err := repo.Create(context.Background())
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestDrop_DeletesDocuments(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.dropIndexFn = func(_ context.Context, name string, deleteDocs bool) error {
		if name != "pubmed-tja" || !deleteDocs {
			t.Errorf("drop(%q, %v)", name, deleteDocs)
		}
		return nil
	}

	dropped, err := repo.Drop(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dropped {
		t.Error("expected dropped=true")
	}
}

func TestDrop_MissingIndex(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.dropIndexFn = func(_ context.Context, _ string, _ bool) error {
		return db.ErrIndexNotFound
	}

	dropped, err := repo.Drop(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped {
		t.Error("expected dropped=false")
	}
}

func TestStats(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexInfoFn = func(_ context.Context, name string) (*db.IndexInfo, error) {
		return &db.IndexInfo{Name: name, NumDocs: 5000, PercentIdx: 1}, nil
	}

	st, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.Exists || st.NumDocs != 5000 || st.PercentIndexed != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestStats_MissingIndex(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexInfoFn = func(_ context.Context, _ string) (*db.IndexInfo, error) {
		return nil, db.ErrIndexNotFound
	}

	st, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Exists {
		t.Error("expected Exists=false")
	}
}

func TestExists_BackendError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) {
		return false, errors.New("timeout")
	}

	if _, err := repo.Exists(context.Background()); !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}
