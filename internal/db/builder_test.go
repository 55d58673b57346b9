package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_JSONSchema(t *testing.T) {
	idx := NewIndex("pubmed-tja").
		OnJSON().
		Prefix("litsearch:doc:").
		Text("$.title", "title").
		Tag("$.entities[*].entity", "entity").
		VectorHNSW("$.abstract_embedding", "abstract_embedding", 768, DistanceCosine, 16, 200).
		MustBuild()

	if idx.StorageType != StorageJSON {
		t.Errorf("storage = %q, want JSON", idx.StorageType)
	}
	if len(idx.Fields) != 3 {
		t.Fatalf("fields count = %d, want 3", len(idx.Fields))
	}
	if idx.Fields[1].Key() != "entity" || !idx.Fields[1].TagCaseSensitive {
		t.Errorf("field[1] = %+v, want case-sensitive entity TAG", idx.Fields[1])
	}
	f, ok := idx.Field("abstract_embedding")
	if !ok {
		t.Fatal("abstract_embedding not found by alias")
	}
	if f.VectorDim != 768 || f.VectorM != 16 || f.VectorEFConstruct != 200 {
		t.Errorf("vector field = %+v", f)
	}
	if f.VectorDistance != DistanceCosine {
		t.Errorf("distance = %q, want COSINE", f.VectorDistance)
	}
}

func TestIndexBuilder_DefaultStorageHash(t *testing.T) {
	idx := NewIndex("h").Tag("t", "").MustBuild()
	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *IndexBuilder
		wantErr string
	}{
		{"empty name", NewIndex("").Tag("t", ""), "name is required"},
		{"invalid name", NewIndex("bad name").Tag("t", ""), "invalid characters"},
		{"no fields", NewIndex("idx"), "at least one field"},
		{"duplicate alias", NewIndex("idx").Tag("$.a", "x").Text("$.b", "x"), "duplicate"},
		{"zero dim", NewIndex("idx").VectorHNSW("$.v", "v", 0, DistanceCosine, 16, 200), "positive DIM"},
		{"negative m", NewIndex("idx").VectorHNSW("$.v", "v", 8, DistanceCosine, -1, 200), "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestIndexBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewIndex("").MustBuild()
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("idx").OnJSON().Prefix("p:").
		Text("$.title", "title").
		VectorHNSW("$.v", "v", 4, DistanceCosine, 16, 200).
		MustBuild()

	got := idx.String()
	want := "FT.CREATE idx ON JSON PREFIX p: SCHEMA $.title AS title TEXT $.v AS v VECTOR HNSW DIM 4"
	if got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"pubmed-tja", "a:b_c", "X1"}
	invalid := []string{"", "a b", "a.b", "ä"}
	for _, s := range valid {
		if !IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = false", s)
		}
	}
	for _, s := range invalid {
		if IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = true", s)
		}
	}
}
