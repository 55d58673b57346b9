package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/litsearch/internal/db"
	"github.com/kailas-cloud/litsearch/internal/domain"
	domdoc "github.com/kailas-cloud/litsearch/internal/domain/document"
	"github.com/kailas-cloud/litsearch/internal/repository/keyspace"
)

// store is the consumer interface for documents (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// Repo stores literature records as JSON documents.
type Repo struct {
	store store
	keys  keyspace.Keyspace
	newID func() string
}

// New creates a document repository.
func New(s store, keys keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: keys, newID: uuid.NewString}
}

// Insert assigns a fresh UUID, validates the record and writes it.
// f.ID is ignored: identifiers belong to the index layer.
func (r *Repo) Insert(ctx context.Context, f domdoc.Fields) (domdoc.Document, error) {
	f.ID = r.newID()
	doc, err := domdoc.New(f)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("validate document: %w", err)
	}

	data, err := json.Marshal(toJSONDoc(&doc))
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("marshal document: %w", err)
	}

	key := r.keys.Doc(doc.ID())
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return domdoc.Document{}, fmt.Errorf("json.set %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}
	return doc, nil
}

// Get returns a document by ID. Identifiers that are not UUIDs cannot exist.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}

	key := r.keys.Doc(id)
	raw, err := r.store.JSONGet(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Document{}, domain.ErrDocumentNotFound
		}
		return domdoc.Document{}, fmt.Errorf("json.get %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}

	var j jsonDoc
	if err := json.Unmarshal(raw, &j); err != nil {
		return domdoc.Document{}, fmt.Errorf("decode document %s: %w", id, err)
	}
	return j.toDomain(id), nil
}
