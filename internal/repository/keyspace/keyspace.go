// Package keyspace names the Redis keys the service owns.
package keyspace

import "strings"

// Keyspace derives keys from a common prefix such as "litsearch:".
type Keyspace struct {
	prefix string
}

// New creates a keyspace rooted at prefix.
func New(prefix string) Keyspace {
	return Keyspace{prefix: prefix}
}

// DocPrefix is the prefix the search index is declared over.
func (k Keyspace) DocPrefix() string { return k.prefix + "doc:" }

// Doc returns the key of the document with the given id.
func (k Keyspace) Doc(id string) string { return k.DocPrefix() + id }

// DocID strips the document prefix from key.
func (k Keyspace) DocID(key string) string { return strings.TrimPrefix(key, k.DocPrefix()) }

// EmbeddingCache returns the cache key for a text digest.
func (k Keyspace) EmbeddingCache(digest string) string { return k.prefix + "emb_cache:" + digest }
