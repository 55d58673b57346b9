package domain

import (
	"context"
	"sync/atomic"
)

type embeddingUsageKey struct{}

// EmbeddingUsage tallies embedding calls made on behalf of one request.
// Safe for concurrent use: query expansion embeds terms in parallel.
type EmbeddingUsage struct {
	calls  atomic.Int64
	tokens atomic.Int64
}

// NewContextWithUsage returns a context carrying a fresh usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, embeddingUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(embeddingUsageKey{}).(*EmbeddingUsage)
	return u
}

// Add records one successful call. A nil receiver is a no-op.
func (u *EmbeddingUsage) Add(tokens int) {
	if u == nil {
		return
	}
	u.calls.Add(1)
	u.tokens.Add(int64(tokens))
}

// Calls returns the number of recorded calls, cache hits included.
func (u *EmbeddingUsage) Calls() int64 { return u.calls.Load() }

// Tokens returns the provider tokens consumed.
func (u *EmbeddingUsage) Tokens() int64 { return u.tokens.Load() }
