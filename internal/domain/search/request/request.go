package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/litsearch/internal/domain"
)

// MaxQueryLength is the maximum allowed search query length.
const MaxQueryLength = 4096

// Request is a validated retrieval query.
type Request struct {
	query      string
	alphaFinal *float64
}

// New validates search parameters. alphaFinal may be nil to use the configured default.
func New(query string, alphaFinal *float64) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if alphaFinal != nil && (*alphaFinal < 0 || *alphaFinal > 1) {
		return Request{}, fmt.Errorf("%w: alpha must be between 0 and 1", domain.ErrInvalidRequest)
	}
	var a *float64
	if alphaFinal != nil {
		v := *alphaFinal
		a = &v
	}
	return Request{query: query, alphaFinal: a}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// AlphaFinal returns the per-request blend weight, or def when unset.
func (r *Request) AlphaFinal(def float64) float64 {
	if r.alphaFinal == nil {
		return def
	}
	return *r.alphaFinal
}
