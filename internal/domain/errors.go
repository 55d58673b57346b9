package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)
	// ErrInvalidRequest signals caller input rejected before any external call.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrProviderUnavailable signals a failed or timed out embedding/extraction call.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrIndexUnavailable signals an unreachable backend or a missing index.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrAlreadyExists signals a create on something that is already there.
	ErrAlreadyExists = errors.New("already exists")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)

// ProviderError wraps ErrProviderUnavailable with the failing capability name.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrProviderUnavailable.Error(), e.Provider, e.Err)
}

// Is reports ErrProviderUnavailable so callers need not unwrap manually.
func (e *ProviderError) Is(target error) bool { return target == ErrProviderUnavailable }

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps err as a provider failure attributed to provider.
func NewProviderError(provider string, err error) error {
	return &ProviderError{Provider: provider, Err: err}
}
