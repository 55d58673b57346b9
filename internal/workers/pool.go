// Package workers runs bounded fan-out on a shared goroutine pool.
package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Submitter is the part of *ants.Pool the fan-out helpers need.
type Submitter interface {
	Submit(task func()) error
}

// NewPool creates the process-wide pool. Size below 1 is raised to 1.
func NewPool(size int, logger *zap.Logger) (*ants.Pool, error) {
	if size < 1 {
		size = 1
	}
	pool, err := ants.NewPool(size, ants.WithPanicHandler(func(p any) {
		logger.Error("Worker panic", zap.Any("panic", p))
	}))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return pool, nil
}

// ForEach calls fn for every index in [0, n) on the pool and waits for all of them.
// errs[i] is the outcome of item i; items are never reordered or merged.
// Must not be called from inside a pool task.
func ForEach(ctx context.Context, pool Submitter, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup

	for i := range n {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("panic: %v", r)
				}
			}()
			errs[i] = fn(ctx, i)
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit task: %w", err)
		}
	}

	wg.Wait()
	return errs
}
