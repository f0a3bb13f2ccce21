package marking

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"markpool/internal/config"
)

// Pool runs a fixed number of concurrent workers and waits for all of them.
type Pool struct {
	size    int
	onPanic func(worker int, value any)
}

// NewPool returns a pool of requested workers, raised to floor when smaller.
// floor itself is never below config.MinWorkersFloor.
func NewPool(requested, floor int) *Pool {
	if floor < config.MinWorkersFloor {
		floor = config.MinWorkersFloor
	}
	if requested < floor {
		requested = floor
	}
	return &Pool{size: requested}
}

// Size returns the number of workers Run starts.
func (p *Pool) Size() int {
	return p.size
}

// OnPanic registers a callback invoked from the panicking worker's goroutine
// after its panic has been recovered.
func (p *Pool) OnPanic(fn func(worker int, value any)) {
	p.onPanic = fn
}

// Run starts Size goroutines running fn with their worker index and blocks
// until every one returns. Worker errors and recovered panics are joined.
func (p *Pool) Run(ctx context.Context, fn func(ctx context.Context, worker int) error) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("worker %d panicked: %v\n%s", worker, r, debug.Stack()))
					mu.Unlock()
					if p.onPanic != nil {
						p.onPanic(worker, r)
					}
				}
			}()
			if err := fn(ctx, worker); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("worker %d: %w", worker, err))
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	return errors.Join(errs...)
}
