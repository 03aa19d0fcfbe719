// Package worker runs independent per-document transforms in parallel while
// keeping results index-aligned with their inputs, so callers can fold them
// back in deterministic order.
package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task holds one processed input with its result or error.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc is the function signature for processing a single task.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool is a generic worker pool with configurable concurrency.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a new worker pool.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// Execute runs all inputs through the pool. results[i] always corresponds to
// inputs[i] regardless of completion order. On context cancellation the
// remaining inputs are not processed; their tasks carry ctx.Err() so callers
// count them as failures instead of empty successes.
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	done := make([]bool, len(inputs))
	inputCh := make(chan int, len(inputs))

	var wg sync.WaitGroup

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-inputCh:
					if !ok {
						return
					}
					result, err := p.process(ctx, inputs[idx])
					results[idx] = Task[T, R]{
						Input:  inputs[idx],
						Result: result,
						Err:    err,
					}
					done[idx] = true
					if err != nil {
						log.Error().Err(err).Int("worker", workerID).Int("index", idx).Msg("Document task failed")
					}
				}
			}
		}(w)
	}

	for i := range inputs {
		inputCh <- i
	}
	close(inputCh)

	wg.Wait()

	if err := ctx.Err(); err != nil {
		skipped := 0
		for i := range results {
			if !done[i] {
				results[i] = Task[T, R]{Input: inputs[i], Err: err}
				skipped++
			}
		}
		if skipped > 0 {
			log.Warn().Int("skipped", skipped).Msg("Run canceled before all tasks were processed")
		}
	}
	return results
}
