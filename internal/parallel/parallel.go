// Package parallel runs per-item work on a bounded pool of goroutines.
package parallel

import (
	"context"
	"sync"
)

// Result pairs an item's output with its error. Index is the item's
// position in the input.
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// Map applies fn to every item using at most workers goroutines and returns
// results in input order. Once ctx is done, items not yet started fail with
// ctx.Err() without calling fn.
func Map[T any, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return nil
	}
	if workers < 1 || workers > len(items) {
		workers = len(items)
	}

	results := make([]Result[R], len(items))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := Result[R]{Index: i}
				if err := ctx.Err(); err != nil {
					r.Err = err
				} else {
					r.Value, r.Err = fn(ctx, items[i])
				}
				results[i] = r
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// Collect applies fn to every item and keeps the values fn accepts. Output
// order follows input order.
func Collect[T any, R any](items []T, fn func(item T) (R, bool)) []R {
	if len(items) == 0 {
		return nil
	}

	type kept struct {
		value R
		ok    bool
	}
	out := Map(context.Background(), items, CalculateWorkers(len(items), FileProcessing),
		func(_ context.Context, item T) (kept, error) {
			v, ok := fn(item)
			return kept{v, ok}, nil
		})

	var collected []R
	for _, r := range out {
		if r.Value.ok {
			collected = append(collected, r.Value.value)
		}
	}
	return collected
}
