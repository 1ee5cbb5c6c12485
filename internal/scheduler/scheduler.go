// Package scheduler runs ordered batches of independent fetch tasks under
// a concurrency or pacing policy. Results always come back in input
// order, whatever order tasks finish in, and one task's failure never
// aborts its siblings.
package scheduler

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of work. Errors are captured per task, not propagated.
type Task[T any] func(ctx context.Context) (T, error)

// Result is the outcome of one task: a value or an error, never both.
type Result[T any] struct {
	Value T
	Err   error
}

// Concurrent runs tasks with at most limit in flight at once. As one task
// completes the next queued task starts. Used when wall-clock latency
// matters more than strict pacing.
func Concurrent[T any](ctx context.Context, tasks []Task[T], limit int) []Result[T] {
	if limit < 1 {
		limit = 1
	}

	results := make([]Result[T], len(tasks))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Value, results[i].Err = task(ctx)
			return nil
		})
	}

	g.Wait()
	return results
}

// Paced runs tasks one at a time with a mandatory delay between the end
// of one task and the start of the next. Used when the downstream
// resource enforces a hard request-rate ceiling that bounded concurrency
// could still violate in bursts. Cancellation marks the remaining tasks
// with the context error rather than dropping them from the results.
func Paced[T any](ctx context.Context, tasks []Task[T], delay time.Duration) []Result[T] {
	results := make([]Result[T], len(tasks))

	for i, task := range tasks {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}

		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		results[i].Value, results[i].Err = task(ctx)
	}

	return results
}
