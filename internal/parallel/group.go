package parallel

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// GroupExecutor runs batches of tasks on goroutines managed by an errgroup.
// A single weighted semaphore, shared by every batch the executor runs,
// bounds the number of extra goroutines. When no slot is free the task runs
// on the calling goroutine instead, so a task that itself calls Run (as a
// recursive Strassen step does) can never block waiting for a slot held by
// its own ancestors.
//
// A GroupExecutor is safe for concurrent use.
type GroupExecutor struct {
	sem     *semaphore.Weighted
	workers int
}

// NewGroupExecutor creates an executor allowing up to maxWorkers concurrent
// goroutines. A value <= 0 selects runtime.NumCPU().
func NewGroupExecutor(maxWorkers int) *GroupExecutor {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	return &GroupExecutor{
		sem:     semaphore.NewWeighted(int64(maxWorkers)),
		workers: maxWorkers,
	}
}

// Workers returns the goroutine bound of the executor.
func (e *GroupExecutor) Workers() int { return e.workers }

// Run executes every task and waits for all of them.
//
// Parameters:
//   - tasks: The independent tasks of one batch.
//
// Returns:
//   - error: The first error returned by a task, or a wrapped
//     ErrTaskPanicked if a task panicked.
func (e *GroupExecutor) Run(tasks []func() error) error {
	var g errgroup.Group
	var inline ErrorCollector
	for _, task := range tasks {
		if e.sem.TryAcquire(1) {
			g.Go(func() error {
				defer e.sem.Release(1)
				return safeCall(task)
			})
			continue
		}
		inline.SetError(safeCall(task))
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return inline.Err()
}

// safeCall runs task and converts a panic into an error.
func safeCall(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	return task()
}
