package matrix

//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks

import (
	"sync"
)

// Executor runs a batch of independent tasks and returns the first error
// encountered. Implementations may run the tasks in any order and in
// parallel, but must not return before every started task has finished.
type Executor interface {
	// Run executes all tasks.
	//
	// Parameters:
	//   - tasks: The tasks to execute. They share no mutable state.
	//
	// Returns:
	//   - error: The first error reported by a task, or nil.
	Run(tasks []func() error) error
}

// Sequential runs tasks one after another on the calling goroutine and stops
// at the first error.
type Sequential struct{}

// Run implements Executor.
func (Sequential) Run(tasks []func() error) error {
	for _, task := range tasks {
		if err := task(); err != nil {
			return err
		}
	}
	return nil
}

// progressTracker converts completed recursion leaves into throttled progress
// reports.
type progressTracker struct {
	mu           sync.Mutex
	reporter     ProgressReporter
	total        int
	done         int
	lastReported float64
}

// newProgressTracker returns nil when no reporter is configured; all methods
// accept a nil receiver.
func newProgressTracker(reporter ProgressReporter, total int) *progressTracker {
	if reporter == nil || total <= 0 {
		return nil
	}
	return &progressTracker{reporter: reporter, total: total, lastReported: -1}
}

func (t *progressTracker) leafDone() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done++
	progress := float64(t.done) / float64(t.total)
	if progress >= 1.0 || progress-t.lastReported >= ProgressReportThreshold {
		t.reporter(progress)
		t.lastReported = progress
	}
}

// leafCount returns the number of base cases a Strassen recursion over an
// n×n problem visits.
func leafCount(n, threshold int) int {
	if n <= threshold {
		return 1
	}
	return 7 * leafCount(n/2, threshold)
}
