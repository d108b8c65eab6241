// Package parallel provides the concurrent executors used to run the
// independent sub-products of a Strassen step, and a small worker pool with
// futures.
package parallel

import (
	"errors"
	"sync"
)

var (
	// ErrPoolClosed is returned by Submit after Close has been called.
	ErrPoolClosed = errors.New("parallel: pool is closed")

	// ErrTaskPanicked wraps the value recovered from a panicking task.
	ErrTaskPanicked = errors.New("parallel: task panicked")
)

// ErrorCollector keeps the first non-nil error reported by concurrent tasks.
// The zero value is ready to use.
//
// Usage:
//
//	var ec parallel.ErrorCollector
//	var wg sync.WaitGroup
//	for _, task := range tasks {
//	    wg.Add(1)
//	    go func() {
//	        defer wg.Done()
//	        ec.SetError(task())
//	    }()
//	}
//	wg.Wait()
//	return ec.Err()
type ErrorCollector struct {
	once sync.Once
	err  error
}

// SetError records err if it is the first non-nil error. Safe for concurrent
// use.
//
// Parameters:
//   - err: The error to record (nil is ignored).
func (c *ErrorCollector) SetError(err error) {
	if err != nil {
		c.once.Do(func() {
			c.err = err
		})
	}
}

// Err returns the first recorded error, or nil. Call it after every reporting
// task has finished.
//
// Returns:
//   - error: The first recorded error or nil.
func (c *ErrorCollector) Err() error {
	return c.err
}

// Reset clears the collector for reuse. Not safe while tasks still report.
func (c *ErrorCollector) Reset() {
	c.once = sync.Once{}
	c.err = nil
}
