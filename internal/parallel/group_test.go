package parallel

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestGroupExecutorRunsAllTasks(t *testing.T) {
	t.Parallel()
	e := NewGroupExecutor(3)
	var count atomic.Int32
	tasks := make([]func() error, 20)
	for i := range tasks {
		tasks[i] = func() error {
			count.Add(1)
			return nil
		}
	}
	if err := e.Run(tasks); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if got := count.Load(); got != 20 {
		t.Errorf("expected 20 tasks to run, got %d", got)
	}
}

func TestGroupExecutorDefaultsWorkers(t *testing.T) {
	t.Parallel()
	if NewGroupExecutor(0).Workers() < 1 {
		t.Error("expected at least one worker")
	}
}

func TestGroupExecutorReturnsError(t *testing.T) {
	t.Parallel()
	e := NewGroupExecutor(2)
	want := errors.New("product failed")
	tasks := []func() error{
		func() error { return nil },
		func() error { return want },
		func() error { return nil },
	}
	if err := e.Run(tasks); !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
}

func TestGroupExecutorRecoversPanics(t *testing.T) {
	t.Parallel()
	e := NewGroupExecutor(1)
	tasks := []func() error{
		func() error { panic("boom") },
		func() error { panic("inline boom") },
	}
	if err := e.Run(tasks); !errors.Is(err, ErrTaskPanicked) {
		t.Errorf("expected ErrTaskPanicked, got %v", err)
	}
}

// Nested batches must complete even when the semaphore is exhausted by the
// enclosing batch.
func TestGroupExecutorNestedDoesNotDeadlock(t *testing.T) {
	t.Parallel()
	e := NewGroupExecutor(2)
	var leaves atomic.Int32

	var recurse func(depth int) error
	recurse = func(depth int) error {
		if depth == 0 {
			leaves.Add(1)
			return nil
		}
		tasks := make([]func() error, 7)
		for i := range tasks {
			tasks[i] = func() error { return recurse(depth - 1) }
		}
		return e.Run(tasks)
	}

	done := make(chan error, 1)
	go func() { done <- recurse(3) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("nested run failed: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("nested run deadlocked")
	}
	if got := leaves.Load(); got != 343 {
		t.Errorf("expected 343 leaves, got %d", got)
	}
}
