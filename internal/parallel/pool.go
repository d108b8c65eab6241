package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// job is the type-erased side of a Future seen by the workers.
type job interface {
	claim() bool
	execute()
}

// Pool is a fixed set of worker goroutines consuming an unbounded FIFO
// queue. Submissions are valid between NewPool and Close.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []job
	closed bool
	wg     sync.WaitGroup
	size   int
}

// NewPool starts a pool with the given number of workers. A value <= 0
// selects runtime.NumCPU().
//
// Parameters:
//   - workers: The number of worker goroutines.
//
// Returns:
//   - *Pool: The running pool. Callers must call Close.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{size: workers}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		j := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		if j.claim() {
			j.execute()
		}
	}
}

func (p *Pool) enqueue(j job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.queue = append(p.queue, j)
	p.cond.Signal()
	return nil
}

// Close stops accepting submissions, lets the workers drain the queue, and
// waits for them to exit. Close is idempotent.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

// Future is the pending result of a task submitted to a Pool.
type Future[T any] struct {
	state atomic.Bool
	fn    func() (T, error)
	done  chan struct{}
	val   T
	err   error
}

func (f *Future[T]) claim() bool {
	return f.state.CompareAndSwap(false, true)
}

func (f *Future[T]) execute() {
	defer close(f.done)
	var err error
	f.val, err = callValue(f.fn)
	f.err = err
}

// Get blocks until the task has run and returns its result. If no worker has
// started the task yet, Get runs it on the calling goroutine.
//
// Returns:
//   - T: The task result.
//   - error: The task error, or a wrapped ErrTaskPanicked.
func (f *Future[T]) Get() (T, error) {
	if f.claim() {
		f.execute()
	}
	<-f.done
	return f.val, f.err
}

// Submit queues fn on the pool.
//
// Parameters:
//   - p: The pool.
//   - fn: The task.
//
// Returns:
//   - *Future[T]: The handle to the result.
//   - error: ErrPoolClosed if the pool no longer accepts work.
func Submit[T any](p *Pool, fn func() (T, error)) (*Future[T], error) {
	f := &Future[T]{fn: fn, done: make(chan struct{})}
	if err := p.enqueue(f); err != nil {
		return nil, err
	}
	return f, nil
}

func callValue[T any](fn func() (T, error)) (val T, err error) {
	err = safeCall(func() error {
		var inner error
		val, inner = fn()
		return inner
	})
	return val, err
}

// PoolExecutor runs batches of tasks on a Pool.
type PoolExecutor struct {
	pool *Pool
}

// NewPoolExecutor wraps pool. The pool stays owned by the caller.
func NewPoolExecutor(pool *Pool) *PoolExecutor {
	return &PoolExecutor{pool: pool}
}

// Run submits every task and waits for all of them. Tasks that cannot be
// submitted, because the pool is closed, run on the calling goroutine.
//
// Returns:
//   - error: The first error encountered.
func (e *PoolExecutor) Run(tasks []func() error) error {
	futures := make([]*Future[struct{}], len(tasks))
	var ec ErrorCollector
	for i, task := range tasks {
		f, err := Submit(e.pool, func() (struct{}, error) { return struct{}{}, task() })
		if err != nil {
			ec.SetError(safeCall(task))
			continue
		}
		futures[i] = f
	}
	for _, f := range futures {
		if f == nil {
			continue
		}
		_, err := f.Get()
		ec.SetError(err)
	}
	return ec.Err()
}
