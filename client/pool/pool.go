package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrShutdown is returned for work handed to a pool after [Pool.Shutdown].
var ErrShutdown = errors.New("pool is shut down")

// WorkFunc is the signature for error-returning async work.
type WorkFunc func(ctx context.Context) error

// Pool runs submitted work on goroutines, with at most maxConcurrent
// units executing at once.
type Pool struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	sem      chan struct{}
	shutdown atomic.Bool
	errs     []error
}

// New creates a Pool with the given concurrency limit.
// If maxConcurrent <= 0, concurrency is unlimited.
func New(maxConcurrent int) *Pool {
	p := &Pool{}
	if maxConcurrent > 0 {
		p.sem = make(chan struct{}, maxConcurrent)
	}
	return p
}

// Submit schedules task for asynchronous execution and returns immediately.
// Work accepted before Shutdown always runs, even if it is still waiting
// for a free slot when Shutdown is called.
func (p *Pool) Submit(task func()) error {
	if task == nil {
		return errors.New("task must not be nil")
	}
	if p.shutdown.Load() {
		return ErrShutdown
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if p.sem != nil {
			p.sem <- struct{}{}
			defer func() {
				<-p.sem
			}()
		}

		task()
	}()

	return nil
}

// Go launches fn in a new goroutine managed by the pool
// and returns a Result for tracking it.
func (p *Pool) Go(ctx context.Context, fn WorkFunc) *Result {
	ctx, cancel := context.WithCancel(ctx)
	r := &Result{
		done:   make(chan struct{}),
		cancel: cancel,
		pool:   p,
	}

	p.wg.Add(1)
	go func() {
		defer func() {
			cancel()
			close(r.done)
			p.wg.Done()
		}()

		if p.sem != nil {
			select {
			case p.sem <- struct{}{}:
				defer func() {
					<-p.sem
				}()
			case <-ctx.Done():
				r.err = ctx.Err()
				p.recordErr(r.err)
				return
			}
		}

		if p.shutdown.Load() {
			r.err = ErrShutdown
			p.recordErr(r.err)
			return
		}

		r.err = fn(ctx)
		if r.err != nil {
			p.recordErr(r.err)
		}
	}()

	return r
}

// Wait blocks until all work in the pool completes.
// Returns all errors from Go work joined via errors.Join.
func (p *Pool) Wait() error {
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	return errors.Join(p.errs...)
}

// Shutdown prevents new work from executing in this pool.
func (p *Pool) Shutdown() {
	p.shutdown.Store(true)
}

// recordErr appends err to the pool's error slice under the mutex.
func (p *Pool) recordErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, err)
}
