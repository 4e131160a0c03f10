package pool

import "context"

// Result represents in-flight or completed work started with [Pool.Go].
type Result struct {
	done   chan struct{}
	err    error
	cancel context.CancelFunc
	pool   *Pool
}

// Done returns a channel that is closed when the work completes.
func (r *Result) Done() <-chan struct{} { return r.done }

// Err blocks until the work completes and returns its error.
func (r *Result) Err() error {
	<-r.done
	return r.err
}

// Wait blocks until all work in the owning pool completes.
func (r *Result) Wait() error {
	return r.pool.Wait()
}

// Cancel cancels the work's context.
func (r *Result) Cancel() {
	r.cancel()
}
