package pipeline

import (
	"github.com/sourcegraph/conc/pool"
)

// deferredRunner executes fire-and-forget work on a bounded goroutine pool.
// Callers get no completion signal and no cancellation handle; Wait is only
// used at shutdown to drain in-flight tasks.
type deferredRunner struct {
	pool *pool.Pool
}

func newDeferredRunner(maxWorkers int) *deferredRunner {
	p := pool.New()
	if maxWorkers > 0 {
		p = p.WithMaxGoroutines(maxWorkers)
	}
	return &deferredRunner{pool: p}
}

// Submit schedules fn on the pool.
func (d *deferredRunner) Submit(fn func()) {
	d.pool.Go(fn)
}

// Wait blocks until all submitted tasks complete. Call once, at shutdown.
func (d *deferredRunner) Wait() {
	d.pool.Wait()
}
