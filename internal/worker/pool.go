// internal/worker/pool.go
package worker

import (
	"sync"
)

// Pool represents a worker pool for concurrent operations
type Pool struct {
	wg  sync.WaitGroup
	sem chan struct{}
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem: make(chan struct{}, size),
	}
}

// Submit submits a task to the worker pool
func (p *Pool) Submit(task func()) {
	p.wg.Add(1)
	p.sem <- struct{}{} // Acquire a worker

	go func() {
		defer func() {
			<-p.sem // Release the worker
			p.wg.Done()
		}()

		task()
	}()
}

// Wait waits for all submitted tasks to complete
func (p *Pool) Wait() {
	p.wg.Wait()
}
