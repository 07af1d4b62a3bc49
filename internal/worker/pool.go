// Package worker provides a bounded pool for running independent tasks
// concurrently. Items are not ordered; callers sequence phases by running
// one ExecuteTasks batch to completion before starting the next.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
)

// Task represents a unit of work to be executed
type Task func(ctx context.Context) error

// Metrics reports what a pool has processed so far
type Metrics struct {
	CompletedTasks int64
	FailedTasks    int64
}

// Pool executes tasks with a fixed number of concurrent workers
type Pool struct {
	size      int
	completed int64
	failed    int64
}

// NewPool creates a pool with the given number of workers
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: size}
}

// Size returns the number of concurrent workers
func (p *Pool) Size() int {
	return p.size
}

// GetMetrics returns the completed and failed task counts
func (p *Pool) GetMetrics() Metrics {
	return Metrics{
		CompletedTasks: atomic.LoadInt64(&p.completed),
		FailedTasks:    atomic.LoadInt64(&p.failed),
	}
}

// ExecuteTasks runs all tasks with at most Size workers in flight and blocks
// until every task has finished. Per-task errors are collected and returned
// rather than aborting the batch; the slice carries no ordering guarantee.
func (p *Pool) ExecuteTasks(ctx context.Context, tasks []Task) []error {
	if len(tasks) == 0 {
		return nil
	}

	queue := make(chan Task)
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		errors []error
	)

	workers := p.size
	if workers > len(tasks) {
		workers = len(tasks)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				if err := task(ctx); err != nil {
					atomic.AddInt64(&p.failed, 1)
					mu.Lock()
					errors = append(errors, err)
					mu.Unlock()
					continue
				}
				atomic.AddInt64(&p.completed, 1)
			}
		}()
	}

	for _, task := range tasks {
		queue <- task
	}
	close(queue)
	wg.Wait()

	return errors
}
