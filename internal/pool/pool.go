// Package pool provides the fixed-size worker pool that runs probe tasks.
//
// A [Pool] starts a fixed number of goroutines that consume tasks from an
// unbuffered channel, so [Pool.Submit] blocks until a worker is free and no
// work is queued beyond what the caller is currently submitting.
package pool

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

// ErrClosed is returned by [Pool.Submit] after [Pool.Close] has been called.
var ErrClosed = errors.New("pool is closed")

// Task is an opaque unit of work. Tasks report their outcome out of band.
type Task func()

// Pool runs submitted tasks on a fixed set of worker goroutines.
//
// At most Size tasks run at any instant. Completion order is unspecified.
// Submit and Close are safe for concurrent use.
type Pool struct {
	size   int
	tasks  chan Task
	logger *slog.Logger
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New starts a pool of size workers. Sizes below 1 are treated as 1.
// If logger is nil, slog.Default() is used.
func New(size int, logger *slog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pool{
		size:   size,
		tasks:  make(chan Task),
		logger: logger,
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}

	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Submit hands task to a worker, blocking until one accepts it.
//
// Submit never drops a task: it either returns nil once a worker owns the
// task, or returns [ErrClosed] without running it.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	// read lock held across the send so Close cannot close the channel mid-send
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}
	p.tasks <- task
	return nil
}

// Close stops accepting tasks and waits for running tasks to finish.
//
// Close is idempotent. Tasks already handed to a worker always complete.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		p.run(task)
	}
}

// run executes a task with panic recovery so one bad task cannot take a
// worker down with it.
func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			p.logger.Error("task panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	task()
}
