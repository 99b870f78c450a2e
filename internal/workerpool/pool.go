// Package workerpool bounds how many conversions run at once.
//
// Chat handling runs one goroutine per event; the pool keeps slow conversions
// from starving each other and the host by fixing the number that may execute
// concurrently. Callers block on their own result only — other sessions keep
// flowing. Once a task starts it runs to completion; there is no cancellation
// of in-flight work.
package workerpool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"morph/internal/logging"
)

type task struct {
	run  func(context.Context) error
	ctx  context.Context
	done chan error
}

// Pool is a fixed-size worker pool for blocking work.
type Pool struct {
	tasks  chan task
	logger *slog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
	workers   int
}

// New constructs a pool with the given concurrency bound.
func New(workers int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		tasks:   make(chan task),
		logger:  logging.NewComponentLogger(logger, "workerpool"),
		workers: workers,
	}
}

// Start launches the workers. Safe to call once; subsequent calls are no-ops.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker(i)
		}
		p.logger.Info("worker pool started", logging.Int("workers", p.workers))
	})
}

// Close stops accepting work and waits for in-flight tasks to finish.
func (p *Pool) Close() {
	p.stopOnce.Do(func() {
		close(p.tasks)
		p.wg.Wait()
	})
}

// Do runs fn on the pool and blocks the caller until it finishes. While
// waiting for a free worker the caller's context may abandon the attempt;
// once fn is running it always runs to completion and its result is returned.
func (p *Pool) Do(ctx context.Context, fn func(context.Context) error) error {
	t := task{run: fn, ctx: ctx, done: make(chan error, 1)}
	select {
	case p.tasks <- t:
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-t.done
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for t := range p.tasks {
		t.done <- p.execute(t)
	}
	p.logger.Debug("worker stopped", logging.Int("worker", id))
}

func (p *Pool) execute(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", logging.Any("panic", r))
			err = fmt.Errorf("task panic: %v", r)
		}
	}()
	return t.run(t.ctx)
}
