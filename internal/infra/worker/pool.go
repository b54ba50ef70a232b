// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"paystack-billing/internal/domain/ports/adapter"
	"paystack-billing/internal/infra/metrics"
)

var (
	ErrQueueFull   = errors.New("worker queue full")
	ErrPoolStopped = errors.New("worker pool stopped")
	ErrNilTask     = errors.New("nil task")
)

var _ adapter.TaskRunner = (*Pool)(nil)

// Pool runs submitted tasks on a fixed number of goroutines. Submit never
// blocks: a full queue is reported to the caller, which decides whether to
// run the task itself.
type Pool struct {
	wg   sync.WaitGroup
	mu   sync.RWMutex
	jobs chan adapter.Task
	n    int
	done bool
	log  *zerolog.Logger
}

func NewPool(workers int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Pool{jobs: make(chan adapter.Task, workers*4), n: workers, log: logger}
}

// Start launches the workers. Tasks receive ctx, so they outlive the
// request that submitted them.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for task := range p.jobs {
				metrics.SetTaskQueueDepth(len(p.jobs))
				p.run(ctx, id, task)
			}
		}(i)
	}
}

func (p *Pool) run(ctx context.Context, id int, task adapter.Task) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.IncTask("panicked")
			p.log.Error().Int("worker", id).Interface("panic", rec).Msg("task panicked")
		}
	}()
	if err := task(ctx); err != nil {
		metrics.IncTask("failed")
		p.log.Warn().Int("worker", id).Err(err).Msg("task failed")
		return
	}
	metrics.IncTask("completed")
}

// Stop refuses new tasks and waits for queued ones to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	p.done = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) Submit(task adapter.Task) error {
	if task == nil {
		return ErrNilTask
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.done {
		return ErrPoolStopped
	}
	select {
	case p.jobs <- task:
		metrics.SetTaskQueueDepth(len(p.jobs))
		return nil
	default:
		metrics.IncTask("rejected")
		return ErrQueueFull
	}
}
