package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"paystack-billing/internal/infra/metrics"
)

// Job is one periodic pass. RunOnce returns how many items it handled.
type Job interface {
	Name() string
	RunOnce(ctx context.Context) (int, error)
}

// Options tune a Scheduler. Zero values fall back to a 1m interval and a
// 30s per-pass timeout.
type Options struct {
	Interval   time.Duration
	Timeout    time.Duration
	RunOnStart bool // run one pass immediately instead of waiting a full interval
}

// Scheduler runs a single Job on a ticker. Passes never overlap.
type Scheduler struct {
	opts Options
	job  Job
	log  *zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(job Job, opts Options, logger *zerolog.Logger) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	l := logger.With().Str("component", "scheduler").Str("job", job.Name()).Logger()
	return &Scheduler{opts: opts, job: job, log: &l}
}

// Start launches the loop. Calling it while running has no effect.
func (s *Scheduler) Start(parent context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)
}

// Stop cancels the loop and waits for an in-flight pass to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.opts.Interval).Msg("scheduler started")
	if s.opts.RunOnStart {
		s.pass(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

func (s *Scheduler) pass(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	n, err := s.job.RunOnce(runCtx)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ObserveJobRun(s.job.Name(), result, time.Since(start))

	switch {
	case err != nil:
		s.log.Error().Err(err).Msg("job failed")
	case n > 0:
		s.log.Info().Int("handled", n).Dur("took", time.Since(start)).Msg("job finished")
	}
}
