//go:build !integration

package scheduler_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"paystack-billing/internal/infra/scheduler"
)

type countingJob struct {
	runs int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) RunOnce(ctx context.Context) (int, error) {
	atomic.AddInt32(&j.runs, 1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("pass without a deadline")
	}
	return 1, j.err
}

func TestScheduler(t *testing.T) {
	logger := zerolog.New(io.Discard)

	t.Run("runs the job every interval until stopped", func(t *testing.T) {
		job := &countingJob{}
		s := scheduler.NewScheduler(job, scheduler.Options{Interval: 10 * time.Millisecond, Timeout: time.Second}, &logger)
		s.Start(context.Background())
		s.Start(context.Background()) // second start is a no-op

		deadline := time.Now().Add(2 * time.Second)
		for atomic.LoadInt32(&job.runs) < 3 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		s.Stop()
		s.Stop()

		runs := atomic.LoadInt32(&job.runs)
		if runs < 3 {
			t.Fatalf("expected at least 3 runs, got %d", runs)
		}
		time.Sleep(30 * time.Millisecond)
		if after := atomic.LoadInt32(&job.runs); after != runs {
			t.Errorf("job ran after Stop: %d -> %d", runs, after)
		}
	})

	t.Run("keeps going after a failing pass", func(t *testing.T) {
		job := &countingJob{err: errors.New("boom")}
		s := scheduler.NewScheduler(job, scheduler.Options{Interval: 10 * time.Millisecond, Timeout: time.Second}, &logger)
		s.Start(context.Background())
		deadline := time.Now().Add(2 * time.Second)
		for atomic.LoadInt32(&job.runs) < 2 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		s.Stop()
		if atomic.LoadInt32(&job.runs) < 2 {
			t.Fatal("scheduler stopped after an error")
		}
	})

	t.Run("runs a pass immediately when asked", func(t *testing.T) {
		job := &countingJob{}
		s := scheduler.NewScheduler(job, scheduler.Options{Interval: time.Hour, RunOnStart: true}, &logger)
		s.Start(context.Background())
		deadline := time.Now().Add(2 * time.Second)
		for atomic.LoadInt32(&job.runs) < 1 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		s.Stop()
		if atomic.LoadInt32(&job.runs) != 1 {
			t.Fatalf("expected exactly one run, got %d", atomic.LoadInt32(&job.runs))
		}
	})

	t.Run("stops when the parent context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := scheduler.NewScheduler(&countingJob{}, scheduler.Options{Interval: time.Hour}, &logger)
		s.Start(ctx)
		cancel()
		stopped := make(chan struct{})
		go func() { s.Stop(); close(stopped) }()
		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("Stop blocked after parent cancel")
		}
	})
}
