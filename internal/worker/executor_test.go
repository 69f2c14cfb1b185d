package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"timeclock/internal/config"
	"timeclock/internal/errors"
	"timeclock/ports"
)

// countingRunner fails with err until failures runs have happened, then
// succeeds
type countingRunner struct {
	calls    atomic.Int32
	failures int32
	err      error
}

func (r *countingRunner) Run(_ context.Context, _ uuid.UUID, _ string) error {
	if r.calls.Add(1) <= r.failures {
		return r.err
	}
	return nil
}

func testConfig() config.WorkerConfig {
	return config.WorkerConfig{
		Workers:          2,
		MaxAttempts:      3,
		RetryBase:        5 * time.Millisecond,
		ConcurrentBuilds: 2,
		QueueSize:        16,
	}
}

func startExecutor(t *testing.T, runner PipelineRunner) *Executor {
	t.Helper()
	e := New(runner, testConfig(), nil)
	e.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = e.Shutdown(ctx)
	})
	return e
}

func waitForCalls(t *testing.T, runner *countingRunner, expected int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runner.calls.Load() >= expected {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("Expected %d runs, got %d", expected, runner.calls.Load())
}

// settle gives the executor time to (wrongly) deliver more work
func settle(t *testing.T, runner *countingRunner, expected int32) {
	t.Helper()
	time.Sleep(100 * time.Millisecond)
	if got := runner.calls.Load(); got != expected {
		t.Errorf("Expected exactly %d runs, got %d", expected, got)
	}
}

// TestExecuteOnce tests that a successful job runs exactly once
func TestExecuteOnce(t *testing.T) {
	runner := &countingRunner{}
	e := startExecutor(t, runner)

	e.Schedule(ports.ReportJob{ProcessID: uuid.New(), Kind: "csv"})
	waitForCalls(t, runner, 1)
	settle(t, runner, 1)
}

// TestRetryThenSucceed tests that a transient failure is retried and the
// retry can succeed
func TestRetryThenSucceed(t *testing.T) {
	runner := &countingRunner{failures: 1, err: errors.GenerationError(context.DeadlineExceeded)}
	e := startExecutor(t, runner)

	e.Schedule(ports.ReportJob{ProcessID: uuid.New(), Kind: "csv"})
	waitForCalls(t, runner, 2)
	settle(t, runner, 2)
}

// TestRetryExhaustion tests the bounded retry count: MaxAttempts runs, then
// permanent give-up
func TestRetryExhaustion(t *testing.T) {
	runner := &countingRunner{failures: 100, err: errors.GenerationError(context.DeadlineExceeded)}
	e := startExecutor(t, runner)

	e.Schedule(ports.ReportJob{ProcessID: uuid.New(), Kind: "csv"})
	waitForCalls(t, runner, 3)
	settle(t, runner, 3)
}

// TestDiscardPolicy tests that missing-process and unsupported-kind failures
// are never retried
func TestDiscardPolicy(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"Missing process", errors.NotFound("report process")},
		{"Unsupported kind", errors.UnsupportedKind("xlsx")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			runner := &countingRunner{failures: 100, err: test.err}
			e := startExecutor(t, runner)

			e.Schedule(ports.ReportJob{ProcessID: uuid.New(), Kind: "csv"})
			waitForCalls(t, runner, 1)
			settle(t, runner, 1)
		})
	}
}

// TestConcurrentJobs tests that independent jobs all execute
func TestConcurrentJobs(t *testing.T) {
	runner := &countingRunner{}
	e := startExecutor(t, runner)

	const jobs = 10
	for i := 0; i < jobs; i++ {
		e.Schedule(ports.ReportJob{ProcessID: uuid.New(), Kind: "csv"})
	}
	waitForCalls(t, runner, jobs)
	settle(t, runner, jobs)
}

// blockingRunner parks until released and records whether its context was
// canceled while it waited
type blockingRunner struct {
	started  chan struct{}
	release  chan struct{}
	canceled atomic.Bool
}

func (r *blockingRunner) Run(ctx context.Context, _ uuid.UUID, _ string) error {
	close(r.started)
	select {
	case <-r.release:
		return nil
	case <-ctx.Done():
		r.canceled.Store(true)
		return ctx.Err()
	}
}

// TestShutdownWaitsForInflightRun tests that a graceful shutdown drains an
// in-flight run to completion instead of canceling its context
func TestShutdownWaitsForInflightRun(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	e := New(runner, testConfig(), nil)
	e.Start()

	e.Schedule(ports.ReportJob{ProcessID: uuid.New(), Kind: "csv"})
	<-runner.started

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		done <- e.Shutdown(ctx)
	}()

	// Let the drain begin before the run is allowed to finish
	time.Sleep(20 * time.Millisecond)
	close(runner.release)

	if err := <-done; err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if runner.canceled.Load() {
		t.Error("Expected the in-flight run to finish with a live context")
	}
}

// TestShutdownDeadlineCancelsStuckRun tests that a run still in flight when
// the shutdown context expires is canceled rather than waited on forever
func TestShutdownDeadlineCancelsStuckRun(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	e := New(runner, testConfig(), nil)
	e.Start()

	e.Schedule(ports.ReportJob{ProcessID: uuid.New(), Kind: "csv"})
	<-runner.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := e.Shutdown(ctx); err != context.DeadlineExceeded {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for !runner.canceled.Load() {
		if time.Now().After(deadline) {
			t.Fatal("Expected the stuck run's context to be canceled after the deadline")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// TestShutdown tests that shutdown returns once workers drain
func TestShutdown(t *testing.T) {
	runner := &countingRunner{}
	e := New(runner, testConfig(), nil)
	e.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
}
