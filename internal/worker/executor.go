package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"timeclock/internal"
	"timeclock/internal/config"
	"timeclock/internal/errors"
	"timeclock/ports"
)

// PipelineRunner is what the executor runs for each job
type PipelineRunner interface {
	Run(ctx context.Context, processID uuid.UUID, kind string) error
}

type job struct {
	ports.ReportJob
	attempt int
}

// Executor runs report pipelines off the request path. Delivery is
// at-least-once: a failed run is re-enqueued with exponential backoff up to
// MaxAttempts; jobs whose process no longer exists, and jobs for a report
// kind with no builder, are discarded permanently. A weighted semaphore
// bounds how many builds run at once.
type Executor struct {
	pipeline PipelineRunner
	cfg      config.WorkerConfig
	logger   *internal.Logger

	jobs     chan job
	sem      *semaphore.Weighted
	quit     chan struct{}
	stopOnce sync.Once
	runCtx   context.Context
	stopRuns context.CancelFunc
	wg       sync.WaitGroup
}

// New creates an executor; Start must be called before scheduling
func New(pipeline PipelineRunner, cfg config.WorkerConfig, logger *internal.Logger) *Executor {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	runCtx, stopRuns := context.WithCancel(context.Background())
	return &Executor{
		pipeline: pipeline,
		cfg:      cfg,
		logger:   logger,
		jobs:     make(chan job, cfg.QueueSize),
		sem:      semaphore.NewWeighted(cfg.ConcurrentBuilds),
		quit:     make(chan struct{}),
		runCtx:   runCtx,
		stopRuns: stopRuns,
	}
}

// Start launches the worker goroutines
func (e *Executor) Start() {
	for i := 0; i < e.cfg.Workers; i++ {
		e.wg.Add(1)
		go e.workLoop()
	}
	e.logger.Info("report executor started (%d workers, %d concurrent builds)", e.cfg.Workers, e.cfg.ConcurrentBuilds)
}

// Schedule enqueues a job without blocking the caller. A full queue drops the
// job with an error log; the process stays queued and can be re-triggered.
func (e *Executor) Schedule(j ports.ReportJob) {
	select {
	case e.jobs <- job{ReportJob: j, attempt: 1}:
	default:
		e.logger.Error("report queue full, dropping process %s", j.ProcessID)
	}
}

// Shutdown stops accepting work and waits for in-flight runs to finish.
// Draining runs keep a live context so a graceful stop never aborts a
// pipeline mid-flight; only when the shutdown context expires are the
// remaining runs canceled.
func (e *Executor) Shutdown(ctx context.Context) error {
	e.stopOnce.Do(func() { close(e.quit) })

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.stopRuns()
		return nil
	case <-ctx.Done():
		e.stopRuns()
		return ctx.Err()
	}
}

func (e *Executor) workLoop() {
	defer e.wg.Done()
	for {
		select {
		case <-e.quit:
			return
		case j := <-e.jobs:
			e.execute(j)
		}
	}
}

func (e *Executor) execute(j job) {
	if err := e.sem.Acquire(e.runCtx, 1); err != nil {
		return // past the drain deadline
	}
	defer e.sem.Release(1)

	err := e.pipeline.Run(e.runCtx, j.ProcessID, j.Kind)
	if err == nil {
		return
	}

	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		// Referenced process no longer exists: permanent discard.
		e.logger.Warn("discarding job for missing process %s", j.ProcessID)
		return
	case errors.CodeUnsupportedKind:
		// The process already ended failed; retrying cannot help.
		e.logger.Warn("discarding job for process %s: %v", j.ProcessID, err)
		return
	}

	if j.attempt >= e.cfg.MaxAttempts {
		e.logger.Error("giving up on process %s after %d attempts: %v", j.ProcessID, j.attempt, err)
		return
	}

	delay := e.cfg.RetryBase << (j.attempt - 1)
	e.logger.Warn("report run failed for process %s (attempt %d/%d), retrying in %s: %v",
		j.ProcessID, j.attempt, e.cfg.MaxAttempts, delay, err)

	next := job{ReportJob: j.ReportJob, attempt: j.attempt + 1}
	time.AfterFunc(delay, func() {
		select {
		case <-e.quit:
			// Stopped while the backoff timer ran; drop the retry.
			return
		default:
		}
		select {
		case e.jobs <- next:
		case <-e.quit:
		}
	})
}
