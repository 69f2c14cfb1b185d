package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"timeclock/internal"
	"timeclock/internal/errors"
	"timeclock/models"
	"timeclock/ports"
)

// ReportPipeline binds a process to a builder implementation, executes it and
// maps outcomes onto process transitions. One invocation runs synchronously
// on the calling goroutine; the process is in processing before any row is
// fetched and reaches a terminal state before Run returns or propagates.
type ReportPipeline struct {
	processes ports.ProcessRepository
	artifacts ports.ArtifactStore
	registry  *BuilderRegistry
	logger    *internal.Logger
}

// NewReportPipeline creates a pipeline
func NewReportPipeline(processes ports.ProcessRepository, artifacts ports.ArtifactStore, registry *BuilderRegistry, logger *internal.Logger) *ReportPipeline {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &ReportPipeline{
		processes: processes,
		artifacts: artifacts,
		registry:  registry,
		logger:    logger,
	}
}

// Run generates the report for one process. A NOT_FOUND return means the
// process no longer exists and the unit of work should be discarded, not
// retried. Any generation failure leaves the process failed with the error
// message stored verbatim and is propagated so the executor's retry policy
// can act.
func (p *ReportPipeline) Run(ctx context.Context, processID uuid.UUID, kind string) error {
	process, err := p.processes.GetByProcessID(ctx, processID)
	if err != nil {
		return err
	}

	claimed, err := p.processes.ClaimProcessing(ctx, processID)
	if err != nil {
		return err
	}
	if !claimed {
		// Duplicate delivery after completion. A completed process is never
		// revisited; skip silently.
		p.logger.Warn("report process %s already completed, skipping duplicate run", processID)
		return nil
	}
	process.MarkProcessing()

	builder, err := p.registry.Resolve(kind)
	if err != nil {
		p.fail(ctx, process, err)
		return err
	}

	data, err := builder.Build(ctx, process)
	if err != nil {
		p.fail(ctx, process, err)
		return err
	}

	filename := fmt.Sprintf("report_%s.%s", processID, builder.FileExtension())
	if _, err := p.artifacts.Attach(ctx, processID, data, filename, builder.ContentType()); err != nil {
		genErr := errors.GenerationError(err)
		p.fail(ctx, process, genErr)
		return genErr
	}

	process.MarkCompleted()
	if err := p.processes.SetCompleted(ctx, processID); err != nil {
		return err
	}

	p.logger.Info("report process %s completed (%d bytes)", processID, len(data))
	return nil
}

func (p *ReportPipeline) fail(ctx context.Context, process *models.ReportProcess, cause error) {
	process.MarkFailed(cause)
	if err := p.processes.SetFailed(ctx, process.ProcessID, cause.Error()); err != nil {
		p.logger.Error("failed to persist failure for process %s: %v", process.ProcessID, err)
	}
}
