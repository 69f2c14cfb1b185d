package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"timeclock/internal"
	"timeclock/internal/errors"
	"timeclock/models"
	"timeclock/ports"
)

const dateLayout = "2006-01-02"

// TriggerResult is what the trigger operation returns to the caller
type TriggerResult struct {
	ProcessID uuid.UUID           `json:"process_id"`
	Status    models.ReportStatus `json:"status"`
}

// StatusResult is the polling view of one report process
type StatusResult struct {
	ProcessID    uuid.UUID           `json:"process_id"`
	Status       models.ReportStatus `json:"status"`
	Progress     int                 `json:"progress"`
	ErrorMessage *string             `json:"error_message"`
	ArtifactSize int64               `json:"artifact_size"`
}

// ReportService owns the request-path report operations: trigger, status
// polling and artifact retrieval. Generation itself happens out of band in
// the pipeline.
type ReportService struct {
	users     ports.UserRepository
	processes ports.ProcessRepository
	artifacts ports.ArtifactStore
	scheduler ports.ReportScheduler
	logger    *internal.Logger
}

// NewReportService creates a report service
func NewReportService(users ports.UserRepository, processes ports.ProcessRepository, artifacts ports.ArtifactStore, scheduler ports.ReportScheduler, logger *internal.Logger) *ReportService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &ReportService{
		users:     users,
		processes: processes,
		artifacts: artifacts,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Trigger creates a queued report process over [startDate, endDate] and
// schedules pipeline execution. Returns immediately after persisting the
// queued record.
func (s *ReportService) Trigger(ctx context.Context, userID uuid.UUID, startDate, endDate string) (*TriggerResult, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, errors.ValidationError("start_date is not a valid date (expected YYYY-MM-DD)")
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, errors.ValidationError("end_date is not a valid date (expected YYYY-MM-DD)")
	}
	if end.Before(start) {
		return nil, errors.ValidationError("end_date must be on or after start_date")
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	process := models.NewReportProcess(userID, start, end)
	if err := s.processes.Create(ctx, process); err != nil {
		return nil, err
	}

	s.scheduler.Schedule(ports.ReportJob{ProcessID: process.ProcessID, Kind: KindCSV})
	s.logger.Info("queued report process %s for user %s [%s..%s]", process.ProcessID, userID, startDate, endDate)

	return &TriggerResult{ProcessID: process.ProcessID, Status: process.Status}, nil
}

// Status reads the process record directly; it never touches the pipeline
func (s *ReportService) Status(ctx context.Context, processID uuid.UUID) (*StatusResult, error) {
	process, err := s.processes.GetByProcessID(ctx, processID)
	if err != nil {
		return nil, err
	}

	size, err := s.artifacts.ByteSize(ctx, processID)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		ProcessID:    process.ProcessID,
		Status:       process.Status,
		Progress:     process.Progress,
		ArtifactSize: size,
	}
	if process.ErrorMessage.Valid {
		msg := process.ErrorMessage.String
		result.ErrorMessage = &msg
	}
	return result, nil
}

// Download returns the attached artifact of a completed process. A process
// that is not completed yields NOT_READY with its current status; a completed
// process with no artifact is a data-integrity condition and yields
// NOT_FOUND.
func (s *ReportService) Download(ctx context.Context, processID uuid.UUID) (*models.ReportArtifact, error) {
	process, err := s.processes.GetByProcessID(ctx, processID)
	if err != nil {
		return nil, err
	}

	if process.Status != models.StatusCompleted {
		return nil, errors.NotReady(string(process.Status))
	}

	return s.artifacts.Get(ctx, processID)
}
