package ports

import (
	"context"

	"github.com/google/uuid"

	"timeclock/models"
)

// UserRepository persists users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TimeEntryRepository persists time entries and serves ledger range queries
type TimeEntryRepository interface {
	TimeEntryLedger

	Create(ctx context.Context, entry *models.TimeEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TimeEntry, error)
	Update(ctx context.Context, entry *models.TimeEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TimeEntry, error)
	ListOpenByUser(ctx context.Context, userID uuid.UUID) ([]models.TimeEntry, error)
}

// ProcessRepository persists report processes. Writes to status and progress
// go through the narrow methods below so the pipeline stays the sole mutator.
type ProcessRepository interface {
	ProgressSink

	Create(ctx context.Context, process *models.ReportProcess) error
	GetByProcessID(ctx context.Context, processID uuid.UUID) (*models.ReportProcess, error)
	// ClaimProcessing atomically moves the process to processing with
	// progress reset and error cleared. A failed process may be re-claimed
	// by a retried unit of work; only completed refuses the claim, which
	// callers treat as a duplicate delivery and skip.
	ClaimProcessing(ctx context.Context, processID uuid.UUID) (bool, error)
	SetCompleted(ctx context.Context, processID uuid.UUID) error
	SetFailed(ctx context.Context, processID uuid.UUID, message string) error
}
