package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "timeclock/internal/errors"
	"timeclock/models"
	"timeclock/ports"
)

// ProcessRepositoryImpl implements ProcessRepository for PostgreSQL
type ProcessRepositoryImpl struct {
	db *sqlx.DB
}

// NewProcessRepository creates a new PostgreSQL report process repository
func NewProcessRepository(db *sqlx.DB) ports.ProcessRepository {
	return &ProcessRepositoryImpl{db: db}
}

// Create inserts a queued report process
func (r *ProcessRepositoryImpl) Create(ctx context.Context, process *models.ReportProcess) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO report_processes (process_id, user_id, start_date, end_date, status, progress, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, process.ProcessID, process.UserID, process.StartDate, process.EndDate,
		process.Status, process.Progress, process.ErrorMessage, process.CreatedAt, process.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return apperrors.NotFound("user")
		}
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return nil
}

// GetByProcessID retrieves a report process by its externally-visible id
func (r *ProcessRepositoryImpl) GetByProcessID(ctx context.Context, processID uuid.UUID) (*models.ReportProcess, error) {
	var process models.ReportProcess
	err := r.db.GetContext(ctx, &process, `
		SELECT process_id, user_id, start_date, end_date, status, progress, error_message, created_at, updated_at
		FROM report_processes
		WHERE process_id = $1
	`, processID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("report process")
		}
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return &process, nil
}

// ClaimProcessing moves a process to processing with progress reset. A failed
// process may be re-claimed when the executor retries its unit of work; only
// completed is unrecoverable, so duplicate deliveries against a completed
// process claim nothing.
func (r *ProcessRepositoryImpl) ClaimProcessing(ctx context.Context, processID uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE report_processes
		SET status = 'processing', progress = 0, error_message = NULL, updated_at = NOW()
		WHERE process_id = $1 AND status <> 'completed'
	`, processID)
	if err != nil {
		return false, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return affected > 0, nil
}

// SetCompleted finalizes a process: progress 100, error cleared
func (r *ProcessRepositoryImpl) SetCompleted(ctx context.Context, processID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE report_processes
		SET status = 'completed', progress = 100, error_message = NULL, updated_at = NOW()
		WHERE process_id = $1
	`, processID)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return nil
}

// SetFailed finalizes a process with the error message stored verbatim
func (r *ProcessRepositoryImpl) SetFailed(ctx context.Context, processID uuid.UUID, message string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE report_processes
		SET status = 'failed', progress = 0, error_message = $2, updated_at = NOW()
		WHERE process_id = $1
	`, processID, message)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return nil
}

// UpdateProgress persists a clamped progress percentage
func (r *ProcessRepositoryImpl) UpdateProgress(ctx context.Context, processID uuid.UUID, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE report_processes
		SET progress = $2, updated_at = NOW()
		WHERE process_id = $1
	`, processID, percent)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return nil
}
