package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "timeclock/internal/errors"
	"timeclock/models"
	"timeclock/ports"
)

// openEntryIndex is the partial unique index enforcing at most one open entry
// per user. A violation there is the storage-level backstop for the overlap
// rule under concurrent writers.
const openEntryIndex = "time_entries_one_open_per_user"

// TimeEntryRepositoryImpl implements TimeEntryRepository for PostgreSQL
type TimeEntryRepositoryImpl struct {
	db *sqlx.DB
}

// NewTimeEntryRepository creates a new PostgreSQL time entry repository
func NewTimeEntryRepository(db *sqlx.DB) ports.TimeEntryRepository {
	return &TimeEntryRepositoryImpl{db: db}
}

// Create inserts a new time entry
func (r *TimeEntryRepositoryImpl) Create(ctx context.Context, entry *models.TimeEntry) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO time_entries (id, user_id, clock_in, clock_out, created_at, updated_at)
		VALUES (:id, :user_id, :clock_in, :clock_out, :created_at, :updated_at)
	`, entry)
	if err != nil {
		return mapEntryError(err)
	}
	return nil
}

// GetByID retrieves a time entry by id
func (r *TimeEntryRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := r.db.GetContext(ctx, &entry, `
		SELECT id, user_id, clock_in, clock_out, created_at, updated_at
		FROM time_entries
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("time entry")
		}
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return &entry, nil
}

// Update rewrites the clock interval of an entry
func (r *TimeEntryRepositoryImpl) Update(ctx context.Context, entry *models.TimeEntry) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE time_entries
		SET clock_in = $2, clock_out = $3, updated_at = NOW()
		WHERE id = $1
	`, entry.ID, entry.ClockIn, entry.ClockOut)
	if err != nil {
		return mapEntryError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	if affected == 0 {
		return apperrors.NotFound("time entry")
	}
	return nil
}

// Delete removes a time entry
func (r *TimeEntryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	if affected == 0 {
		return apperrors.NotFound("time entry")
	}
	return nil
}

// ListByUser returns all entries for a user ordered by clock-in
func (r *TimeEntryRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TimeEntry, error) {
	entries := []models.TimeEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, clock_in, clock_out, created_at, updated_at
		FROM time_entries
		WHERE user_id = $1
		ORDER BY clock_in, created_at
	`, userID)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return entries, nil
}

// ListOpenByUser returns entries without a clock-out for a user
func (r *TimeEntryRepositoryImpl) ListOpenByUser(ctx context.Context, userID uuid.UUID) ([]models.TimeEntry, error) {
	entries := []models.TimeEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, clock_in, clock_out, created_at, updated_at
		FROM time_entries
		WHERE user_id = $1 AND clock_out IS NULL
	`, userID)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return entries, nil
}

// FetchRange returns entries whose clock-in falls inside [from, to] inclusive,
// ordered by clock-in ascending with creation order breaking ties.
func (r *TimeEntryRepositoryImpl) FetchRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.TimeEntry, error) {
	entries := []models.TimeEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, clock_in, clock_out, created_at, updated_at
		FROM time_entries
		WHERE user_id = $1 AND clock_in >= $2 AND clock_in <= $3
		ORDER BY clock_in, created_at
	`, userID, from, to)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return entries, nil
}

func mapEntryError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505" && pqErr.Constraint == openEntryIndex:
			return apperrors.ValidationError("user already has an open time entry")
		case pqErr.Code == "23514": // check_violation, clock_out > clock_in
			return apperrors.ValidationError("clock_out must be after clock_in")
		case pqErr.Code == "23503": // foreign_key_violation
			return apperrors.NotFound("user")
		}
	}
	return apperrors.WithCode(apperrors.CodeDatabaseError, err)
}
