package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"timeclock/domain/timesheet"
	"timeclock/internal/errors"
	"timeclock/models"
	"timeclock/ports"
)

// TimeEntryInput carries the writable fields of a time entry
type TimeEntryInput struct {
	UserID   uuid.UUID
	ClockIn  time.Time
	ClockOut *time.Time
}

// TimesheetService owns time entry writes. Every write runs the interval
// validator first; the storage layer's partial unique index backstops the
// overlap rule against concurrent writers.
type TimesheetService struct {
	entries   ports.TimeEntryRepository
	users     ports.UserRepository
	validator timesheet.Validator
}

// NewTimesheetService creates a timesheet service
func NewTimesheetService(entries ports.TimeEntryRepository, users ports.UserRepository) *TimesheetService {
	return &TimesheetService{
		entries: entries,
		users:   users,
	}
}

// Create records a new entry. ClockOut may be nil (clock-in only).
func (s *TimesheetService) Create(ctx context.Context, input TimeEntryInput) (*models.TimeEntry, error) {
	if input.ClockIn.IsZero() {
		return nil, errors.ValidationError("clock_in is required")
	}
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	entry := models.NewTimeEntry(input.UserID, input.ClockIn, input.ClockOut)

	open, err := s.entries.ListOpenByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if violations := s.validator.Validate(entry, open, true); len(violations) > 0 {
		return nil, violationError(violations)
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Update rewrites the clock interval of an existing entry. The overlap rule
// does not apply here: closing an open entry never conflicts with itself.
func (s *TimesheetService) Update(ctx context.Context, id uuid.UUID, clockIn time.Time, clockOut *time.Time) (*models.TimeEntry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !clockIn.IsZero() {
		entry.ClockIn = clockIn
	}
	entry.ClockOut = clockOut

	if violations := s.validator.Validate(entry, nil, false); len(violations) > 0 {
		return nil, violationError(violations)
	}

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Get retrieves one entry
func (s *TimesheetService) Get(ctx context.Context, id uuid.UUID) (*models.TimeEntry, error) {
	return s.entries.GetByID(ctx, id)
}

// Delete removes one entry
func (s *TimesheetService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.entries.Delete(ctx, id)
}

// ListByUser returns a user's entries ordered by clock-in
func (s *TimesheetService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TimeEntry, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.entries.ListByUser(ctx, userID)
}

// violationError folds every violated invariant into one validation error
func violationError(violations []timesheet.Violation) error {
	messages := make([]string, len(violations))
	for i, v := range violations {
		messages[i] = v.Message
	}
	return errors.ValidationError(strings.Join(messages, "; "))
}
