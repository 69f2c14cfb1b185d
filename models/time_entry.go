package models

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry is one recorded presence span for a user. An entry with no
// clock-out is "open"; a user can have at most one open entry at a time.
type TimeEntry struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	ClockIn   time.Time  `json:"clock_in" db:"clock_in"`
	ClockOut  *time.Time `json:"clock_out,omitempty" db:"clock_out"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// NewTimeEntry creates an entry; clockOut may be nil for an open entry
func NewTimeEntry(userID uuid.UUID, clockIn time.Time, clockOut *time.Time) *TimeEntry {
	now := time.Now()
	return &TimeEntry{
		ID:        uuid.New(),
		UserID:    userID,
		ClockIn:   clockIn,
		ClockOut:  clockOut,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Open reports whether the entry has no clock-out yet
func (e *TimeEntry) Open() bool {
	return e.ClockOut == nil
}
