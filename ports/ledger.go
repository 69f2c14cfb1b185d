package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"timeclock/models"
)

// TimeEntryLedger provides a read-only range query over persisted time
// entries for one user. Results are ordered by clock-in ascending with ties
// broken by insertion order.
type TimeEntryLedger interface {
	FetchRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.TimeEntry, error)
}
