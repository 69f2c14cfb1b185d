package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"timeclock/domain/timesheet"
	"timeclock/internal/errors"
	"timeclock/ports"
)

// WorkStats summarizes closed shift durations over a date window. Open
// entries contribute nothing.
type WorkStats struct {
	Count         int     `json:"count"`
	TotalSeconds  int64   `json:"total_seconds"`
	MeanSeconds   float64 `json:"mean_seconds"`
	MedianSeconds float64 `json:"median_seconds"`
	MinSeconds    float64 `json:"min_seconds"`
	MaxSeconds    float64 `json:"max_seconds"`
	P90Seconds    float64 `json:"p90_seconds"`
	StdDevSeconds float64 `json:"stddev_seconds"`
}

// StatsService computes work-pattern summary statistics for one user
type StatsService struct {
	users  ports.UserRepository
	ledger ports.TimeEntryLedger
	loc    *time.Location
	calc   timesheet.Calculator
}

// NewStatsService creates a stats service; a nil location falls back to the
// host zone
func NewStatsService(users ports.UserRepository, ledger ports.TimeEntryLedger, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatsService{
		users:  users,
		ledger: ledger,
		loc:    loc,
	}
}

// WorkStats aggregates shift durations for entries whose clock-in falls
// inside [startDate, endDate] inclusive
func (s *StatsService) WorkStats(ctx context.Context, userID uuid.UUID, startDate, endDate string) (*WorkStats, error) {
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

	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.loc)
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, s.loc)

	entries, err := s.ledger.FetchRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	var durations []float64
	var total int64
	for i := range entries {
		seconds := s.calc.SecondsWorked(&entries[i])
		if seconds == 0 {
			continue // open entries carry no duration
		}
		durations = append(durations, float64(seconds))
		total += seconds
	}

	result := &WorkStats{
		Count:        len(durations),
		TotalSeconds: total,
	}
	if len(durations) == 0 {
		return result, nil
	}

	// Estimator errors surface as the zero value.
	result.MeanSeconds, _ = stats.Mean(durations)
	result.MedianSeconds, _ = stats.Median(durations)
	result.MinSeconds, _ = stats.Min(durations)
	result.MaxSeconds, _ = stats.Max(durations)
	result.P90Seconds, _ = stats.Percentile(durations, 90)
	result.StdDevSeconds, _ = stats.StandardDeviation(durations)

	return result, nil
}
