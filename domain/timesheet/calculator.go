package timesheet

import (
	"fmt"
	"time"

	"timeclock/models"
)

// Calculator computes elapsed work time for time entries
type Calculator struct{}

// SecondsWorked returns whole seconds between clock-in and clock-out.
// Open entries contribute zero.
func (Calculator) SecondsWorked(entry *models.TimeEntry) int64 {
	if entry.ClockOut == nil {
		return 0
	}
	return int64(entry.ClockOut.Sub(entry.ClockIn) / time.Second)
}

// DurationLabel renders seconds as "{hours}h {minutes}min", truncating to the
// minute. Zero renders as "-".
func (Calculator) DurationLabel(seconds int64) string {
	if seconds == 0 {
		return "-"
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%dh %dmin", hours, minutes)
}

// TotalSeconds sums SecondsWorked over all entries
func (c Calculator) TotalSeconds(entries []models.TimeEntry) int64 {
	var total int64
	for i := range entries {
		total += c.SecondsWorked(&entries[i])
	}
	return total
}

// TotalLabel renders the aggregate duration over all entries
func (c Calculator) TotalLabel(entries []models.TimeEntry) string {
	return c.DurationLabel(c.TotalSeconds(entries))
}
