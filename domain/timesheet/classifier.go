package timesheet

import (
	"strings"
	"time"

	"timeclock/models"
)

// Shift duration thresholds in seconds
const (
	partialThreshold   = 4 * 3600  // under 4h
	normalThreshold    = 8 * 3600  // under 8h
	completeThreshold  = 9 * 3600  // under 9h
	excessiveThreshold = 10 * 3600 // over 10h is flagged
)

// Status labels for one entry
const (
	StatusOpen     = "Open"
	StatusPartial  = "Partial"
	StatusNormal   = "Normal"
	StatusComplete = "Complete"
	StatusOvertime = "Overtime"
)

// Classifier derives a status label and free-text observations for one time
// entry from its duration and time of day. Hours of day are evaluated in the
// configured location.
type Classifier struct {
	calc Calculator
	loc  *time.Location
}

// NewClassifier creates a classifier; a nil location falls back to the host zone
func NewClassifier(loc *time.Location) *Classifier {
	if loc == nil {
		loc = time.Local
	}
	return &Classifier{loc: loc}
}

// StatusLabel buckets an entry by whole seconds worked. Lower bounds are
// inclusive, upper bounds exclusive.
func (c *Classifier) StatusLabel(entry *models.TimeEntry) string {
	if entry.Open() {
		return StatusOpen
	}

	seconds := c.calc.SecondsWorked(entry)
	switch {
	case seconds < partialThreshold:
		return StatusPartial
	case seconds < normalThreshold:
		return StatusNormal
	case seconds < completeThreshold:
		return StatusComplete
	default:
		return StatusOvertime
	}
}

// Observations runs every applicable check and joins the true ones with "; ".
// An open entry yields only the open observation.
func (c *Classifier) Observations(entry *models.TimeEntry) string {
	if entry.Open() {
		return "Open interval not closed"
	}

	var observations []string
	seconds := c.calc.SecondsWorked(entry)

	if seconds < partialThreshold {
		observations = append(observations, "Incomplete shift")
	}
	if seconds > excessiveThreshold {
		observations = append(observations, "Excessive shift")
	}
	if entry.ClockIn.In(c.loc).Hour() > 9 {
		observations = append(observations, "Late arrival")
	}
	if entry.ClockOut.In(c.loc).Hour() < 17 {
		observations = append(observations, "Early departure")
	}

	return strings.Join(observations, "; ")
}
