package timesheet

import (
	"timeclock/models"
)

// ViolationRule identifies one temporal invariant on a time entry
type ViolationRule string

const (
	RuleOrdering ViolationRule = "ordering"
	RuleOverlap  ViolationRule = "overlap"
)

// Violation is one broken invariant with a user-facing message
type Violation struct {
	Rule    ViolationRule
	Message string
}

// Validator enforces temporal invariants on a single time entry before it is
// persisted. All applicable checks are reported, not short-circuited.
type Validator struct{}

// Validate checks a candidate entry against the user's existing entries.
// The overlap rule only applies on creation; closing an existing open entry
// never conflicts with itself.
func (Validator) Validate(entry *models.TimeEntry, existing []models.TimeEntry, creating bool) []Violation {
	var violations []Violation

	if entry.ClockOut != nil && !entry.ClockOut.After(entry.ClockIn) {
		violations = append(violations, Violation{
			Rule:    RuleOrdering,
			Message: "clock_out must be after clock_in",
		})
	}

	if creating {
		for _, e := range existing {
			if e.Open() && e.ID != entry.ID {
				violations = append(violations, Violation{
					Rule:    RuleOverlap,
					Message: "user already has an open time entry",
				})
				break
			}
		}
	}

	return violations
}
