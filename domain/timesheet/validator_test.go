package timesheet

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"timeclock/models"
)

func hasRule(violations []Violation, rule ViolationRule) bool {
	for _, v := range violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// TestValidateOrdering tests that clock_out must be strictly after clock_in
func TestValidateOrdering(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		clockOut *time.Time
		violated bool
	}{
		{"Open entry has no ordering to violate", nil, false},
		{"Clock-out after clock-in", timePtr(in.Add(8 * time.Hour)), false},
		{"Clock-out equal to clock-in", timePtr(in), true},
		{"Clock-out before clock-in", timePtr(in.Add(-time.Hour)), true},
	}

	var validator Validator
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			entry := models.NewTimeEntry(uuid.New(), in, test.clockOut)
			violations := validator.Validate(entry, nil, true)
			if got := hasRule(violations, RuleOrdering); got != test.violated {
				t.Errorf("Expected ordering violation=%v, got violations %v", test.violated, violations)
			}
		})
	}
}

// TestValidateOverlap tests that creation is refused while the user has an
// open entry, even when the new entry is itself closed
func TestValidateOverlap(t *testing.T) {
	userID := uuid.New()
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	open := []models.TimeEntry{*models.NewTimeEntry(userID, in.Add(-24*time.Hour), nil)}

	var validator Validator

	candidate := models.NewTimeEntry(userID, in, nil)
	if violations := validator.Validate(candidate, open, true); !hasRule(violations, RuleOverlap) {
		t.Errorf("Expected overlap violation creating an open entry, got %v", violations)
	}

	closed := models.NewTimeEntry(userID, in, timePtr(in.Add(8*time.Hour)))
	if violations := validator.Validate(closed, open, true); !hasRule(violations, RuleOverlap) {
		t.Errorf("Expected overlap violation creating a closed entry while one is open, got %v", violations)
	}

	// Updating (closing) the open entry itself never conflicts
	existing := &open[0]
	out := existing.ClockIn.Add(8 * time.Hour)
	existing.ClockOut = &out
	if violations := validator.Validate(existing, open, false); len(violations) != 0 {
		t.Errorf("Expected no violations closing the open entry, got %v", violations)
	}
}

// TestValidateReportsAllViolations tests that checks are not short-circuited
func TestValidateReportsAllViolations(t *testing.T) {
	userID := uuid.New()
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	open := []models.TimeEntry{*models.NewTimeEntry(userID, in.Add(-24*time.Hour), nil)}

	var validator Validator
	inverted := models.NewTimeEntry(userID, in, timePtr(in.Add(-time.Hour)))
	violations := validator.Validate(inverted, open, true)
	if len(violations) != 2 {
		t.Fatalf("Expected both violations reported, got %v", violations)
	}
	if !hasRule(violations, RuleOrdering) || !hasRule(violations, RuleOverlap) {
		t.Errorf("Expected ordering and overlap, got %v", violations)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
