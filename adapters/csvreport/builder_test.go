package csvreport

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"

	"timeclock/domain/report"
	"timeclock/domain/timesheet"
	"timeclock/internal/testkit"
	"timeclock/models"
)

func newTestBuilder(kit *testkit.Kit) *Builder {
	formatter := report.NewFormatter("en", time.UTC)
	classifier := timesheet.NewClassifier(time.UTC)
	return New(kit.Entries, kit.Processes, formatter, classifier)
}

func addEntry(t *testing.T, kit *testkit.Kit, userID uuid.UUID, clockIn time.Time, worked time.Duration) {
	t.Helper()
	var clockOut *time.Time
	if worked > 0 {
		out := clockIn.Add(worked)
		clockOut = &out
	}
	if err := kit.Entries.Create(context.Background(), models.NewTimeEntry(userID, clockIn, clockOut)); err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}
}

func startProcess(t *testing.T, kit *testkit.Kit, userID uuid.UUID, start, end time.Time) *models.ReportProcess {
	t.Helper()
	process := models.NewReportProcess(userID, start, end)
	if err := kit.Processes.Create(context.Background(), process); err != nil {
		t.Fatalf("failed to seed process: %v", err)
	}
	process.MarkProcessing()
	return process
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("artifact is not valid CSV: %v", err)
	}
	return rows
}

// TestBuildReport tests the full report shape: header, one row per entry in
// clock-in order, then the summary row
func TestBuildReport(t *testing.T) {
	kit := testkit.NewKit()
	userID := uuid.New()

	// Monday 8h30min, Tuesday open, seeded out of order
	addEntry(t, kit, userID, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), 0)
	addEntry(t, kit, userID, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), 8*time.Hour+30*time.Minute)

	process := startProcess(t, kit, userID,
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC))

	builder := newTestBuilder(kit)
	data, err := builder.Build(context.Background(), process)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	rows := parseCSV(t, data)
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows (header, 2 entries, summary), got %d", len(rows))
	}

	expectedHeader := []string{"Date", "Weekday", "Clock-in", "Clock-out", "Hours Worked", "Status", "Observations"}
	assertRow(t, rows[0], expectedHeader)

	assertRow(t, rows[1], []string{
		"02/03/2026", "Monday", "08:00:00", "16:30:00", "8h 30min", "Complete", "Early departure",
	})
	assertRow(t, rows[2], []string{
		"03/03/2026", "Tuesday", "10:00:00", "-", "-", "Open", "Open interval not closed",
	})
	assertRow(t, rows[3], []string{
		"", "TOTAL", "", "", "8h 30min", "1 complete records", "1 open records",
	})
}

// TestBuildProgressMonotonic tests that persisted progress never decreases
// and ends at 100
func TestBuildProgressMonotonic(t *testing.T) {
	kit := testkit.NewKit()
	userID := uuid.New()
	for day := 2; day <= 8; day++ {
		addEntry(t, kit, userID, time.Date(2026, 3, day, 8, 0, 0, 0, time.UTC), 8*time.Hour)
	}

	process := startProcess(t, kit, userID,
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC))

	builder := newTestBuilder(kit)
	if _, err := builder.Build(context.Background(), process); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	history := kit.Processes.ProgressHistory[process.ProcessID]
	if len(history) != 7 {
		t.Fatalf("Expected one progress update per row, got %v", history)
	}
	for i := 1; i < len(history); i++ {
		if history[i] < history[i-1] {
			t.Fatalf("Progress decreased: %v", history)
		}
	}
	if history[len(history)-1] != 100 {
		t.Errorf("Expected final progress 100, got %v", history)
	}
}

// TestBuildEmptyWindow tests that a window with no entries produces a valid
// report of header plus empty summary, with no progress updates
func TestBuildEmptyWindow(t *testing.T) {
	kit := testkit.NewKit()
	userID := uuid.New()

	process := startProcess(t, kit, userID,
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC))

	builder := newTestBuilder(kit)
	data, err := builder.Build(context.Background(), process)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	rows := parseCSV(t, data)
	if len(rows) != 2 {
		t.Fatalf("Expected header and summary only, got %d rows", len(rows))
	}
	assertRow(t, rows[1], []string{
		"", "TOTAL", "", "", "-", "0 complete records", "0 open records",
	})

	if history := kit.Processes.ProgressHistory[process.ProcessID]; len(history) != 0 {
		t.Errorf("Expected no progress updates for an empty window, got %v", history)
	}
}

// TestBuildWindowBounds tests the inclusive date window: the whole end date
// belongs to the report, days outside it do not
func TestBuildWindowBounds(t *testing.T) {
	kit := testkit.NewKit()
	userID := uuid.New()

	addEntry(t, kit, userID, time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC), 1*time.Hour)  // day before
	addEntry(t, kit, userID, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 8*time.Hour)   // first instant
	addEntry(t, kit, userID, time.Date(2026, 3, 8, 23, 59, 59, 0, time.UTC), 1*time.Hour) // last instant
	addEntry(t, kit, userID, time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC), 8*time.Hour)   // day after

	process := startProcess(t, kit, userID,
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC))

	builder := newTestBuilder(kit)
	data, err := builder.Build(context.Background(), process)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	rows := parseCSV(t, data)
	if len(rows) != 4 {
		t.Fatalf("Expected 2 entries inside the window, got %d rows", len(rows))
	}
	if rows[1][0] != "02/03/2026" || rows[2][0] != "08/03/2026" {
		t.Errorf("Unexpected rows in window: %v, %v", rows[1], rows[2])
	}
}

func assertRow(t *testing.T, got, expected []string) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("Expected %d columns, got %v", len(expected), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Column %d = %q, expected %q", i, got[i], expected[i])
		}
	}
}
