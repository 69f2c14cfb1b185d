package csvreport

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"time"

	"timeclock/domain/report"
	"timeclock/domain/timesheet"
	"timeclock/internal/errors"
	"timeclock/models"
	"timeclock/ports"
)

// headers is the fixed 7-column header row
var headers = []string{"Date", "Weekday", "Clock-in", "Clock-out", "Hours Worked", "Status", "Observations"}

// Builder assembles the tabular CSV report for one process: fetch, per-row
// compute, row emission, summary emission, with progress updates along the
// way. The final forced 100 on success belongs to the pipeline, not here.
type Builder struct {
	ledger     ports.TimeEntryLedger
	progress   ports.ProgressSink
	formatter  *report.Formatter
	classifier *timesheet.Classifier
	calc       timesheet.Calculator
}

// New creates a CSV builder
func New(ledger ports.TimeEntryLedger, progress ports.ProgressSink, formatter *report.Formatter, classifier *timesheet.Classifier) *Builder {
	return &Builder{
		ledger:     ledger,
		progress:   progress,
		formatter:  formatter,
		classifier: classifier,
	}
}

// ContentType returns the artifact media type
func (b *Builder) ContentType() string {
	return "text/csv"
}

// FileExtension returns the artifact filename extension
func (b *Builder) FileExtension() string {
	return "csv"
}

// Build produces the report bytes for a processing process
func (b *Builder) Build(ctx context.Context, process *models.ReportProcess) ([]byte, error) {
	from, to := b.windowBounds(process)

	entries, err := b.ledger.FetchRange(ctx, process.UserID, from, to)
	if err != nil {
		return nil, errors.GenerationError(err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return nil, errors.GenerationError(err)
	}

	total := len(entries)
	for i := range entries {
		entry := &entries[i]
		if err := w.Write(b.buildRow(entry)); err != nil {
			return nil, errors.GenerationError(err)
		}
		// No progress updates for an empty window; the pipeline forces 100
		// at completion.
		if total > 0 {
			percent := int(math.Round(float64(i+1) / float64(total) * 100))
			if err := b.progress.UpdateProgress(ctx, process.ProcessID, percent); err != nil {
				return nil, errors.GenerationError(err)
			}
		}
	}

	if err := w.Write(b.buildSummaryRow(entries)); err != nil {
		return nil, errors.GenerationError(err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.GenerationError(err)
	}

	return buf.Bytes(), nil
}

// windowBounds expands the calendar-date window to an inclusive timestamp
// range in the report zone: [start@00:00:00, end@23:59:59].
func (b *Builder) windowBounds(process *models.ReportProcess) (time.Time, time.Time) {
	loc := b.formatter.Location()
	start := process.StartDate
	end := process.EndDate
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, loc)
	return from, to
}

func (b *Builder) buildRow(entry *models.TimeEntry) []string {
	return []string{
		b.formatter.Date(&entry.ClockIn),
		b.formatter.Weekday(&entry.ClockIn),
		b.formatter.Time(&entry.ClockIn),
		b.formatter.Time(entry.ClockOut),
		b.calc.DurationLabel(b.calc.SecondsWorked(entry)),
		b.classifier.StatusLabel(entry),
		b.classifier.Observations(entry),
	}
}

func (b *Builder) buildSummaryRow(entries []models.TimeEntry) []string {
	var completeCount, openCount int
	for i := range entries {
		if entries[i].Open() {
			openCount++
		} else {
			completeCount++
		}
	}

	return []string{
		"",
		"TOTAL",
		"",
		"",
		b.calc.TotalLabel(entries),
		fmt.Sprintf("%d complete records", completeCount),
		fmt.Sprintf("%d open records", openCount),
	}
}
