package models

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReportStatus is the lifecycle state of a report process
type ReportStatus string

const (
	StatusQueued     ReportStatus = "queued"
	StatusProcessing ReportStatus = "processing"
	StatusCompleted  ReportStatus = "completed"
	StatusFailed     ReportStatus = "failed"
)

// allowedTransitions is the closed transition table. Completed is terminal;
// failed may re-enter processing when the executor retries the unit of work.
// Anything else is a programming error and panics.
var allowedTransitions = map[ReportStatus]map[ReportStatus]bool{
	StatusQueued: {
		StatusProcessing: true,
	},
	StatusProcessing: {
		StatusProcessing: true,
		StatusCompleted:  true,
		StatusFailed:     true,
	},
	StatusFailed: {
		StatusProcessing: true,
	},
}

// ReportProcess is one report generation request. The process is the sole
// mutator of its own status and progress fields.
type ReportProcess struct {
	ProcessID    uuid.UUID      `json:"process_id" db:"process_id"`
	UserID       uuid.UUID      `json:"user_id" db:"user_id"`
	StartDate    time.Time      `json:"start_date" db:"start_date"`
	EndDate      time.Time      `json:"end_date" db:"end_date"`
	Status       ReportStatus   `json:"status" db:"status"`
	Progress     int            `json:"progress" db:"progress"`
	ErrorMessage sql.NullString `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// NewReportProcess creates a queued process over an inclusive date window.
// The process id is generated here and never changes.
func NewReportProcess(userID uuid.UUID, startDate, endDate time.Time) *ReportProcess {
	now := time.Now()
	return &ReportProcess{
		ProcessID: uuid.New(),
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    StatusQueued,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Terminal reports whether the process has reached a final state
func (p *ReportProcess) Terminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed
}

// MarkProcessing transitions into processing and resets progress. Legal from
// queued, processing, and failed (retried unit of work).
func (p *ReportProcess) MarkProcessing() {
	p.transition(StatusProcessing)
	p.Progress = 0
	p.UpdatedAt = time.Now()
}

// MarkCompleted transitions to completed, forces progress to 100 and clears
// any previous error. The artifact must already be attached by the caller.
func (p *ReportProcess) MarkCompleted() {
	p.transition(StatusCompleted)
	p.Progress = 100
	p.ErrorMessage = sql.NullString{}
	p.UpdatedAt = time.Now()
}

// MarkFailed transitions to failed, records the error message verbatim and
// forces progress to 0
func (p *ReportProcess) MarkFailed(err error) {
	p.transition(StatusFailed)
	p.Progress = 0
	p.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
	p.UpdatedAt = time.Now()
}

// UpdateProgress clamps the percentage to [0,100]. Legal in any state but
// only meaningful while processing.
func (p *ReportProcess) UpdateProgress(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	p.Progress = percent
	p.UpdatedAt = time.Now()
}

func (p *ReportProcess) transition(to ReportStatus) {
	if !allowedTransitions[p.Status][to] {
		panic(fmt.Sprintf("report process %s: illegal transition %s -> %s", p.ProcessID, p.Status, to))
	}
	p.Status = to
}
