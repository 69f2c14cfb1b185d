package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newProcess() *ReportProcess {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return NewReportProcess(uuid.New(), start, start.AddDate(0, 0, 6))
}

// TestNewReportProcess tests the initial state of a freshly created process
func TestNewReportProcess(t *testing.T) {
	p := newProcess()
	if p.Status != StatusQueued {
		t.Errorf("Expected new process to be queued, got %s", p.Status)
	}
	if p.Progress != 0 {
		t.Errorf("Expected new process progress 0, got %d", p.Progress)
	}
	if p.ErrorMessage.Valid {
		t.Errorf("Expected new process to have no error message")
	}
	if p.ProcessID == uuid.Nil {
		t.Error("Expected a generated process id")
	}
}

// TestLifecycleCompleted tests the happy path queued -> processing -> completed
func TestLifecycleCompleted(t *testing.T) {
	p := newProcess()

	p.MarkProcessing()
	if p.Status != StatusProcessing {
		t.Fatalf("Expected processing, got %s", p.Status)
	}

	p.UpdateProgress(40)
	if p.Progress != 40 {
		t.Errorf("Expected progress 40, got %d", p.Progress)
	}

	p.MarkCompleted()
	if p.Status != StatusCompleted {
		t.Errorf("Expected completed, got %s", p.Status)
	}
	if p.Progress != 100 {
		t.Errorf("Expected completion to force progress 100, got %d", p.Progress)
	}
	if p.ErrorMessage.Valid {
		t.Errorf("Expected completion to clear the error message")
	}
	if !p.Terminal() {
		t.Error("Expected completed process to be terminal")
	}
}

// TestLifecycleFailed tests that failure records the message verbatim and
// zeroes progress
func TestLifecycleFailed(t *testing.T) {
	p := newProcess()
	p.MarkProcessing()
	p.UpdateProgress(75)

	p.MarkFailed(errors.New("ledger fetch failed: connection reset"))
	if p.Status != StatusFailed {
		t.Errorf("Expected failed, got %s", p.Status)
	}
	if p.Progress != 0 {
		t.Errorf("Expected failure to force progress 0, got %d", p.Progress)
	}
	if !p.ErrorMessage.Valid || p.ErrorMessage.String != "ledger fetch failed: connection reset" {
		t.Errorf("Expected verbatim error message, got %+v", p.ErrorMessage)
	}
}

// TestFailedReentersProcessing tests that a retried unit of work can take a
// failed process back to processing with a clean slate
func TestFailedReentersProcessing(t *testing.T) {
	p := newProcess()
	p.MarkProcessing()
	p.MarkFailed(errors.New("boom"))

	p.MarkProcessing()
	if p.Status != StatusProcessing {
		t.Errorf("Expected processing after retry, got %s", p.Status)
	}
	if p.Progress != 0 {
		t.Errorf("Expected progress reset on retry, got %d", p.Progress)
	}
}

// TestIllegalTransitionsPanic tests that leaving completed, or skipping
// states, panics rather than silently corrupting the lifecycle
func TestIllegalTransitionsPanic(t *testing.T) {
	tests := []struct {
		name string
		run  func(p *ReportProcess)
	}{
		{"Queued straight to completed", func(p *ReportProcess) {
			p.MarkCompleted()
		}},
		{"Queued straight to failed", func(p *ReportProcess) {
			p.MarkFailed(errors.New("boom"))
		}},
		{"Completed back to processing", func(p *ReportProcess) {
			p.MarkProcessing()
			p.MarkCompleted()
			p.MarkProcessing()
		}},
		{"Completed to failed", func(p *ReportProcess) {
			p.MarkProcessing()
			p.MarkCompleted()
			p.MarkFailed(errors.New("boom"))
		}},
		{"Failed straight to completed", func(p *ReportProcess) {
			p.MarkProcessing()
			p.MarkFailed(errors.New("boom"))
			p.MarkCompleted()
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic")
				}
			}()
			test.run(newProcess())
		})
	}
}

// TestUpdateProgressClamps tests clamping to [0,100]
func TestUpdateProgressClamps(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{-10, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{140, 100},
	}

	p := newProcess()
	p.MarkProcessing()
	for _, test := range tests {
		p.UpdateProgress(test.input)
		if p.Progress != test.expected {
			t.Errorf("UpdateProgress(%d) left progress %d, expected %d", test.input, p.Progress, test.expected)
		}
	}
}
