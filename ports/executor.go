package ports

import (
	"github.com/google/uuid"
)

// ReportJob is one unit of background report generation work
type ReportJob struct {
	ProcessID uuid.UUID
	Kind      string
}

// ReportScheduler runs report pipelines off the request path. Execution is
// at-least-once with bounded retries; jobs whose process no longer exists are
// discarded permanently.
type ReportScheduler interface {
	Schedule(job ReportJob)
}
