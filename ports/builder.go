package ports

import (
	"context"

	"github.com/google/uuid"

	"timeclock/models"
)

// ArtifactBuilder produces report content for a process. Build is only called
// while the process is in the processing state; the pipeline enforces that.
type ArtifactBuilder interface {
	Build(ctx context.Context, process *models.ReportProcess) ([]byte, error)
	ContentType() string
	FileExtension() string
}

// ProgressSink receives progress percentages while a build is running
type ProgressSink interface {
	UpdateProgress(ctx context.Context, processID uuid.UUID, percent int) error
}
