package ports

import (
	"context"

	"github.com/google/uuid"

	"timeclock/models"
)

// ArtifactStore holds generated report content opaquely, keyed by process id
type ArtifactStore interface {
	Attach(ctx context.Context, processID uuid.UUID, data []byte, filename, contentType string) (*models.ReportArtifact, error)
	Get(ctx context.Context, processID uuid.UUID) (*models.ReportArtifact, error)
	// ByteSize returns 0 (not an error) when no artifact is attached
	ByteSize(ctx context.Context, processID uuid.UUID) (int64, error)
}
