package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "timeclock/internal/errors"
	"timeclock/models"
	"timeclock/ports"
)

// ArtifactRepositoryImpl implements ArtifactStore on a PostgreSQL bytea
// column. One artifact per process; attaching again overwrites.
type ArtifactRepositoryImpl struct {
	db *sqlx.DB
}

// NewArtifactRepository creates a new PostgreSQL artifact store
func NewArtifactRepository(db *sqlx.DB) ports.ArtifactStore {
	return &ArtifactRepositoryImpl{db: db}
}

// Attach stores report bytes for a process and returns the artifact record
func (r *ArtifactRepositoryImpl) Attach(ctx context.Context, processID uuid.UUID, data []byte, filename, contentType string) (*models.ReportArtifact, error) {
	artifact := &models.ReportArtifact{
		ProcessID:   processID,
		Filename:    filename,
		ContentType: contentType,
		ByteSize:    int64(len(data)),
		Data:        data,
		CreatedAt:   time.Now(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO report_artifacts (process_id, filename, content_type, byte_size, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (process_id) DO UPDATE
		SET filename = EXCLUDED.filename,
		    content_type = EXCLUDED.content_type,
		    byte_size = EXCLUDED.byte_size,
		    data = EXCLUDED.data,
		    created_at = EXCLUDED.created_at
	`, artifact.ProcessID, artifact.Filename, artifact.ContentType, artifact.ByteSize, artifact.Data, artifact.CreatedAt)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return artifact, nil
}

// Get retrieves the artifact attached to a process
func (r *ArtifactRepositoryImpl) Get(ctx context.Context, processID uuid.UUID) (*models.ReportArtifact, error) {
	var artifact models.ReportArtifact
	err := r.db.GetContext(ctx, &artifact, `
		SELECT process_id, filename, content_type, byte_size, data, created_at
		FROM report_artifacts
		WHERE process_id = $1
	`, processID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("report artifact")
		}
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return &artifact, nil
}

// ByteSize returns the attached artifact size, or 0 when nothing is attached
func (r *ArtifactRepositoryImpl) ByteSize(ctx context.Context, processID uuid.UUID) (int64, error) {
	var size int64
	err := r.db.GetContext(ctx, &size, `
		SELECT byte_size FROM report_artifacts WHERE process_id = $1
	`, processID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return size, nil
}
