package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportArtifact is the generated report content attached to a completed
// process. The process id doubles as the artifact reference.
type ReportArtifact struct {
	ProcessID   uuid.UUID `json:"process_id" db:"process_id"`
	Filename    string    `json:"filename" db:"filename"`
	ContentType string    `json:"content_type" db:"content_type"`
	ByteSize    int64     `json:"byte_size" db:"byte_size"`
	Data        []byte    `json:"-" db:"data"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
