package app

import (
	"sync"

	"timeclock/internal/errors"
	"timeclock/ports"
)

// KindCSV is the only report kind with a registered builder today
const KindCSV = "csv"

// BuilderRegistry maps a report kind identifier to a builder implementation.
// Resolving an unregistered kind yields an UNSUPPORTED_KIND error rather than
// a lookup failure.
type BuilderRegistry struct {
	mu       sync.RWMutex
	builders map[string]ports.ArtifactBuilder
}

// NewBuilderRegistry creates an empty registry
func NewBuilderRegistry() *BuilderRegistry {
	return &BuilderRegistry{
		builders: make(map[string]ports.ArtifactBuilder),
	}
}

// Register binds a kind to a builder, replacing any previous binding
func (r *BuilderRegistry) Register(kind string, builder ports.ArtifactBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[kind] = builder
}

// Resolve returns the builder for a kind
func (r *BuilderRegistry) Resolve(kind string) (ports.ArtifactBuilder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	builder, ok := r.builders[kind]
	if !ok {
		return nil, errors.UnsupportedKind(kind)
	}
	return builder, nil
}
