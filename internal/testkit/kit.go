// Package testkit provides in-memory implementations of the storage and
// scheduling ports for tests. The entry store enforces the same single-open-
// entry rule the database's partial unique index does, so service tests see
// the storage-level backstop too.
package testkit

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"timeclock/internal/errors"
	"timeclock/models"
	"timeclock/ports"
)

// Kit bundles the in-memory stores
type Kit struct {
	Users     *UserStore
	Entries   *EntryStore
	Processes *ProcessStore
	Artifacts *ArtifactStore
}

// NewKit creates a fresh in-memory kit
func NewKit() *Kit {
	return &Kit{
		Users:     &UserStore{users: make(map[uuid.UUID]models.User)},
		Entries:   &EntryStore{entries: make(map[uuid.UUID]models.TimeEntry)},
		Processes: &ProcessStore{processes: make(map[uuid.UUID]*models.ReportProcess)},
		Artifacts: &ArtifactStore{artifacts: make(map[uuid.UUID]models.ReportArtifact)},
	}
}

// UserStore is an in-memory UserRepository
type UserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return errors.ValidationError("email is already taken")
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, errors.NotFound("user")
	}
	return &user, nil
}

func (s *UserStore) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (s *UserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return errors.NotFound("user")
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return errors.NotFound("user")
	}
	delete(s.users, id)
	return nil
}

// EntryStore is an in-memory TimeEntryRepository
type EntryStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]models.TimeEntry
	seq     int
	order   map[uuid.UUID]int // insertion order, for stable range ties
}

func (s *EntryStore) Create(_ context.Context, entry *models.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.Open() {
		for _, e := range s.entries {
			if e.UserID == entry.UserID && e.Open() {
				return errors.ValidationError("user already has an open time entry")
			}
		}
	}
	if s.order == nil {
		s.order = make(map[uuid.UUID]int)
	}
	s.seq++
	s.order[entry.ID] = s.seq
	s.entries[entry.ID] = *entry
	return nil
}

func (s *EntryStore) GetByID(_ context.Context, id uuid.UUID) (*models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, errors.NotFound("time entry")
	}
	return &entry, nil
}

func (s *EntryStore) Update(_ context.Context, entry *models.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.ID]; !ok {
		return errors.NotFound("time entry")
	}
	// Reopening an entry hits the same one-open-per-user rule as creation
	if entry.Open() {
		for _, e := range s.entries {
			if e.UserID == entry.UserID && e.Open() && e.ID != entry.ID {
				return errors.ValidationError("user already has an open time entry")
			}
		}
	}
	s.entries[entry.ID] = *entry
	return nil
}

func (s *EntryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return errors.NotFound("time entry")
	}
	delete(s.entries, id)
	return nil
}

func (s *EntryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(e models.TimeEntry) bool { return e.UserID == userID }), nil
}

func (s *EntryStore) ListOpenByUser(_ context.Context, userID uuid.UUID) ([]models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(e models.TimeEntry) bool { return e.UserID == userID && e.Open() }), nil
}

func (s *EntryStore) FetchRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(e models.TimeEntry) bool {
		return e.UserID == userID && !e.ClockIn.Before(from) && !e.ClockIn.After(to)
	}), nil
}

// collect filters entries and orders them by clock-in, insertion order on ties
func (s *EntryStore) collect(keep func(models.TimeEntry) bool) []models.TimeEntry {
	result := []models.TimeEntry{}
	for _, e := range s.entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].ClockIn.Equal(result[j].ClockIn) {
			return s.order[result[i].ID] < s.order[result[j].ID]
		}
		return result[i].ClockIn.Before(result[j].ClockIn)
	})
	return result
}

// ProcessStore is an in-memory ProcessRepository. It records every persisted
// progress value so tests can assert monotonicity.
type ProcessStore struct {
	mu              sync.Mutex
	processes       map[uuid.UUID]*models.ReportProcess
	ProgressHistory map[uuid.UUID][]int
}

func (s *ProcessStore) Create(_ context.Context, process *models.ReportProcess) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *process
	s.processes[process.ProcessID] = &clone
	return nil
}

func (s *ProcessStore) GetByProcessID(_ context.Context, processID uuid.UUID) (*models.ReportProcess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	process, ok := s.processes[processID]
	if !ok {
		return nil, errors.NotFound("report process")
	}
	clone := *process
	return &clone, nil
}

func (s *ProcessStore) ClaimProcessing(_ context.Context, processID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	process, ok := s.processes[processID]
	if !ok {
		return false, errors.NotFound("report process")
	}
	if process.Status == models.StatusCompleted {
		return false, nil
	}
	process.Status = models.StatusProcessing
	process.Progress = 0
	process.ErrorMessage = sql.NullString{}
	return true, nil
}

func (s *ProcessStore) SetCompleted(_ context.Context, processID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	process, ok := s.processes[processID]
	if !ok {
		return errors.NotFound("report process")
	}
	process.Status = models.StatusCompleted
	process.Progress = 100
	process.ErrorMessage.Valid = false
	process.ErrorMessage.String = ""
	return nil
}

func (s *ProcessStore) SetFailed(_ context.Context, processID uuid.UUID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	process, ok := s.processes[processID]
	if !ok {
		return errors.NotFound("report process")
	}
	process.Status = models.StatusFailed
	process.Progress = 0
	process.ErrorMessage.Valid = true
	process.ErrorMessage.String = message
	return nil
}

func (s *ProcessStore) UpdateProgress(_ context.Context, processID uuid.UUID, percent int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	process, ok := s.processes[processID]
	if !ok {
		return errors.NotFound("report process")
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	process.Progress = percent
	if s.ProgressHistory == nil {
		s.ProgressHistory = make(map[uuid.UUID][]int)
	}
	s.ProgressHistory[processID] = append(s.ProgressHistory[processID], percent)
	return nil
}

// ArtifactStore is an in-memory artifact store
type ArtifactStore struct {
	mu        sync.Mutex
	artifacts map[uuid.UUID]models.ReportArtifact
}

func (s *ArtifactStore) Attach(_ context.Context, processID uuid.UUID, data []byte, filename, contentType string) (*models.ReportArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	artifact := models.ReportArtifact{
		ProcessID:   processID,
		Filename:    filename,
		ContentType: contentType,
		ByteSize:    int64(len(data)),
		Data:        data,
		CreatedAt:   time.Now(),
	}
	s.artifacts[processID] = artifact
	return &artifact, nil
}

func (s *ArtifactStore) Get(_ context.Context, processID uuid.UUID) (*models.ReportArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	artifact, ok := s.artifacts[processID]
	if !ok {
		return nil, errors.NotFound("report artifact")
	}
	return &artifact, nil
}

func (s *ArtifactStore) ByteSize(_ context.Context, processID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	artifact, ok := s.artifacts[processID]
	if !ok {
		return 0, nil
	}
	return artifact.ByteSize, nil
}

// Runner matches the pipeline's Run signature without importing app
type Runner interface {
	Run(ctx context.Context, processID uuid.UUID, kind string) error
}

// SyncScheduler runs each scheduled job inline, so end-to-end tests observe
// terminal state as soon as Schedule returns
type SyncScheduler struct {
	Pipeline Runner
	// LastErr keeps the most recent run error for assertions
	LastErr error
}

func (s *SyncScheduler) Schedule(job ports.ReportJob) {
	s.LastErr = s.Pipeline.Run(context.Background(), job.ProcessID, job.Kind)
}

var (
	_ ports.UserRepository      = (*UserStore)(nil)
	_ ports.TimeEntryRepository = (*EntryStore)(nil)
	_ ports.ProcessRepository   = (*ProcessStore)(nil)
	_ ports.ArtifactStore       = (*ArtifactStore)(nil)
	_ ports.ReportScheduler     = (*SyncScheduler)(nil)
)
