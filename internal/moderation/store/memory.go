package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quire/internal/moderation/models"
	"quire/pkg/platform/sentinel"
)

// Memory holds the moderation queue in memory.
type Memory struct {
	mu          sync.RWMutex
	submissions map[uuid.UUID]*models.Submission
	clock       func() time.Time
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithClock overrides the time source for tests.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) { m.clock = clock }
}

// NewMemory creates an empty moderation store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		submissions: make(map[uuid.UUID]*models.Submission),
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a new pending submission.
func (m *Memory) Create(_ context.Context, sub *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.submissions[sub.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *sub
	m.submissions[sub.ID] = &cp
	return nil
}

// Get returns one submission by ID.
func (m *Memory) Get(_ context.Context, id uuid.UUID) (*models.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.submissions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

// ListByStatus returns submissions with the given status, oldest first so
// moderators work the queue in arrival order. An empty status lists all.
func (m *Memory) ListByStatus(_ context.Context, status models.Status) ([]*models.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.Submission
	for _, sub := range m.submissions {
		if status != "" && sub.Status != status {
			continue
		}
		cp := *sub
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

// Update replaces a stored submission. The submission must exist.
func (m *Memory) Update(_ context.Context, sub *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.submissions[sub.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *sub
	m.submissions[sub.ID] = &cp
	return nil
}
