package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quire/internal/profile/models"
	"quire/pkg/platform/sentinel"
)

// Memory is the default profile store. It favors clarity over performance;
// the Postgres store is the production implementation.
type Memory struct {
	mu       sync.RWMutex
	byUserID map[string]*models.UserProfile
	clock    func() time.Time
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithClock overrides the time source for tests.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) { m.clock = clock }
}

// NewMemory creates an empty in-memory profile store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		byUserID: make(map[string]*models.UserProfile),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the profile owned by userID.
func (m *Memory) Get(_ context.Context, userID string) (*models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.byUserID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	cp.ResearchInterests = append([]string(nil), p.ResearchInterests...)
	return &cp, nil
}

// Upsert applies an update create-or-merge. Nil optional fields in the
// update leave the stored values untouched.
func (m *Memory) Upsert(_ context.Context, userID string, update *models.UserProfileUpdate) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	p, ok := m.byUserID[userID]
	if !ok {
		p = &models.UserProfile{ID: uuid.New(), CreatedAt: now}
		m.byUserID[userID] = p
	}

	p.Name = update.Name
	p.Email = update.Email
	p.Institution = update.Institution
	p.Department = update.Department
	p.Position = update.Position
	p.ResearchInterests = append([]string(nil), update.ResearchInterests...)
	p.Role = update.Role
	if update.PersonalWebsite != nil {
		p.PersonalWebsite = *update.PersonalWebsite
	}
	if update.OrcidID != nil {
		p.OrcidID = *update.OrcidID
	}
	if update.Twitter != nil {
		p.Twitter = *update.Twitter
	}
	if update.LinkedIn != nil {
		p.LinkedIn = *update.LinkedIn
	}
	p.WantsToBeEditor = update.WantsToBeEditor
	p.ProfileComplete = update.ProfileComplete
	p.IsComplete = update.IsComplete
	p.UpdatedAt = now

	cp := *p
	cp.ResearchInterests = append([]string(nil), p.ResearchInterests...)
	return &cp, nil
}

// Delete erases the profile owned by userID.
func (m *Memory) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byUserID[userID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(m.byUserID, userID)
	return nil
}

// List returns all profiles ordered by name, for the admin surface.
func (m *Memory) List(_ context.Context) ([]*models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.UserProfile, 0, len(m.byUserID))
	for _, p := range m.byUserID {
		cp := *p
		cp.ResearchInterests = append([]string(nil), p.ResearchInterests...)
		out = append(out, &cp)
	}
	sortProfiles(out)
	return out, nil
}

// Count reports how many profiles exist.
func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byUserID), nil
}

func sortProfiles(profiles []*models.UserProfile) {
	sort.Slice(profiles, func(i, j int) bool {
		return strings.ToLower(profiles[i].Name) < strings.ToLower(profiles[j].Name)
	})
}
