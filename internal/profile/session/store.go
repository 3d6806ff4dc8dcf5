// Package session tracks live wizard sessions by ID. Sessions are in-memory
// only: an abandoned wizard is simply forgotten after its TTL.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"quire/internal/profile/wizard"
	"quire/pkg/platform/sentinel"
)

// Entry pairs a wizard with the identity that opened it.
type Entry struct {
	ID       uuid.UUID
	UserID   string
	Wizard   *wizard.Wizard
	Deadline time.Time
}

// Store holds live sessions. Expired sessions are collected by Sweep, which
// the server runs on a ticker.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[uuid.UUID]*Entry
	clock    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// NewStore creates a session store with the given idle TTL.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*Entry),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put registers a wizard and returns its session ID.
func (s *Store) Put(userID string, w *wizard.Wizard) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.sessions[id] = &Entry{
		ID:       id,
		UserID:   userID,
		Wizard:   w,
		Deadline: s.clock().Add(s.ttl),
	}
	return id
}

// Get returns a live session and pushes its deadline forward. Expired
// sessions report sentinel.ErrExpired so transport can distinguish "gone"
// from "never existed".
func (s *Store) Get(id uuid.UUID) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if s.clock().After(entry.Deadline) {
		entry.Wizard.Close()
		delete(s.sessions, id)
		return nil, sentinel.ErrExpired
	}
	entry.Deadline = s.clock().Add(s.ttl)
	return entry, nil
}

// Delete closes and removes a session. Removing an unknown ID is a no-op.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[id]; ok {
		entry.Wizard.Close()
		delete(s.sessions, id)
	}
}

// Sweep drops every expired session and returns how many were collected.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	collected := 0
	for id, entry := range s.sessions {
		if now.After(entry.Deadline) {
			entry.Wizard.Close()
			delete(s.sessions, id)
			collected++
		}
	}
	return collected
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Janitor sweeps on an interval until ctx is done. Run it under the server's
// errgroup.
func (s *Store) Janitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}
