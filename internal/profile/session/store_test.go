package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"quire/internal/affiliation"
	"quire/internal/profile/validate"
	"quire/internal/profile/wizard"
	"quire/pkg/platform/sentinel"
)

type SessionStoreSuite struct {
	suite.Suite
	now   time.Time
	store *Store
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreSuite))
}

func (s *SessionStoreSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewStore(30*time.Minute, WithClock(func() time.Time { return s.now }))
}

func (s *SessionStoreSuite) newWizard() *wizard.Wizard {
	return wizard.New(
		validate.New(validate.Config{}),
		affiliation.NewRegistry(nil),
		nil,
	)
}

func (s *SessionStoreSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func (s *SessionStoreSuite) TestPutAndGet() {
	id := s.store.Put("user-1", s.newWizard())

	entry, err := s.store.Get(id)
	s.Require().NoError(err)
	s.Equal(id, entry.ID)
	s.Equal("user-1", entry.UserID)
	s.Equal(1, s.store.Len())
}

func (s *SessionStoreSuite) TestGetUnknownID() {
	_, err := s.store.Get(uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *SessionStoreSuite) TestGetExtendsDeadline() {
	id := s.store.Put("user-1", s.newWizard())

	// Touch the session just before expiry, then cross the original deadline.
	s.advance(29 * time.Minute)
	_, err := s.store.Get(id)
	s.Require().NoError(err)

	s.advance(29 * time.Minute)
	_, err = s.store.Get(id)
	s.NoError(err)
}

func (s *SessionStoreSuite) TestGetExpired() {
	id := s.store.Put("user-1", s.newWizard())
	s.advance(31 * time.Minute)

	_, err := s.store.Get(id)
	s.ErrorIs(err, sentinel.ErrExpired)

	// Expired entries are collected on access.
	s.Equal(0, s.store.Len())
	_, err = s.store.Get(id)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *SessionStoreSuite) TestDelete() {
	w := s.newWizard()
	id := s.store.Put("user-1", w)

	s.store.Delete(id)
	s.Equal(0, s.store.Len())
	s.True(w.State().Closed)

	// Unknown IDs are a no-op.
	s.store.Delete(uuid.New())
}

func (s *SessionStoreSuite) TestSweep() {
	old := s.store.Put("user-1", s.newWizard())
	s.advance(20 * time.Minute)
	fresh := s.store.Put("user-2", s.newWizard())
	s.advance(15 * time.Minute)

	s.Equal(1, s.store.Sweep())
	s.Equal(1, s.store.Len())

	_, err := s.store.Get(old)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.Get(fresh)
	s.NoError(err)
}
