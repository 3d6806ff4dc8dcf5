//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"quire/internal/profile/models"
	"quire/pkg/platform/sentinel"
	"quire/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	ctx   context.Context
	pg    *containers.PostgresContainer
	store *Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())

	_, err := s.pg.DB.ExecContext(s.ctx, Schema)
	s.Require().NoError(err)

	s.store = NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pg.DB.ExecContext(s.ctx, `TRUNCATE profiles`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) update(name string) *models.UserProfileUpdate {
	return &models.UserProfileUpdate{
		Name:              name,
		Email:             "ada@mit.edu",
		Institution:       "MIT",
		ResearchInterests: []string{"computation", "engines"},
		Role:              models.RoleResearcher,
		ProfileComplete:   true,
		IsComplete:        true,
	}
}

func (s *PostgresStoreSuite) TestUpsertCreatesAndGets() {
	created, err := s.store.Upsert(s.ctx, "user-1", s.update("Ada Lovelace"))
	s.Require().NoError(err)
	s.Equal("Ada Lovelace", created.Name)
	s.Equal([]string{"computation", "engines"}, created.ResearchInterests)

	got, err := s.store.Get(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal(models.RoleResearcher, got.Role)
	s.True(got.ProfileComplete)
}

func (s *PostgresStoreSuite) TestUpsertMergesOptionals() {
	website := "https://ada.dev"
	first := s.update("Ada Lovelace")
	first.PersonalWebsite = &website
	created, err := s.store.Upsert(s.ctx, "user-1", first)
	s.Require().NoError(err)

	// nil optionals in a later update keep the stored values.
	merged, err := s.store.Upsert(s.ctx, "user-1", s.update("Ada King"))
	s.Require().NoError(err)

	s.Equal(created.ID, merged.ID)
	s.Equal("Ada King", merged.Name)
	s.Equal("https://ada.dev", merged.PersonalWebsite)
	s.WithinDuration(created.CreatedAt, merged.CreatedAt, time.Second)
}

func (s *PostgresStoreSuite) TestGetNotFound() {
	_, err := s.store.Get(s.ctx, "nobody")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDelete() {
	_, err := s.store.Upsert(s.ctx, "user-1", s.update("Ada Lovelace"))
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(s.ctx, "user-1"))
	_, err = s.store.Get(s.ctx, "user-1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.ErrorIs(s.store.Delete(s.ctx, "user-1"), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListAndCount() {
	for user, name := range map[string]string{
		"u1": "charles babbage",
		"u2": "Ada Lovelace",
	} {
		_, err := s.store.Upsert(s.ctx, user, s.update(name))
		s.Require().NoError(err)
	}

	profiles, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(profiles, 2)
	s.Equal("Ada Lovelace", profiles[0].Name)
	s.Equal("charles babbage", profiles[1].Name)

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}
