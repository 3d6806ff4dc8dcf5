package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"quire/internal/profile/models"
	"quire/pkg/platform/sentinel"
)

// Postgres persists profiles in PostgreSQL. COALESCE on the optional columns
// keeps omitted update fields from overwriting stored values, mirroring the
// memory store's merge semantics.
type Postgres struct {
	db    *sql.DB
	clock func() time.Time
}

// PostgresOption configures a Postgres store.
type PostgresOption func(*Postgres)

// WithPostgresClock overrides the time source for tests.
func WithPostgresClock(clock func() time.Time) PostgresOption {
	return func(p *Postgres) { p.clock = clock }
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *Postgres {
	p := &Postgres{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Schema is the profiles table DDL, applied by migrations and by the
// integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id            TEXT PRIMARY KEY,
	id                 UUID NOT NULL,
	name               TEXT NOT NULL,
	email              TEXT NOT NULL,
	institution        TEXT NOT NULL DEFAULT '',
	department         TEXT NOT NULL DEFAULT '',
	position           TEXT NOT NULL DEFAULT '',
	research_interests TEXT[] NOT NULL DEFAULT '{}',
	role               TEXT NOT NULL DEFAULT 'Researcher',
	personal_website   TEXT,
	orcid_id           TEXT,
	twitter            TEXT,
	linkedin           TEXT,
	wants_to_be_editor BOOLEAN NOT NULL DEFAULT FALSE,
	profile_complete   BOOLEAN NOT NULL DEFAULT FALSE,
	is_complete        BOOLEAN NOT NULL DEFAULT FALSE,
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
)`

const selectColumns = `id, name, email, institution, department, position,
	research_interests, role,
	COALESCE(personal_website, ''), COALESCE(orcid_id, ''),
	COALESCE(twitter, ''), COALESCE(linkedin, ''),
	wants_to_be_editor, profile_complete, is_complete, created_at, updated_at`

// Get returns the profile owned by userID.
func (p *Postgres) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM profiles WHERE user_id = $1`, userID)
	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// Upsert applies an update create-or-merge.
func (p *Postgres) Upsert(ctx context.Context, userID string, update *models.UserProfileUpdate) (*models.UserProfile, error) {
	now := p.clock()
	query := `
		INSERT INTO profiles (
			user_id, id, name, email, institution, department, position,
			research_interests, role, personal_website, orcid_id, twitter,
			linkedin, wants_to_be_editor, profile_complete, is_complete,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
		ON CONFLICT (user_id) DO UPDATE SET
			name               = EXCLUDED.name,
			email              = EXCLUDED.email,
			institution        = EXCLUDED.institution,
			department         = EXCLUDED.department,
			position           = EXCLUDED.position,
			research_interests = EXCLUDED.research_interests,
			role               = EXCLUDED.role,
			personal_website   = COALESCE(EXCLUDED.personal_website, profiles.personal_website),
			orcid_id           = COALESCE(EXCLUDED.orcid_id, profiles.orcid_id),
			twitter            = COALESCE(EXCLUDED.twitter, profiles.twitter),
			linkedin           = COALESCE(EXCLUDED.linkedin, profiles.linkedin),
			wants_to_be_editor = EXCLUDED.wants_to_be_editor,
			profile_complete   = EXCLUDED.profile_complete,
			is_complete        = EXCLUDED.is_complete,
			updated_at         = EXCLUDED.updated_at
		RETURNING ` + selectColumns
	row := p.db.QueryRowContext(ctx, query,
		userID, uuid.New(), update.Name, update.Email,
		update.Institution, update.Department, update.Position,
		pq.Array(update.ResearchInterests), string(update.Role),
		update.PersonalWebsite, update.OrcidID, update.Twitter, update.LinkedIn,
		update.WantsToBeEditor, update.ProfileComplete, update.IsComplete, now)
	profile, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}

// Delete erases the profile owned by userID.
func (p *Postgres) Delete(ctx context.Context, userID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// List returns all profiles ordered by name.
func (p *Postgres) List(ctx context.Context) ([]*models.UserProfile, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM profiles ORDER BY LOWER(name)`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []*models.UserProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		out = append(out, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

// Count reports how many profiles exist.
func (p *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.UserProfile, error) {
	var p models.UserProfile
	var interests pq.StringArray
	var role string
	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Institution, &p.Department, &p.Position,
		&interests, &role,
		&p.PersonalWebsite, &p.OrcidID, &p.Twitter, &p.LinkedIn,
		&p.WantsToBeEditor, &p.ProfileComplete, &p.IsComplete,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ResearchInterests = []string(interests)
	p.Role = models.Role(role)
	return &p, nil
}
