// Package service owns profile persistence semantics: the wizard produces
// updates, this service applies them to the store and fans out audit events
// and metrics.
package service

import (
	"context"
	"errors"
	"log/slog"

	"quire/internal/audit"
	"quire/internal/platform/metrics"
	"quire/internal/profile/models"
	"quire/internal/profile/wizard"
	dErrors "quire/pkg/domain-errors"
	"quire/pkg/platform/sentinel"
)

// Store is the profile persistence the service depends on. Memory and
// Postgres implementations both satisfy it.
type Store interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Upsert(ctx context.Context, userID string, update *models.UserProfileUpdate) (*models.UserProfile, error)
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context) ([]*models.UserProfile, error)
	Count(ctx context.Context) (int, error)
}

// AuditPublisher receives audit events. Optional.
type AuditPublisher interface {
	Emit(ctx context.Context, e audit.Event) error
}

// Service orchestrates profile reads and writes.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditPublisher
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.audit = publisher }
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the profile owned by userID.
func (s *Service) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(dErrors.CodeNotFound, "profile not found", err)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load profile", err)
	}
	return p, nil
}

// Save applies a wizard-produced update for userID.
func (s *Service) Save(ctx context.Context, userID string, update *models.UserProfileUpdate) (*models.UserProfile, error) {
	p, err := s.store.Upsert(ctx, userID, update)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "persist profile", err)
	}

	if s.metrics != nil {
		s.metrics.ProfilesCompleted.Inc()
	}
	s.emit(ctx, audit.NewEvent(userID, audit.ActionProfileCompleted, p.ID.String(), map[string]string{
		"institution": p.Institution,
		"role":        p.Role.String(),
	}))
	s.logger.InfoContext(ctx, "profile saved", "user_id", userID, "profile_id", p.ID)

	return p, nil
}

// Delete erases the profile owned by userID.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(dErrors.CodeNotFound, "profile not found", err)
		}
		return dErrors.Wrap(dErrors.CodeInternal, "delete profile", err)
	}

	s.emit(ctx, audit.NewEvent(userID, audit.ActionProfileDeleted, "", nil))
	s.logger.InfoContext(ctx, "profile deleted", "user_id", userID)
	return nil
}

// List returns every profile, for the admin surface.
func (s *Service) List(ctx context.Context) ([]*models.UserProfile, error) {
	profiles, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list profiles", err)
	}
	return profiles, nil
}

// Count reports how many profiles exist.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInternal, "count profiles", err)
	}
	return n, nil
}

// SaverFor binds the service to one user as the wizard's save callback.
func (s *Service) SaverFor(userID string) wizard.Saver {
	return userSaver{svc: s, userID: userID}
}

type userSaver struct {
	svc    *Service
	userID string
}

func (u userSaver) Save(ctx context.Context, update *models.UserProfileUpdate) error {
	_, err := u.svc.Save(ctx, u.userID, update)
	return err
}

func (s *Service) emit(ctx context.Context, e audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", e.Action, "error", err)
	}
}
