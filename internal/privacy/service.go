// Package privacy implements the GDPR surface: subject access (data export)
// and the right to erasure.
package privacy

import (
	"context"
	"log/slog"
	"time"

	"quire/internal/audit"
	profileModel "quire/internal/profile/models"
)

// ProfileStore is the slice of the profile service privacy needs.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*profileModel.UserProfile, error)
	Delete(ctx context.Context, userID string) error
}

// AuditPublisher receives audit events. Optional.
type AuditPublisher interface {
	Emit(ctx context.Context, e audit.Event) error
}

// Export is the bundle handed to a subject on access request.
type Export struct {
	GeneratedAt time.Time                 `json:"generatedAt"`
	Profile     *profileModel.UserProfile `json:"profile,omitempty"`
	AuditEvents []audit.Event             `json:"auditEvents"`
}

// Service answers privacy requests.
type Service struct {
	profiles  ProfileStore
	trail     *audit.Trail
	publisher AuditPublisher
	logger    *slog.Logger
	clock     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithClock overrides the time source for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// New constructs a Service.
func New(profiles ProfileStore, trail *audit.Trail, opts ...Option) *Service {
	s := &Service{
		profiles: profiles,
		trail:    trail,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExportData assembles everything the platform holds about userID. A user
// with no profile still gets a bundle: exports never fail on absence.
func (s *Service) ExportData(ctx context.Context, userID string) (*Export, error) {
	export := &Export{
		GeneratedAt: s.clock().UTC(),
		AuditEvents: s.trail.ByActor(userID),
	}
	if export.AuditEvents == nil {
		export.AuditEvents = []audit.Event{}
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err == nil {
		export.Profile = profile
	}

	if s.publisher != nil {
		_ = s.publisher.Emit(ctx, audit.NewEvent(userID, audit.ActionDataExported, "", nil))
	}
	s.logger.InfoContext(ctx, "data export generated", "user_id", userID)
	return export, nil
}

// Erase deletes the subject's profile and scrubs their retained audit
// events. Erasing an absent profile still scrubs the trail.
func (s *Service) Erase(ctx context.Context, userID string) error {
	profileErr := s.profiles.Delete(ctx, userID)
	dropped := s.trail.DropActor(userID)

	s.logger.InfoContext(ctx, "erasure request processed",
		"user_id", userID,
		"audit_events_dropped", dropped,
		"had_profile", profileErr == nil,
	)
	return profileErr
}
