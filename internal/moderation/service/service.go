// Package service implements the moderation workflow: submissions enter a
// pending queue and a moderator decides each one exactly once.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"quire/internal/audit"
	"quire/internal/moderation/models"
	"quire/internal/platform/metrics"
	dErrors "quire/pkg/domain-errors"
	"quire/pkg/platform/sentinel"
)

// Store is the moderation persistence the service depends on.
type Store interface {
	Create(ctx context.Context, sub *models.Submission) error
	Get(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Submission, error)
	Update(ctx context.Context, sub *models.Submission) error
}

// AuditPublisher receives audit events. Optional.
type AuditPublisher interface {
	Emit(ctx context.Context, e audit.Event) error
}

// Service orchestrates the moderation queue.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditPublisher
	clock   func() time.Time
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

// WithClock overrides the time source for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default(), clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit enqueues a manuscript for moderation.
func (s *Service) Submit(ctx context.Context, submitterID, title, abstract string) (*models.Submission, error) {
	if strings.TrimSpace(title) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "title is required")
	}

	sub := &models.Submission{
		ID:          uuid.New(),
		Title:       title,
		Abstract:    abstract,
		SubmitterID: submitterID,
		Status:      models.StatusPending,
		SubmittedAt: s.clock(),
	}
	if err := s.store.Create(ctx, sub); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "enqueue submission", err)
	}

	s.emit(ctx, audit.NewEvent(submitterID, audit.ActionSubmissionReceived, sub.ID.String(), nil))
	return sub, nil
}

// Queue lists submissions, optionally filtered by status.
func (s *Service) Queue(ctx context.Context, status models.Status) ([]*models.Submission, error) {
	subs, err := s.store.ListByStatus(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list submissions", err)
	}
	return subs, nil
}

// Decide records a moderator's verdict. A submission can be decided once;
// deciding a non-pending submission is a conflict.
func (s *Service) Decide(ctx context.Context, id uuid.UUID, moderator string, verdict models.Verdict, note string) (*models.Submission, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "submission not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load submission", err)
	}
	if sub.Status != models.StatusPending {
		return nil, dErrors.Newf(dErrors.CodeConflict, "submission already %s", sub.Status)
	}

	switch verdict {
	case models.VerdictApprove:
		sub.Status = models.StatusApproved
	case models.VerdictReject:
		sub.Status = models.StatusRejected
	default:
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid verdict %q", verdict)
	}
	sub.DecidedBy = moderator
	sub.DecidedAt = s.clock()
	sub.ReviewNote = note

	if err := s.store.Update(ctx, sub); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "record decision", err)
	}

	if s.metrics != nil {
		s.metrics.ModerationDecisions.WithLabelValues(string(verdict)).Inc()
	}
	s.emit(ctx, audit.NewEvent(moderator, audit.ActionSubmissionDecided, sub.ID.String(), map[string]string{
		"verdict": string(verdict),
	}))
	s.logger.InfoContext(ctx, "submission decided",
		"submission_id", sub.ID,
		"verdict", verdict,
		"moderator", moderator,
	)

	return sub, nil
}

func (s *Service) emit(ctx context.Context, e audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", e.Action, "error", err)
	}
}
