// Package service implements article browsing and search over the catalog
// store.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"quire/internal/article/models"
	"quire/internal/article/store"
	"quire/internal/platform/metrics"
	dErrors "quire/pkg/domain-errors"
	"quire/pkg/platform/sentinel"
)

// Catalog is the article storage the service reads.
type Catalog interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Article, error)
	Browse(ctx context.Context, subject string, offset, limit int) (*models.Page, error)
	Search(ctx context.Context, query string, offset, limit int) (*models.Page, error)
	SetViews(ctx context.Context, id uuid.UUID, views int64) error
}

// Service answers catalog queries and keeps view counts.
type Service struct {
	catalog Catalog
	views   store.ViewCounter
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(catalog Catalog, views store.ViewCounter, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		views:   views,
		logger:  slog.Default(),
		tracer:  otel.Tracer("quire/article"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns one article and records the view.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	ctx, span := s.tracer.Start(ctx, "article.Get",
		trace.WithAttributes(attribute.String("article.id", id.String())))
	defer span.End()

	a, err := s.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "article not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load article", err)
	}

	views, err := s.views.Increment(ctx, id)
	if err != nil {
		// Best-effort: a broken counter must not block the read.
		s.logger.WarnContext(ctx, "view counter failed", "article_id", id, "error", err)
	} else {
		a.Views = views
		_ = s.catalog.SetViews(ctx, id, views)
	}

	if s.metrics != nil {
		s.metrics.ArticlesServed.Inc()
	}
	return a, nil
}

// Browse returns a page of the catalog, optionally filtered by subject.
func (s *Service) Browse(ctx context.Context, subject string, offset, limit int) (*models.Page, error) {
	ctx, span := s.tracer.Start(ctx, "article.Browse",
		trace.WithAttributes(attribute.String("article.subject", subject)))
	defer span.End()

	page, err := s.catalog.Browse(ctx, subject, offset, limit)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "browse articles", err)
	}
	return page, nil
}

// Search returns catalog entries matching a free-text query.
func (s *Service) Search(ctx context.Context, query string, offset, limit int) (*models.Page, error) {
	ctx, span := s.tracer.Start(ctx, "article.Search")
	defer span.End()

	page, err := s.catalog.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "search articles", err)
	}

	if s.metrics != nil {
		s.metrics.SearchQueries.Inc()
	}
	span.SetAttributes(attribute.Int("article.matches", page.Total))
	return page, nil
}
