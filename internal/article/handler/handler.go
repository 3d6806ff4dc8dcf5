// Package handler exposes the public article catalog endpoints. These routes
// are unauthenticated: browsing is open to everyone.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	articleModel "quire/internal/article/models"
	"quire/internal/platform/metrics"
	"quire/internal/platform/middleware"
	dErrors "quire/pkg/domain-errors"
	"quire/pkg/platform/httputil"
)

// Service defines the interface for catalog queries.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*articleModel.Article, error)
	Browse(ctx context.Context, subject string, offset, limit int) (*articleModel.Page, error)
	Search(ctx context.Context, query string, offset, limit int) (*articleModel.Page, error)
}

// Handler handles article endpoints.
type Handler struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	articles Service
}

// New creates the article Handler.
func New(articles Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, metrics: m, articles: articles}
}

// Register mounts the article routes.
func (h *Handler) Register(r chi.Router) {
	ar := chi.NewRouter()
	ar.Use(middleware.Recovery(h.logger))
	ar.Use(middleware.RequestID)
	ar.Use(middleware.Logger(h.logger))
	ar.Use(middleware.Timeout(15 * time.Second))
	ar.Use(middleware.Latency(h.metrics, "articles"))

	ar.Get("/", h.handleBrowse)
	ar.Get("/search", h.handleSearch)
	ar.Get("/{articleID}", h.handleGet)

	r.Mount("/articles", ar)
}

func (h *Handler) handleBrowse(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	page, err := h.articles.Browse(r.Context(), r.URL.Query().Get("subject"), offset, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "q parameter is required"))
		return
	}

	offset, limit := pagination(r)
	page, err := h.articles.Search(r.Context(), query, offset, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "articleID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid article id"))
		return
	}

	article, err := h.articles.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, article)
}

func pagination(r *http.Request) (int, int) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return offset, limit
}
