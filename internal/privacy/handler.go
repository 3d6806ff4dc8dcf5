package privacy

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"quire/internal/platform/metrics"
	"quire/internal/platform/middleware"
	dErrors "quire/pkg/domain-errors"
	"quire/pkg/platform/httputil"
	"quire/pkg/platform/sentinel"
)

// Exporter defines the interface for privacy operations.
type Exporter interface {
	ExportData(ctx context.Context, userID string) (*Export, error)
	Erase(ctx context.Context, userID string) error
}

// Handler handles the GDPR endpoints.
type Handler struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	privacy Exporter
	tokens  middleware.TokenValidator
}

// NewHandler creates the privacy Handler.
func NewHandler(privacy Exporter, tokens middleware.TokenValidator, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, metrics: m, privacy: privacy, tokens: tokens}
}

// Register mounts the /me routes.
func (h *Handler) Register(r chi.Router) {
	mr := chi.NewRouter()
	mr.Use(middleware.Recovery(h.logger))
	mr.Use(middleware.RequestID)
	mr.Use(middleware.Logger(h.logger))
	mr.Use(middleware.Timeout(30 * time.Second))
	mr.Use(middleware.Latency(h.metrics, "privacy"))
	mr.Use(middleware.RequireAuth(h.tokens, h.logger))

	mr.Get("/data-export", h.handleExport)
	mr.Delete("/", h.handleErase)

	r.Mount("/me", mr)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	export, err := h.privacy.ExportData(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, export)
}

func (h *Handler) handleErase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	// Erasure is idempotent: a subject with no profile still gets a 204.
	// Absence surfaces as the store sentinel or a coded not-found depending
	// on the layer behind the Exporter, so accept both.
	err := h.privacy.Erase(ctx, userID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) && !dErrors.Is(err, dErrors.CodeNotFound) {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
