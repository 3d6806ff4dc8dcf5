// Package admin exposes the operator dashboard endpoints: user listings and
// the recent audit trail, both behind the admin token.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"quire/internal/audit"
	"quire/internal/platform/metrics"
	"quire/internal/platform/middleware"
	"quire/pkg/platform/httputil"
)

// UserLister supplies the admin user listing.
type UserLister interface {
	ListUsers(ctx context.Context) (*UsersListResponse, error)
}

// Handler handles the admin dashboard endpoints.
type Handler struct {
	logger     *slog.Logger
	metrics    *metrics.Metrics
	users      UserLister
	trail      *audit.Trail
	adminToken string
}

// NewHandler creates the admin Handler.
func NewHandler(users UserLister, trail *audit.Trail, adminToken string, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:     logger,
		metrics:    m,
		users:      users,
		trail:      trail,
		adminToken: adminToken,
	}
}

// Register mounts the admin routes.
func (h *Handler) Register(r chi.Router) {
	ar := chi.NewRouter()
	ar.Use(middleware.Recovery(h.logger))
	ar.Use(middleware.RequestID)
	ar.Use(middleware.Logger(h.logger))
	ar.Use(middleware.Timeout(15 * time.Second))
	ar.Use(middleware.Latency(h.metrics, "admin"))
	ar.Use(middleware.RequireAdminToken(h.adminToken, h.logger))

	ar.Get("/users", h.handleListUsers)
	ar.Get("/audit", h.handleAudit)

	r.Mount("/admin", ar)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.users.ListUsers(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events := h.trail.Recent(limit)
	httputil.WriteJSON(w, http.StatusOK, AuditListResponse{Events: events, Total: len(events)})
}
