// Package handler exposes the moderation queue: an authenticated submission
// endpoint for authors and an admin-token-gated review surface.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	moderationModel "quire/internal/moderation/models"
	"quire/internal/platform/metrics"
	"quire/internal/platform/middleware"
	dErrors "quire/pkg/domain-errors"
	"quire/pkg/platform/httputil"
)

// Service defines the interface for moderation operations.
type Service interface {
	Submit(ctx context.Context, submitterID, title, abstract string) (*moderationModel.Submission, error)
	Queue(ctx context.Context, status moderationModel.Status) ([]*moderationModel.Submission, error)
	Decide(ctx context.Context, id uuid.UUID, moderator string, verdict moderationModel.Verdict, note string) (*moderationModel.Submission, error)
}

// Handler handles moderation endpoints.
type Handler struct {
	logger     *slog.Logger
	metrics    *metrics.Metrics
	moderation Service
	tokens     middleware.TokenValidator
	adminToken string
}

// New creates the moderation Handler.
func New(moderation Service, tokens middleware.TokenValidator, adminToken string, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:     logger,
		metrics:    m,
		moderation: moderation,
		tokens:     tokens,
		adminToken: adminToken,
	}
}

// Register mounts the author-facing submission route and the admin review
// routes.
func (h *Handler) Register(r chi.Router) {
	sr := chi.NewRouter()
	sr.Use(middleware.Recovery(h.logger))
	sr.Use(middleware.RequestID)
	sr.Use(middleware.Logger(h.logger))
	sr.Use(middleware.Timeout(15 * time.Second))
	sr.Use(middleware.ContentTypeJSON)
	sr.Use(middleware.Latency(h.metrics, "submissions"))
	sr.Use(middleware.RequireAuth(h.tokens, h.logger))
	sr.Post("/", h.handleSubmit)
	r.Mount("/submissions", sr)

	ar := chi.NewRouter()
	ar.Use(middleware.Recovery(h.logger))
	ar.Use(middleware.RequestID)
	ar.Use(middleware.Logger(h.logger))
	ar.Use(middleware.Timeout(15 * time.Second))
	ar.Use(middleware.ContentTypeJSON)
	ar.Use(middleware.Latency(h.metrics, "admin_moderation"))
	ar.Use(middleware.RequireAdminToken(h.adminToken, h.logger))
	ar.Get("/queue", h.handleQueue)
	ar.Post("/{submissionID}/decision", h.handleDecide)
	r.Mount("/admin/moderation", ar)
}

// SubmitRequest enqueues a manuscript.
type SubmitRequest struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
}

func (r *SubmitRequest) Validate() error {
	if !govalidator.StringLength(r.Title, "1", "500") {
		return dErrors.New(dErrors.CodeBadRequest, "title must be 1-500 characters")
	}
	if !govalidator.StringLength(r.Abstract, "0", "5000") {
		return dErrors.New(dErrors.CodeBadRequest, "abstract must be at most 5000 characters")
	}
	return nil
}

// DecisionRequest records a verdict on a pending submission.
type DecisionRequest struct {
	Verdict   string `json:"verdict"`
	Note      string `json:"note,omitempty"`
	Moderator string `json:"moderator,omitempty"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	sub, err := h.moderation.Submit(ctx, middleware.GetUserID(ctx), req.Title, req.Abstract)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sub)
}

func (h *Handler) handleQueue(w http.ResponseWriter, r *http.Request) {
	status := moderationModel.Status(r.URL.Query().Get("status"))
	switch status {
	case "", moderationModel.StatusPending, moderationModel.StatusApproved, moderationModel.StatusRejected:
	default:
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "invalid status %q", status))
		return
	}

	subs, err := h.moderation.Queue(r.Context(), status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"submissions": subs,
		"total":       len(subs),
	})
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "submissionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid submission id"))
		return
	}

	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	verdict, err := moderationModel.ParseVerdict(req.Verdict)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	moderator := req.Moderator
	if moderator == "" {
		moderator = "admin"
	}

	sub, err := h.moderation.Decide(r.Context(), id, moderator, verdict, req.Note)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}
