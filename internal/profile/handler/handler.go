// Package handler exposes the profile wizard over HTTP. Each session is a
// server-side wizard state machine; the endpoints mirror its transitions.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"quire/internal/platform/metrics"
	"quire/internal/platform/middleware"
	"quire/internal/profile/models"
	"quire/internal/profile/session"
	"quire/internal/profile/transcode"
	"quire/internal/profile/validate"
	"quire/internal/profile/wizard"
	dErrors "quire/pkg/domain-errors"
	"quire/pkg/email"
	"quire/pkg/platform/httputil"
	"quire/pkg/platform/sentinel"
)

// Profiles is the slice of the profile service the wizard needs: loading a
// stored profile for edit sessions and binding the save callback.
type Profiles interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	SaverFor(userID string) wizard.Saver
}

// Handler drives wizard sessions.
type Handler struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	sessions  *session.Store
	validator *validate.Validator
	verifier  transcode.DomainVerifier
	profiles  Profiles
	tokens    middleware.TokenValidator
}

// New creates the wizard Handler.
func New(
	sessions *session.Store,
	validator *validate.Validator,
	verifier transcode.DomainVerifier,
	profiles Profiles,
	tokens middleware.TokenValidator,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		logger:    logger,
		metrics:   m,
		sessions:  sessions,
		validator: validator,
		verifier:  verifier,
		profiles:  profiles,
		tokens:    tokens,
	}
}

// Register mounts the wizard routes.
func (h *Handler) Register(r chi.Router) {
	wr := chi.NewRouter()
	wr.Use(middleware.Recovery(h.logger))
	wr.Use(middleware.RequestID)
	wr.Use(middleware.Logger(h.logger))
	wr.Use(middleware.Timeout(30 * time.Second))
	wr.Use(middleware.ContentTypeJSON)
	wr.Use(middleware.Latency(h.metrics, "profile_wizard"))
	wr.Use(middleware.RequireAuth(h.tokens, h.logger))

	wr.Post("/", h.handleStart)
	wr.Get("/{sessionID}", h.handleState)
	wr.Post("/{sessionID}/fields", h.handleChangeField)
	wr.Post("/{sessionID}/next", h.handleNext)
	wr.Post("/{sessionID}/previous", h.handlePrevious)
	wr.Post("/{sessionID}/step", h.handleGoToStep)
	wr.Post("/{sessionID}/submit", h.handleSubmit)
	wr.Delete("/{sessionID}", h.handleClose)

	r.Mount("/profile/wizard", wr)
}

// sessionResponse is the wire shape for every wizard reply.
type sessionResponse struct {
	SessionID string       `json:"sessionId"`
	State     wizard.State `json:"state"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req StartWizardRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	opts := []wizard.Option{wizard.WithLogger(h.logger)}
	if req.Edit {
		profile, err := h.profiles.Get(ctx, userID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		opts = append(opts, wizard.WithExistingProfile(*profile))
	} else {
		seed := req.Email
		if seed == "" {
			seed = middleware.GetUserEmail(ctx)
		}
		if seed != "" {
			first, last := email.DeriveNameFromEmail(seed)
			opts = append(opts, wizard.WithSeedEmail(seed, first, last))
		}
	}

	wz := wizard.New(h.validator, h.verifier, h.profiles.SaverFor(userID), opts...)
	id := h.sessions.Put(userID, wz)

	h.logger.InfoContext(ctx, "wizard session started",
		"user_id", userID,
		"session_id", id,
		"edit", req.Edit,
	)
	httputil.WriteJSON(w, http.StatusCreated, sessionResponse{SessionID: id.String(), State: wz.State()})
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolveSession(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: entry.ID.String(), State: entry.Wizard.State()})
}

func (h *Handler) handleChangeField(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	var req ChangeFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	field, value, err := req.Decode()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	state, err := entry.Wizard.ChangeField(field, value)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: entry.ID.String(), State: state})
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	state, err := entry.Wizard.Next()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: entry.ID.String(), State: state})
}

func (h *Handler) handlePrevious(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	state, err := entry.Wizard.Previous()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if state.Closed {
		// Backing out of the first step cancels the whole session.
		h.sessions.Delete(entry.ID)
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: entry.ID.String(), State: state})
}

func (h *Handler) handleGoToStep(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	var req GoToStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	state, err := entry.Wizard.GoToStep(wizard.Step(req.Step))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: entry.ID.String(), State: state})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	state, err := entry.Wizard.Submit(ctx)
	switch {
	case err != nil && dErrors.Is(err, dErrors.CodeDomainMismatch):
		h.countSubmission("domain_mismatch")
		httputil.WriteError(w, err)
		return
	case err != nil && dErrors.Is(err, dErrors.CodeUnavailable):
		h.countSubmission("save_failed")
		httputil.WriteError(w, err)
		return
	case err != nil:
		httputil.WriteError(w, err)
		return
	case !state.Done:
		h.countSubmission("validation_failed")
	default:
		h.countSubmission("completed")
		if state.Closed {
			h.sessions.Delete(entry.ID)
		}
	}

	httputil.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: entry.ID.String(), State: state})
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.resolveSession(w, r)
	if !ok {
		return
	}
	h.sessions.Delete(entry.ID)
	w.WriteHeader(http.StatusNoContent)
}

// resolveSession parses the session ID, loads the session, and enforces that
// the caller owns it.
func (h *Handler) resolveSession(w http.ResponseWriter, r *http.Request) (*session.Entry, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid session id"))
		return nil, false
	}

	entry, err := h.sessions.Get(id)
	if err != nil {
		if errors.Is(err, sentinel.ErrExpired) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "session expired"))
		} else {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "session not found"))
		}
		return nil, false
	}

	if entry.UserID != middleware.GetUserID(r.Context()) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "session not found"))
		return nil, false
	}
	return entry, true
}

func (h *Handler) countSubmission(outcome string) {
	if h.metrics != nil {
		h.metrics.WizardSubmissions.WithLabelValues(outcome).Inc()
	}
}
