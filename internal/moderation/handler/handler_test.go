package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	moderationModel "quire/internal/moderation/models"
	moderationService "quire/internal/moderation/service"
	"quire/internal/moderation/store"
	"quire/internal/platform/token"
)

const (
	testSigningKey = "test-signing-key"
	testIssuer     = "quire-idp"
	testAdminToken = "test-admin-token"
)

type ModerationHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestModerationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ModerationHandlerSuite))
}

func (s *ModerationHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := moderationService.New(store.NewMemory(), moderationService.WithLogger(logger))
	h := New(svc, token.NewValidator(testSigningKey, testIssuer), testAdminToken, logger, nil)

	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *ModerationHandlerSuite) bearerToken(userID string) string {
	claims := token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	s.Require().NoError(err)
	return signed
}

func (s *ModerationHandlerSuite) submit(userID, title string) *moderationModel.Submission {
	body, err := json.Marshal(SubmitRequest{Title: title, Abstract: "An abstract."})
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.bearerToken(userID))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var sub moderationModel.Submission
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&sub))
	return &sub
}

func (s *ModerationHandlerSuite) adminDo(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", testAdminToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *ModerationHandlerSuite) TestSubmitRequiresAuth() {
	req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewReader([]byte(`{"title":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ModerationHandlerSuite) TestSubmitValidation() {
	body, _ := json.Marshal(SubmitRequest{Title: ""})
	req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.bearerToken("user-1"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ModerationHandlerSuite) TestSubmitAndQueue() {
	sub := s.submit("user-1", "Analytical Engines Revisited")
	s.Equal(moderationModel.StatusPending, sub.Status)
	s.Equal("user-1", sub.SubmitterID)

	rec := s.adminDo(http.MethodGet, "/admin/moderation/queue?status=pending", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), sub.ID.String())
}

func (s *ModerationHandlerSuite) TestQueueRejectsUnknownStatus() {
	rec := s.adminDo(http.MethodGet, "/admin/moderation/queue?status=limbo", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ModerationHandlerSuite) TestQueueRequiresAdminToken() {
	req := httptest.NewRequest(http.MethodGet, "/admin/moderation/queue", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ModerationHandlerSuite) TestDecide() {
	sub := s.submit("user-1", "Analytical Engines Revisited")

	rec := s.adminDo(http.MethodPost, "/admin/moderation/"+sub.ID.String()+"/decision", DecisionRequest{
		Verdict:   "approve",
		Note:      "looks sound",
		Moderator: "mod-1",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var decided moderationModel.Submission
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&decided))
	s.Equal(moderationModel.StatusApproved, decided.Status)
	s.Equal("mod-1", decided.DecidedBy)

	// Double decision conflicts.
	rec = s.adminDo(http.MethodPost, "/admin/moderation/"+sub.ID.String()+"/decision", DecisionRequest{Verdict: "reject"})
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *ModerationHandlerSuite) TestDecideInvalidVerdict() {
	sub := s.submit("user-1", "Analytical Engines Revisited")

	rec := s.adminDo(http.MethodPost, "/admin/moderation/"+sub.ID.String()+"/decision", DecisionRequest{Verdict: "maybe"})
	s.Equal(http.StatusBadRequest, rec.Code)
}
