package admin_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"quire/internal/admin"
	"quire/internal/admin/adapters"
	"quire/internal/audit"
	"quire/internal/profile/models"
	profileService "quire/internal/profile/service"
	profileStore "quire/internal/profile/store"
)

const testAdminToken = "test-admin-token"

type AdminHandlerSuite struct {
	suite.Suite
	trail  *audit.Trail
	router chi.Router
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerSuite))
}

func (s *AdminHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := profileStore.NewMemory()
	_, err := store.Upsert(context.Background(), "user-1", &models.UserProfileUpdate{
		Name:            "Ada Lovelace",
		Email:           "ada@mit.edu",
		Institution:     "MIT",
		Role:            models.RoleResearcher,
		ProfileComplete: true,
		IsComplete:      true,
	})
	s.Require().NoError(err)

	profiles := profileService.New(store, profileService.WithLogger(logger))
	s.trail = audit.NewTrail(16)

	h := admin.NewHandler(adapters.NewProfileAdapter(profiles), s.trail, testAdminToken, logger, nil)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *AdminHandlerSuite) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *AdminHandlerSuite) TestRequiresAdminToken() {
	s.Equal(http.StatusUnauthorized, s.get("/admin/users", "").Code)
	s.Equal(http.StatusUnauthorized, s.get("/admin/users", "wrong").Code)
}

func (s *AdminHandlerSuite) TestListUsers() {
	rec := s.get("/admin/users", testAdminToken)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp admin.UsersListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Require().Equal(1, resp.Total)
	s.Equal("Ada Lovelace", resp.Users[0].Name)
	s.Equal("MIT", resp.Users[0].Institution)
	s.True(resp.Users[0].ProfileComplete)
}

func (s *AdminHandlerSuite) TestAudit() {
	s.Require().NoError(s.trail.Emit(context.Background(), audit.NewEvent("user-1", audit.ActionProfileCompleted, "", nil)))
	s.Require().NoError(s.trail.Emit(context.Background(), audit.NewEvent("user-2", audit.ActionDataExported, "", nil)))

	rec := s.get("/admin/audit?limit=1", testAdminToken)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Events []audit.Event `json:"events"`
		Total  int           `json:"total"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Require().Equal(1, resp.Total)
	s.Equal(audit.ActionDataExported, resp.Events[0].Action)
}
