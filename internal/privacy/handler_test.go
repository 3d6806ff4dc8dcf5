package privacy

import (
	"context"
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

	"quire/internal/audit"
	"quire/internal/platform/token"
	"quire/internal/profile/models"
	profileService "quire/internal/profile/service"
	profileStore "quire/internal/profile/store"
)

const (
	testSigningKey = "test-signing-key"
	testIssuer     = "quire-idp"
)

type PrivacyHandlerSuite struct {
	suite.Suite
	profiles *profileStore.Memory
	trail    *audit.Trail
	router   chi.Router
}

func TestPrivacyHandlerSuite(t *testing.T) {
	suite.Run(t, new(PrivacyHandlerSuite))
}

func (s *PrivacyHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.profiles = profileStore.NewMemory()
	s.trail = audit.NewTrail(16)
	svc := New(s.profiles, s.trail, WithLogger(logger))

	h := NewHandler(svc, token.NewValidator(testSigningKey, testIssuer), logger, nil)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *PrivacyHandlerSuite) do(method, path, userID string) *httptest.ResponseRecorder {
	claims := token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	s.Require().NoError(err)

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *PrivacyHandlerSuite) TestRequiresAuth() {
	req := httptest.NewRequest(http.MethodGet, "/me/data-export", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *PrivacyHandlerSuite) TestDataExport() {
	_, err := s.profiles.Upsert(context.Background(), "user-1", &models.UserProfileUpdate{
		Name:  "Ada Lovelace",
		Email: "ada@mit.edu",
	})
	s.Require().NoError(err)

	rec := s.do(http.MethodGet, "/me/data-export", "user-1")
	s.Require().Equal(http.StatusOK, rec.Code)

	var export Export
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&export))
	s.Require().NotNil(export.Profile)
	s.Equal("Ada Lovelace", export.Profile.Name)
	s.NotNil(export.AuditEvents)
}

func (s *PrivacyHandlerSuite) TestEraseIsIdempotent() {
	_, err := s.profiles.Upsert(context.Background(), "user-1", &models.UserProfileUpdate{
		Name:  "Ada Lovelace",
		Email: "ada@mit.edu",
	})
	s.Require().NoError(err)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/me", "user-1").Code)
	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/me", "user-1").Code)
}

// TestEraseThroughProfileService wires the handler over the profile service
// instead of the raw store, the same composition cmd/server uses. The service
// reports absence as a coded not-found rather than the store sentinel, and
// erasure must stay idempotent through that layer too.
func (s *PrivacyHandlerSuite) TestEraseThroughProfileService() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := profileStore.NewMemory()
	profiles := profileService.New(store, profileService.WithLogger(logger))
	svc := New(profiles, audit.NewTrail(16), WithLogger(logger))

	h := NewHandler(svc, token.NewValidator(testSigningKey, testIssuer), logger, nil)
	s.router = chi.NewRouter()
	h.Register(s.router)

	s.Run("absent profile still yields 204", func() {
		s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/me", "ghost").Code)
	})

	s.Run("existing profile is erased", func() {
		_, err := store.Upsert(context.Background(), "user-1", &models.UserProfileUpdate{
			Name:  "Ada Lovelace",
			Email: "ada@mit.edu",
		})
		s.Require().NoError(err)

		s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/me", "user-1").Code)
		_, err = store.Get(context.Background(), "user-1")
		s.Error(err)

		s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/me", "user-1").Code)
	})
}
