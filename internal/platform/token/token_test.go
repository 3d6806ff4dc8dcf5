package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey    = "test-signing-key"
	testIssuer = "quire-idp"
)

func mintToken(t *testing.T, key, issuer, subject, email string, expiry time.Duration) string {
	t.Helper()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	v := NewValidator(testKey, testIssuer)

	t.Run("valid token", func(t *testing.T) {
		tok := mintToken(t, testKey, testIssuer, "user-1", "ada@mit.edu", time.Hour)
		claims, err := v.ValidateToken(tok)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "ada@mit.edu", claims.Email)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		tok := mintToken(t, "other-key", testIssuer, "user-1", "", time.Hour)
		_, err := v.ValidateToken(tok)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		tok := mintToken(t, testKey, "someone-else", "user-1", "", time.Hour)
		_, err := v.ValidateToken(tok)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		tok := mintToken(t, testKey, testIssuer, "user-1", "", -time.Minute)
		_, err := v.ValidateToken(tok)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("missing subject", func(t *testing.T) {
		tok := mintToken(t, testKey, testIssuer, "", "", time.Hour)
		_, err := v.ValidateToken(tok)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing subject")
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.ValidateToken("not.a.jwt")
		assert.Error(t, err)
	})

	t.Run("unexpected signing algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: testIssuer},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = v.ValidateToken(unsigned)
		assert.Error(t, err)
	})
}
