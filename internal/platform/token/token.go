// Package token validates bearer tokens issued by the external identity
// provider. Quire never mints end-user tokens; it only verifies the shared
// HS256 signature and extracts the caller identity.
package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"quire/internal/platform/middleware"
)

// Claims are the JWT claims quire expects on access tokens.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Validator checks token signatures and expiry.
type Validator struct {
	signingKey []byte
	issuer     string
}

// NewValidator constructs a Validator for the given shared key and issuer.
func NewValidator(signingKey, issuer string) *Validator {
	return &Validator{signingKey: []byte(signingKey), issuer: issuer}
}

// ValidateToken implements middleware.TokenValidator.
func (v *Validator) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}

	return &middleware.TokenClaims{UserID: claims.Subject, Email: claims.Email}, nil
}
