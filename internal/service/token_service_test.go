package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-archive/internal/model"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestTokenService_ValidateToken(t *testing.T) {
	svc := NewTokenService("test-secret")
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("valid access token", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{"sub": "u-1", "username": "admin", "role": "admin", "typ": "access", "exp": exp})

		claims, err := svc.ValidateToken(token, "access")
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, model.RoleAdmin, claims.Role)
	})

	t.Run("missing role defaults to viewer", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{"sub": "u-2", "exp": exp})

		claims, err := svc.ValidateToken(token, "access")
		require.NoError(t, err)
		assert.Equal(t, model.RoleViewer, claims.Role)
	})

	t.Run("rejects", func(t *testing.T) {
		cases := map[string]string{
			"wrong secret":  signToken(t, "other", jwt.MapClaims{"sub": "u-1", "exp": exp}),
			"refresh token": signToken(t, "test-secret", jwt.MapClaims{"sub": "u-1", "typ": "refresh", "exp": exp}),
			"expired":       signToken(t, "test-secret", jwt.MapClaims{"sub": "u-1", "exp": time.Now().Add(-time.Minute).Unix()}),
			"no expiry":     signToken(t, "test-secret", jwt.MapClaims{"sub": "u-1"}),
			"no subject":    signToken(t, "test-secret", jwt.MapClaims{"exp": exp}),
			"garbage":       "not-a-token",
		}

		for name, token := range cases {
			_, err := svc.ValidateToken(token, "access")
			assert.Error(t, err, name)
		}
	})
}
