package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"learnportal-backend/internal/domain"
)

const testSecret = "unit-test-secret-0123456789abcdef"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret)

	t.Run("AdminToken", func(t *testing.T) {
		token, err := tm.GenerateAccessToken("uid-1", "admin@example.com", domain.UserRoleAdmin)
		assert.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "uid-1", claims.UserID)
		assert.Equal(t, domain.UserRoleAdmin, claims.Role)
		assert.True(t, claims.IsAdmin())
	})

	t.Run("RegularUserIsNotAdmin", func(t *testing.T) {
		token, err := tm.GenerateAccessToken("uid-2", "user@example.com", domain.UserRoleUser)
		assert.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		assert.NoError(t, err)
		assert.False(t, claims.IsAdmin())
	})

	t.Run("SuperAdminIsAdmin", func(t *testing.T) {
		token, err := tm.GenerateAccessToken("uid-3", "root@example.com", domain.UserRoleSuperAdmin)
		assert.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		assert.NoError(t, err)
		assert.True(t, claims.IsAdmin())
	})
}

func TestTokenManager_ValidateToken(t *testing.T) {
	tm := NewTokenManager(testSecret)

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenManager("a-completely-different-secret-value")
		token, err := other.GenerateAccessToken("uid-1", "a@b.c", domain.UserRoleAdmin)
		assert.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		claims := UserClaims{
			UserID: "uid-1",
			Role:   domain.UserRoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		assert.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("WrongSigningMethod", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, UserClaims{UserID: "uid-1"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		assert.NoError(t, err)

		_, err = tm.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
