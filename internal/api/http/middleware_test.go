package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"learnportal-backend/internal/domain"
	"learnportal-backend/internal/security"
)

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	tm := security.NewTokenManager("unit-test-secret-0123456789abcdef")
	mw := NewAuthMiddleware(tm)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		assert.True(t, ok)
		w.Header().Set("X-User-ID", claims.UserID)
		w.WriteHeader(http.StatusOK)
	})
	handler := mw.RequireAdmin(next)

	t.Run("AdminPasses", func(t *testing.T) {
		token, err := tm.GenerateAccessToken("admin-1", "admin@example.com", domain.UserRoleAdmin)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/registrations", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin-1", rec.Header().Get("X-User-ID"))
	})

	t.Run("MissingTokenIs401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/registrations", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("GarbageTokenIs401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/registrations", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("RegularUserIs403", func(t *testing.T) {
		token, err := tm.GenerateAccessToken("uid-1", "user@example.com", domain.UserRoleUser)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/registrations", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("AllowsWithinBurst", func(t *testing.T) {
		rl := NewRateLimiter(10, 3)
		defer rl.Stop()
		handler := rl.Middleware(next)

		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/registrations", nil)
			req.RemoteAddr = "203.0.113.5:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("ThrottlesBeyondBurst", func(t *testing.T) {
		rl := NewRateLimiter(10, 2)
		defer rl.Stop()
		handler := rl.Middleware(next)

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/registrations", nil)
			req.RemoteAddr = "203.0.113.6:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("LimitsPerIP", func(t *testing.T) {
		rl := NewRateLimiter(10, 1)
		defer rl.Stop()
		handler := rl.Middleware(next)

		first := httptest.NewRequest(http.MethodPost, "/api/v1/registrations", nil)
		first.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, first)
		assert.Equal(t, http.StatusOK, rec.Code)

		other := httptest.NewRequest(http.MethodPost, "/api/v1/registrations", nil)
		other.RemoteAddr = "203.0.113.8:1234"
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, other)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
