package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sassynary-shop/internal/auth"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key", 15*time.Minute, 7*24*time.Hour)
}

func issueToken(t *testing.T, s *auth.JWTService, id, email string) string {
	t.Helper()
	token, _, err := s.GenerateAccessToken(auth.User{ID: id, Email: email, DisplayName: "Asha Rao"})
	require.NoError(t, err)
	return token
}

// captureClaims records the claims the wrapped handler sees.
func captureClaims(dst **auth.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := GetUserFromContext(r.Context()); ok {
			*dst = claims
		}
		w.WriteHeader(http.StatusOK)
	})
}

// ============================================
// Auth Middleware Tests
// ============================================

func TestAuthMiddleware_ValidToken_Header(t *testing.T) {
	jwtService := newTestJWTService()
	token := issueToken(t, jwtService, "user-123", "asha@example.com")

	var captured *auth.Claims
	req := httptest.NewRequest(http.MethodGet, "/wishlist", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	AuthMiddleware(jwtService)(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user-123", captured.UserID)
	assert.Equal(t, "asha@example.com", captured.Email)
	assert.Equal(t, "Asha Rao", captured.DisplayName)
}

func TestAuthMiddleware_CookieTakesPrecedence(t *testing.T) {
	jwtService := newTestJWTService()
	cookieToken := issueToken(t, jwtService, "cookie-user", "cookie@example.com")
	headerToken := issueToken(t, jwtService, "header-user", "header@example.com")

	var captured *auth.Claims
	req := httptest.NewRequest(http.MethodGet, "/wishlist", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: cookieToken})
	req.Header.Set("Authorization", "Bearer "+headerToken)
	rec := httptest.NewRecorder()

	AuthMiddleware(jwtService)(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "cookie-user", captured.UserID)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	jwtService := newTestJWTService()
	otherService := auth.NewJWTService("another-secret", 15*time.Minute, 7*24*time.Hour)
	foreign := issueToken(t, otherService, "user-123", "asha@example.com")

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"no token", "", "sign in to continue"},
		{"garbage token", "Bearer invalid-token", "invalid token"},
		{"wrong signature", "Bearer " + foreign, "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/wishlist", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(jwtService)(handler).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.False(t, called)
		})
	}
}

func TestAuthMiddleware_ReusesClaimsAlreadyInContext(t *testing.T) {
	claims := &auth.Claims{UserID: "user-123"}
	ctx := context.WithValue(context.Background(), UserContextKey, claims)

	var captured *auth.Claims
	req := httptest.NewRequest(http.MethodGet, "/wishlist", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	AuthMiddleware(newTestJWTService())(captureClaims(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, claims, captured)
}

// ============================================
// Optional Auth Middleware Tests
// ============================================

func TestOptionalAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()
	token := issueToken(t, jwtService, "user-123", "asha@example.com")

	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"valid token", "Bearer " + token, "user-123"},
		{"no token", "", ""},
		{"invalid token is ignored", "Bearer invalid-token", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var userID string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				userID = GetUserID(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			OptionalAuthMiddleware(jwtService)(handler).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.expected, userID)
		})
	}
}

// ============================================
// Helper Functions Tests
// ============================================

func TestGetUserFromContext(t *testing.T) {
	claims := &auth.Claims{UserID: "user-123", Email: "asha@example.com"}
	ctx := context.WithValue(context.Background(), UserContextKey, claims)

	result, ok := GetUserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, claims, result)
	assert.Equal(t, "user-123", GetUserID(ctx))

	result, ok = GetUserFromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, result)
	assert.Empty(t, GetUserID(context.Background()))
}
