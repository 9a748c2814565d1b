package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager("test-secret")
	require.NoError(t, err)
	return manager
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	_, err := NewJWTManager("")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestManager(t)

	token, err := manager.GenerateAccessJWT("u1", time.Minute)
	require.NoError(t, err)

	userID, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	manager := newTestManager(t)
	manager.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := manager.GenerateAccessJWT("u1", time.Minute)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	other, err := NewJWTManager("other-secret")
	require.NoError(t, err)
	token, err := other.GenerateAccessJWT("u1", time.Minute)
	require.NoError(t, err)

	_, err = newTestManager(t).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTAccessTokenMiddleware(t *testing.T) {
	manager := newTestManager(t)
	middleware := NewMiddleware(manager, zap.NewNop())
	valid, err := manager.GenerateAccessJWT("u1", time.Minute)
	require.NoError(t, err)

	var seen string
	handler := middleware.JWTAccessTokenMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header is required"},
		{"no bearer prefix", valid, http.StatusUnauthorized, "Invalid token format"},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid token", "Bearer " + valid, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/api/protected/wallets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMsg != "" {
				var response ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, "error", response.Status)
				assert.Equal(t, tt.wantMsg, response.Message)
				assert.Empty(t, seen)
			} else {
				assert.Equal(t, "u1", seen)
			}
		})
	}
}
