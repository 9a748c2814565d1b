package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID stores the authenticated actor on the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the actor placed on the context by the access-token middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

type Middleware struct {
	jwtManager JWTManagerInterface
	logger     *zap.Logger
}

func NewMiddleware(jwtManager JWTManagerInterface, logger *zap.Logger) *Middleware {
	return &Middleware{jwtManager: jwtManager, logger: logger}
}

func (m *Middleware) JWTAccessTokenMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authorization header is required")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				writeJSONError(w, http.StatusUnauthorized, "Invalid token format")
				return
			}

			userID, err := m.jwtManager.ValidateAccessToken(tokenString)
			if err != nil {
				if !errors.Is(err, ErrExpiredJWTToken) {
					m.logger.Debug("rejected access token", zap.Error(err))
				}
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// writeJSONError writes an error response in JSON format
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:  "error",
		Message: message,
	})
}
