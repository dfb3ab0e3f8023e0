package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/service"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
)

// Auth authenticates the bearer token and checks its security stamp.
// A missing or invalid token is 401; a valid token whose stamp is no longer
// current is 403.
func Auth(authService *service.AuthService, guard *service.SessionGuard, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				deny(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				deny(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			claims, err := authService.ValidateToken(parts[1])
			if err != nil {
				log.Debug("token validation failed", "err", err)
				deny(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			userID, _ := claims.UserID()

			if !guard.Validate(r.Context(), userID, claims.Stamp) {
				log.Info("stale session rejected", "user_id", userID)
				deny(w, http.StatusForbidden, "Session is no longer valid, please log in again")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.Result[struct{}]{ErrorMessage: &msg})
}
