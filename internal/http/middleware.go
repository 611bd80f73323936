package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/easify/storefront-bridge/internal/auth"
)

type contextKey string

const usernameKey = contextKey("username")

// AuthMiddleware guards the admin API with a bearer token.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		username, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "), []byte(getConfig().Admin.JWTSecret))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUsername returns the authenticated admin username, or "".
func GetUsername(r *http.Request) string {
	if val, ok := r.Context().Value(usernameKey).(string); ok {
		return val
	}
	return ""
}

// NotificationIntercept routes any POST whose path ends in the easify
// segment to the notification dispatcher before normal routing, matching
// case-insensitively with or without a trailing slash.
func NotificationIntercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && isNotificationPath(r.URL.Path) {
			getDispatcher().ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isNotificationPath(path string) bool {
	trimmed := strings.TrimRight(strings.ToLower(path), "/")
	return strings.HasSuffix(trimmed, "/easify")
}
