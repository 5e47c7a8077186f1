package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// UserIDKey holds the caller's user id in the request context.
const UserIDKey contextKey = "user_id"

// UserIDHeader carries the caller identity set by the upstream gateway.
const UserIDHeader = "X-User-ID"

// Identity copies the X-User-ID header into the request context. Requests
// without it pass through unauthenticated; handlers that need a caller check
// GetUserID.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the caller's user id from ctx.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
