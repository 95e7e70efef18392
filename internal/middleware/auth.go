package middleware

import (
	"context"
	"net/http"
	"strings"

	"marketbay-be/internal/user"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UserRoleKey contextKey = "userRole"
	ClaimsKey   contextKey = "jwtClaims"
)

// AuthMiddleware attaches JWT claims to the request context when a valid
// bearer token is present. Requests without one pass through untouched; the
// handlers decide what requires identity.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UserRoleKey, claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFrom returns the authenticated user id, if any.
func UserIDFrom(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(UserIDKey).(uint64)
	return id, ok
}
