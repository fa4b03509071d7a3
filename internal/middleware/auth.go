package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kmoroz/hearth/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// MemberIDKey is the context key for storing the authenticated member ID.
	MemberIDKey contextKey = "member_id"
	// MemberNameKey is the context key for storing the authenticated member's display name.
	MemberNameKey contextKey = "member_name"
)

// GetMemberID extracts the member ID from the context.
// Returns empty string if not found.
func GetMemberID(ctx context.Context) string {
	memberID, _ := ctx.Value(MemberIDKey).(string)
	return memberID
}

// GetMemberName extracts the member display name from the context.
// Returns empty string if not found.
func GetMemberName(ctx context.Context) string {
	name, _ := ctx.Value(MemberNameKey).(string)
	return name
}

// WithMember returns a context carrying the given member identity.
// Used by tests to stand in for the auth middleware.
func WithMember(ctx context.Context, memberID, name string) context.Context {
	ctx = context.WithValue(ctx, MemberIDKey, memberID)
	return context.WithValue(ctx, MemberNameKey, name)
}

// RequireAuth returns middleware that validates Bearer JWT tokens and adds
// the member ID and display name to the request context. Requests without
// a valid token get 401 before reaching the handler.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, auth.ErrMissingToken.Error(), http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			ctx := WithMember(r.Context(), claims.MemberID, claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
