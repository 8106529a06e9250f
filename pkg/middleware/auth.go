package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/zaikahq/zaika/pkg/auth"
	"github.com/zaikahq/zaika/pkg/response"
)

type userKey struct{}
type roleKey struct{}

// Auth validates the Bearer token and injects (user id, role) into the
// request context. Handlers read them with UserIDFromCtx / RoleFromCtx.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, claims.UserID)
		ctx = context.WithValue(ctx, roleKey{}, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromCtx returns the authenticated user's id, if Auth ran.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userKey{}).(uint)
	return id, ok
}

// RoleFromCtx returns the authenticated user's role, if Auth ran.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey{}).(string)
	return role, ok
}
