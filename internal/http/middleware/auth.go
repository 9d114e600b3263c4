package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/qq3pta/coffee-shop-api/internal/domain"
	"github.com/qq3pta/coffee-shop-api/internal/http/response"
	"github.com/qq3pta/coffee-shop-api/internal/security"
	"github.com/qq3pta/coffee-shop-api/internal/service"
)

type contextKey string

const (
	claimsKey contextKey = "auth_claims"
	userKey   contextKey = "auth_user"
)

func ClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.Claims)
	return claims, ok
}

func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// BearerToken extracts the token from an Authorization: Bearer header.
func BearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > len("bearer ") && strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}

// RequireAuth resolves the bearer token to a user record and stashes both the
// claims and the user in the request context. 401 on anything short of a
// valid, unexpired access token belonging to an existing user.
func RequireAuth(accounts service.AccountServiceInterface, jwtMgr *security.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
				return
			}
			user, err := accounts.GetCurrentUser(r.Context(), raw)
			if err != nil {
				code := "UNAUTHORIZED"
				msg := "invalid token"
				if errors.Is(err, security.ErrTokenExpired) {
					code = "TOKEN_EXPIRED"
					msg = "token expired"
				}
				response.Error(w, r, http.StatusUnauthorized, code, msg, nil)
				return
			}
			claims, _ := jwtMgr.ParseAccessToken(raw)
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = context.WithValue(ctx, userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates admin-only routes on the resolved user's role, not just
// the token claim, so a demoted admin loses access immediately.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
			return
		}
		if !user.IsAdmin() {
			response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "admins only", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
