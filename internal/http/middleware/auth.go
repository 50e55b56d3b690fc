package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campustix/campustix/internal/http/response"
	"github.com/campustix/campustix/pkg/auth"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// RequireAuth validates the bearer session token. When roles are given the
// caller's role must be one of them; superadmin passes every role check.
func RequireAuth(signer *auth.Signer, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "invalid authorization header")
				return
			}
			raw := strings.TrimPrefix(authz, "Bearer ")
			claims, err := signer.ParseSession(raw)
			if err != nil {
				response.Unauthorized(w, "invalid or expired token")
				return
			}
			if len(roles) > 0 && !roleAllowed(claims.Role, roles) {
				response.Forbidden(w, "insufficient role")
				return
			}
			ctx := context.WithValue(r.Context(), CtxClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func roleAllowed(role string, allowed []string) bool {
	if role == "superadmin" {
		return true
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

func Claims(r *http.Request) *auth.Claims {
	v := r.Context().Value(CtxClaims)
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}
