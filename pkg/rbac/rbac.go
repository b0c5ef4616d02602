// Package rbac guards routes by the authenticated caller's role.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/foodhub/pkg/auth"
	"github.com/shashiranjanraj/foodhub/pkg/middleware"
	"github.com/shashiranjanraj/foodhub/pkg/response"
)

// HasRole allows only callers whose role is one of roles. It must run after
// middleware.Authenticate; an unauthenticated request is answered with 401.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				response.Unauthorized(w, r)
				return
			}
			if !allowed[role] {
				response.Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin is HasRole(auth.RoleAdmin).
func Admin() func(http.Handler) http.Handler { return HasRole(auth.RoleAdmin) }

// Customer is HasRole(auth.RoleCustomer).
func Customer() func(http.Handler) http.Handler { return HasRole(auth.RoleCustomer) }
