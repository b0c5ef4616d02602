package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/foodhub/pkg/auth"
	"github.com/shashiranjanraj/foodhub/pkg/i18n"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/response"
)

// TokenVerifier checks an access token. *auth.TokenService satisfies it.
type TokenVerifier interface {
	VerifyAccess(ctx context.Context, token string) (*auth.Claims, error)
}

// PrincipalLoader resolves a token subject to a user. It returns
// auth.ErrUnknownSubject when the user is gone and auth.ErrInactive when it
// is disabled.
type PrincipalLoader func(ctx context.Context, uuid string) (auth.Principal, error)

// Authenticate requires a valid bearer token and stores the caller's
// principal in the request context.
//
//	r.Group("/orders", func(g *router.Group) { ... },
//	    middleware.Authenticate(tokens, users.Principal))
func Authenticate(tokens TokenVerifier, load PrincipalLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				response.Unauthorized(w, r)
				return
			}

			claims, err := tokens.VerifyAccess(r.Context(), token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("access token rejected", "error", err)
				response.Unauthorized(w, r)
				return
			}

			p, err := load(r.Context(), claims.UUID)
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrInactive):
				response.Fail(w, r, response.AuthAccessDenied, i18n.InactiveUser)
				return
			case errors.Is(err, auth.ErrUnknownSubject):
				response.Unauthorized(w, r)
				return
			default:
				logger.WithCtx(r.Context()).Error("load principal", "error", err)
				response.InternalError(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// RoleFromCtx returns the authenticated caller's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		return "", false
	}
	return p.Role, true
}
