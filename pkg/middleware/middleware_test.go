package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodhub/pkg/auth"
	"github.com/shashiranjanraj/foodhub/pkg/middleware"
	"github.com/shashiranjanraj/foodhub/pkg/rbac"
	"github.com/shashiranjanraj/foodhub/pkg/reqid"
	"github.com/shashiranjanraj/foodhub/pkg/response"
)

type stubVerifier map[string]string // token -> uuid

func (s stubVerifier) VerifyAccess(_ context.Context, token string) (*auth.Claims, error) {
	uuid, ok := s[token]
	if !ok {
		return nil, auth.ErrTokenInvalid
	}
	return &auth.Claims{UUID: uuid, Role: auth.RoleCustomer}, nil
}

func loader(users map[string]auth.Principal, inactive ...string) middleware.PrincipalLoader {
	return func(_ context.Context, uuid string) (auth.Principal, error) {
		for _, id := range inactive {
			if id == uuid {
				return auth.Principal{}, auth.ErrInactive
			}
		}
		p, ok := users[uuid]
		if !ok {
			return auth.Principal{}, auth.ErrUnknownSubject
		}
		return p, nil
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	w.Write([]byte(p.Username))
})

func TestAuthenticate(t *testing.T) {
	users := map[string]auth.Principal{
		"u-1": {ID: 1, UUID: "u-1", Username: "alice", Role: auth.RoleCustomer},
		"u-9": {ID: 9, UUID: "u-9", Username: "root", Role: auth.RoleAdmin},
	}
	verifier := stubVerifier{"good": "u-1", "admin": "u-9", "ghost": "u-404", "off": "u-off"}
	h := middleware.Authenticate(verifier, loader(users, "u-off"))(okHandler)

	cases := []struct {
		name   string
		header string
		status int
		typ    response.ErrorType
	}{
		{"missing header", "", 401, response.AuthTokenExpired},
		{"wrong scheme", "Basic abc", 401, response.AuthTokenExpired},
		{"bad token", "Bearer nope", 401, response.AuthTokenExpired},
		{"unknown user", "Bearer ghost", 401, response.AuthTokenExpired},
		{"inactive user", "Bearer off", 403, response.AuthAccessDenied},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, tc.typ, env.ErrorType)
			assert.Equal(t, -1, env.Status)
		})
	}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer good")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, 200, rec.Code)
		assert.Equal(t, "alice", rec.Body.String())
	})
}

func TestAuthenticateLoaderFailureIs500(t *testing.T) {
	h := middleware.Authenticate(stubVerifier{"t": "u"}, func(context.Context, string) (auth.Principal, error) {
		return auth.Principal{}, errors.New("db down")
	})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, 500, rec.Code)
}

func TestHasRole(t *testing.T) {
	guard := rbac.HasRole(auth.RoleAdmin, auth.RoleDeliveryPartner)(okHandler)

	serve := func(p *auth.Principal) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if p != nil {
			req = req.WithContext(auth.WithPrincipal(req.Context(), *p))
		}
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, 401, serve(nil).Code)

	rec := serve(&auth.Principal{Role: auth.RoleCustomer})
	assert.Equal(t, 403, rec.Code)
	assert.Equal(t, response.AuthAccessDenied, decode(t, rec).ErrorType)

	assert.Equal(t, 200, serve(&auth.Principal{Role: auth.RoleDeliveryPartner}).Code)
	assert.Equal(t, 200, serve(&auth.Principal{Role: auth.RoleAdmin}).Code)
}

func TestRecoveryWritesLocalizedEnvelope(t *testing.T) {
	h := reqid.Middleware()(middleware.Logger(middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Accept-Language", "ar")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, 500, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, response.SysInternalError, env.ErrorType)
	assert.NotEqual(t, "Internal server error", env.Message)
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))
}

func TestRateLimit(t *testing.T) {
	h := middleware.RateLimit(2, time.Minute)(okHandler)

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, 200, hit("10.0.0.1").Code)
	assert.Equal(t, 200, hit("10.0.0.1").Code)

	rec := hit("10.0.0.1")
	assert.Equal(t, 429, rec.Code)
	assert.Equal(t, response.RateTooManyRequests, decode(t, rec).ErrorType)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, 200, hit("10.0.0.2").Code, "limits are per client")
}

func TestCORSPreflight(t *testing.T) {
	opts := middleware.CORSOptions{
		AllowedOrigins: []string{"https://shop.example"},
		AllowedMethods: []string{"GET", "PATCH"},
		AllowedHeaders: []string{"Authorization"},
		MaxAge:         60,
	}
	h := middleware.CORS(opts)(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/orders", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, PATCH", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "60", rec.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
