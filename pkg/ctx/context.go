// Package ctx provides the request context handed to every controller.
//
// Instead of (http.ResponseWriter, *http.Request) a handler receives a
// *Context that knows the caller's language and authenticated principal and
// writes the standard response envelope:
//
//	func (h *OrderController) Show(c *ctx.Context) {
//	    o, err := h.orders.GetOrder(c.Context(), c.Principal().ID, c.Param("ref"))
//	    if err != nil { ... }
//	    c.OK(i18n.OrderFetched, o)
//	}
//
//	router.Get("/orders/customer/{ref}", "orders.customer.show", ctx.Wrap(h.Show))
package ctx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/foodhub/pkg/auth"
	"github.com/shashiranjanraj/foodhub/pkg/bind"
	"github.com/shashiranjanraj/foodhub/pkg/i18n"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	lang   string
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.lang = ""
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a numeric path parameter.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// Query returns a query-string value, or "".
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Header returns a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// ClientIP returns the client address, preferring X-Forwarded-For.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Context returns the request's context.Context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// Lang returns the negotiated response language (en, ar or hi).
func (c *Context) Lang() string {
	if c.lang == "" {
		c.lang = response.Lang(c.R)
	}
	return c.lang
}

// Principal returns the authenticated caller. It is the zero value on
// public routes.
func (c *Context) Principal() auth.Principal {
	p, _ := auth.PrincipalFrom(c.R.Context())
	return p
}

// ─── Pagination ───────────────────────────────────────────────────────────────

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page reads skip/limit from the query string. Bad values produce a
// VAL_400_INVALID_PARAMETERS response and ok=false.
func (c *Context) Page() (skip, limit int, ok bool) {
	skip, limit = 0, DefaultLimit

	if raw := c.Query("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.Invalid(map[string]string{"skip": "The skip must be a non-negative integer."})
			return 0, 0, false
		}
		skip = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxLimit {
			c.Invalid(map[string]string{"limit": "The limit must be between 1 and " + strconv.Itoa(MaxLimit) + "."})
			return 0, 0, false
		}
		limit = n
	}
	return skip, limit, true
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the body. On failure it writes a
// VAL_400_INVALID_PARAMETERS envelope and returns false.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Invalid(map[string]string{"body": err.Error()})
		return false
	}
	if len(errs) > 0 {
		c.Invalid(errs)
		return false
	}
	return true
}

// ─── Responses ────────────────────────────────────────────────────────────────

// OK sends SUC_200_OK with data.
func (c *Context) OK(code i18n.Code, data any) {
	c.Send(response.SucOK, code, data)
}

// Created sends SUC_201_CREATED with data.
func (c *Context) Created(code i18n.Code, data any) {
	c.Send(response.SucCreated, code, data)
}

// Fail sends an error envelope with null data.
func (c *Context) Fail(t response.ErrorType, code i18n.Code) {
	c.Send(t, code, nil)
}

// Invalid sends VAL_400_INVALID_PARAMETERS with the field errors as data.
func (c *Context) Invalid(errs map[string]string) {
	c.Send(response.ValInvalidParameters, i18n.InvalidParameters, map[string]any{"errors": errs})
}

// InternalError logs err against the request and sends a generic 500.
func (c *Context) InternalError(err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	c.Log().Error("request failed", "error", err, "method", c.R.Method, "path", c.R.URL.Path)
	c.Fail(response.SysInternalError, i18n.InternalError)
}

// Send writes any envelope.
func (c *Context) Send(t response.ErrorType, code i18n.Code, data any) {
	c.status = t.StatusCode()
	response.Write(c.W, t, code, c.Lang(), data)
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
