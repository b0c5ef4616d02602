// Package response writes the JSON envelope shared by every endpoint:
//
//	{"status":1,"errorType":"SUC_200_OK","message":"...","statusCode":200,"data":{...}}
//
// The HTTP status is derived from the errorType name, so SUC_201_CREATED is
// always sent as 201 and RES_404_NOT_FOUND as 404.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/foodhub/pkg/i18n"
)

// ErrorType names the outcome of a request. The second "_" segment is the
// HTTP status code.
type ErrorType string

const (
	SucOK                  ErrorType = "SUC_200_OK"
	SucCreated             ErrorType = "SUC_201_CREATED"
	ValInvalidParameters   ErrorType = "VAL_400_INVALID_PARAMETERS"
	ValEmptyOrder          ErrorType = "VAL_400_EMPTY_ORDER"
	ValInvalidTransition   ErrorType = "VAL_400_INVALID_TRANSITION"
	ValUsernameExists      ErrorType = "VAL_400_USERNAME_EXISTS"
	AuthInvalidCredentials ErrorType = "AUTH_401_INVALID_CREDENTIALS"
	AuthTokenExpired       ErrorType = "AUTH_401_TOKEN_EXPIRED"
	AuthAccessDenied       ErrorType = "AUTH_403_ACCESS_DENIED"
	ResNotFound            ErrorType = "RES_404_NOT_FOUND"
	ResConflict            ErrorType = "RES_409_CONFLICT"
	RateTooManyRequests    ErrorType = "RATE_429_TOO_MANY_REQUESTS"
	SysInternalError       ErrorType = "SYS_500_INTERNAL_ERROR"
)

// StatusCode parses the HTTP status out of the type name. Malformed names
// map to 500.
func (t ErrorType) StatusCode() int {
	parts := strings.SplitN(string(t), "_", 3)
	if len(parts) < 2 {
		return http.StatusInternalServerError
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil || code < 100 || code > 599 {
		return http.StatusInternalServerError
	}
	return code
}

// Envelope is the body of every API response.
type Envelope struct {
	Status     int       `json:"status"`
	ErrorType  ErrorType `json:"errorType"`
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode"`
	Data       any       `json:"data"`
}

// Build assembles an envelope without writing it.
func Build(t ErrorType, code i18n.Code, lang string, data any) Envelope {
	status := t.StatusCode()
	flag := 1
	if status >= 400 {
		flag = -1
	}
	return Envelope{
		Status:     flag,
		ErrorType:  t,
		Message:    i18n.T(lang, code),
		StatusCode: status,
		Data:       data,
	}
}

// Write sends the envelope for t with a message localized to lang.
func Write(w http.ResponseWriter, t ErrorType, code i18n.Code, lang string, data any) {
	env := Build(t, code, lang, data)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.StatusCode)
	json.NewEncoder(w).Encode(env) //nolint:errcheck
}

// ─── Shorthands used by middleware, which has no *ctx.Context ─────────────────

// OK sends SUC_200_OK.
func OK(w http.ResponseWriter, r *http.Request, code i18n.Code, data any) {
	Write(w, SucOK, code, Lang(r), data)
}

// Fail sends an error envelope with null data.
func Fail(w http.ResponseWriter, r *http.Request, t ErrorType, code i18n.Code) {
	Write(w, t, code, Lang(r), nil)
}

// Lang returns the language stored on the request context, or negotiates it
// from the Accept-Language header when nothing upstream did.
func Lang(r *http.Request) string {
	if r == nil {
		return i18n.Default
	}
	if lang := i18n.FromCtx(r.Context()); lang != i18n.Default {
		return lang
	}
	return i18n.Negotiate(r.Header.Get("Accept-Language"))
}

// Unauthorized sends AUTH_401_TOKEN_EXPIRED.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	Fail(w, r, AuthTokenExpired, i18n.TokenInvalid)
}

// Forbidden sends AUTH_403_ACCESS_DENIED.
func Forbidden(w http.ResponseWriter, r *http.Request) {
	Fail(w, r, AuthAccessDenied, i18n.AccessDenied)
}

// NotFound sends RES_404_NOT_FOUND for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Fail(w, r, ResNotFound, i18n.RouteNotFound)
}

// InternalError sends SYS_500_INTERNAL_ERROR.
func InternalError(w http.ResponseWriter, r *http.Request) {
	Fail(w, r, SysInternalError, i18n.InternalError)
}
