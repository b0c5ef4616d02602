package middleware

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/foodhub/pkg/i18n"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/reqid"
)

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Logger writes one access-log line per request and stores a logger tagged
// with the request_id in the context. It also negotiates the response
// language once so handlers and error envelopes agree on it.
//
// reqid.Middleware must run before it.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lang := i18n.Negotiate(r.Header.Get("Accept-Language"))

		reqLog := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		ctx := logger.InjectLogger(r.Context(), reqLog)
		ctx = i18n.WithLang(ctx, lang)
		r = r.WithContext(ctx)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		level := reqLog.Info
		if sw.status >= 500 {
			level = reqLog.Error
		}
		level("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"lang", lang,
			"duration", time.Since(start).String(),
			"ip", clientIP(r),
		)
	})
}
