package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/fruitshop/pkg/idx"
)

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

// HTTPMiddleware puts a request scoped logger into the context and writes
// one "http_request" line once the handler returns. It must wrap the mux so
// the matched route is known by then.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := idx.FromHeader(r.Header.Get(RequestIDHeader))
			w.Header().Set(RequestIDHeader, reqID.String())

			logger := base.With(
				"req_id", reqID.String(),
				"method", r.Method,
				"path", r.URL.Path,
			)
			rec := &recorder{ResponseWriter: w}
			r = r.WithContext(WithContext(r.Context(), logger))

			next.ServeHTTP(rec, r)

			status := rec.statusOr(http.StatusOK)
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status == http.StatusTooManyRequests:
				level = slog.LevelWarn
			}

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			logger.Log(r.Context(), level, "http_request",
				"route", route,
				"status", status,
				"bytes", rec.written,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

// recorder remembers the status code and body size of a response.
type recorder struct {
	http.ResponseWriter

	status  int
	written int64
}

func (rec *recorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *recorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.written += int64(n)
	return n, err
}

func (rec *recorder) statusOr(def int) int {
	if rec.status == 0 {
		return def
	}
	return rec.status
}

func (rec *recorder) Unwrap() http.ResponseWriter { return rec.ResponseWriter }
