// Package middleware provides HTTP middleware for the registry API server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type sourceKey struct{}

// NoteSource records which backend served the current request so the request
// log line can report it. It is a no-op outside NewSlogLogger.
func NoteSource(ctx context.Context, source string) {
	if slot, ok := ctx.Value(sourceKey{}).(*string); ok {
		*slot = source
	}
}

// NewSlogLogger returns a middleware that logs each request as a structured
// line via the provided slog.Logger: method, path, status, bytes written,
// duration, the request ID set by chi's RequestID middleware and, when a
// handler called NoteSource, the backend ("remote" or "local") that served
// it. Server errors are logged at warn.
//
// Wire it after chimiddleware.RequestID so the request ID is available.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			source := new(string)
			r = r.WithContext(context.WithValue(r.Context(), sourceKey{}, source))

			// WrapResponseWriter intercepts WriteHeader so we can read the
			// status code after the downstream handler has run.
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			}
			if *source != "" {
				attrs = append(attrs, "source", *source)
			}
			level := slog.LevelInfo
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			log.Log(r.Context(), level, "request", attrs...)
		})
	}
}
