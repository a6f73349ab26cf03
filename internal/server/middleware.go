package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/theirongolddev/revdash/internal/logging"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestLogging logs every request and calls count once per request.
func requestLogging(logger *slog.Logger, count func(), next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		r = r.WithContext(logging.WithLogger(r.Context(), logger))
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		count()
		logging.LogHTTPRequest(logger,
			r.Method,
			r.URL.Path,
			wrapped.statusCode,
			float64(time.Since(start).Nanoseconds())/1e6,
			slog.String("component", "http_server"))
	})
}
