package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// NewStructuredLogger is a custom middleware that provides structured logging for requests.
// It expects chi's RequestID middleware to run first.
func NewStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			tww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t_start := time.Now()
			defer func() {
				status := tww.Status()
				latency := time.Since(t_start)

				requestAttrs := []any{
					slog.String("id", middleware.GetReqID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
				}
				if userID, ok := GetUserID(r.Context()); ok {
					requestAttrs = append(requestAttrs, slog.String("user_id", userID))
				}

				responseAttrs := slog.Group("response",
					slog.Int("status", status),
					slog.Int("bytes", tww.BytesWritten()),
					slog.String("latency", latency.String()),
				)

				switch {
				case status >= 500:
					logger.Error("server error", slog.Group("request", requestAttrs...), responseAttrs)
				case status == http.StatusConflict:
					logger.Warn("request conflicted", slog.Group("request", requestAttrs...), responseAttrs)
				default:
					logger.Info("request completed", slog.Group("request", requestAttrs...), responseAttrs)
				}
			}()

			next.ServeHTTP(tww, r)
		}
		return http.HandlerFunc(fn)
	}
}
