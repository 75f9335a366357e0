package middleware

import (
	"net/http"
	"time"

	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type AccessLogger struct {
	logger zerolog.Logger
}

func NewAccessLogger(logger infrastructure.Logger) *AccessLogger {
	return &AccessLogger{
		logger: logger.With().Str("component", "http_access").Logger(),
	}
}

func (a *AccessLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if skipAccessLog(r.Context()) {
			next.ServeHTTP(w, r)

			return
		}

		startTime := time.Now()
		wrapped := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r)

		duration := time.Since(startTime)
		statusCode := statusOf(wrapped)

		logEvent := a.eventFor(statusCode).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Str("remote_addr", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Str("proto", r.Proto).
			Int("status_code", statusCode).
			Int("response_size_bytes", wrapped.BytesWritten()).
			Dur("duration", duration).
			Float64("duration_ms", float64(duration.Microseconds())/1000)

		if requestID := chiMiddleware.GetReqID(r.Context()); requestID != "" {
			logEvent.Str("request_id", requestID)
		}

		if spanCtx := trace.SpanContextFromContext(r.Context()); spanCtx.HasTraceID() {
			logEvent.Str("trace_id", spanCtx.TraceID().String())
		}

		if referer := r.Referer(); referer != "" {
			logEvent.Str("referer", referer)
		}

		logEvent.Msg("HTTP request completed")
	})
}

func (a *AccessLogger) eventFor(statusCode int) *zerolog.Event {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return a.logger.Error()
	case statusCode >= http.StatusBadRequest:
		return a.logger.Warn()
	default:
		return a.logger.Info()
	}
}

// statusOf treats a handler that never wrote a header as 200.
func statusOf(w chiMiddleware.WrapResponseWriter) int {
	if status := w.Status(); status != 0 {
		return status
	}

	return http.StatusOK
}
