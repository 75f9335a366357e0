package middleware

import (
	"net/http"
	"time"

	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const unmatchedRoute = "unmatched"

type MetricsMiddleware struct {
	metrics infrastructure.Metrics
}

func NewMetricsMiddleware(metrics infrastructure.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: metrics,
	}
}

func (m *MetricsMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		wrapped := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r)

		m.metrics.RecordHTTPRequest(
			r.Context(),
			r.Method,
			routePattern(r),
			statusOf(wrapped),
			time.Since(startTime),
			r.ContentLength,
			int64(wrapped.BytesWritten()),
		)
	})
}

// routePattern labels requests by chi route template so path parameters do not explode cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return unmatchedRoute
}
