package middleware

import (
	"context"
	"net/http"
)

type skipAccessLogKey struct{}

// HealthCheckFilter keeps probe and scrape traffic out of the access log.
type HealthCheckFilter struct {
	quietPaths      map[string]struct{}
	logHealthChecks bool
}

func NewHealthCheckFilter(logHealthChecks bool) *HealthCheckFilter {
	return &HealthCheckFilter{
		quietPaths: map[string]struct{}{
			"/health":       {},
			"/health/ready": {},
			"/health/live":  {},
			"/metrics":      {},
		},
		logHealthChecks: logHealthChecks,
	}
}

func (h *HealthCheckFilter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, quiet := h.quietPaths[r.URL.Path]; quiet && !h.logHealthChecks {
			r = r.WithContext(withSkipAccessLog(r.Context()))
		}

		next.ServeHTTP(w, r)
	})
}

func withSkipAccessLog(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipAccessLogKey{}, true)
}

func skipAccessLog(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAccessLogKey{}).(bool)

	return skip
}
