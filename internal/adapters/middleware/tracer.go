package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

type TracerMiddleware struct {
	service        string
	tracerProvider trace.TracerProvider
}

func NewTracerMiddleware(service string, tracerProvider trace.TracerProvider) TracerMiddleware {
	return TracerMiddleware{
		service:        service,
		tracerProvider: tracerProvider,
	}
}

// Middleware starts a server span per request, continuing any propagated trace context.
func (mw TracerMiddleware) Middleware(next http.Handler) http.Handler {
	return otelhttp.NewHandler(
		next,
		mw.service,
		otelhttp.WithTracerProvider(mw.tracerProvider),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return !skipAccessLog(r.Context())
		}),
	)
}
