package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestTracerMiddleware(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		path      string
		quiet     bool
		wantSpans int
	}{
		{name: "traces event requests", path: "/v1/events/post-created", wantSpans: 1},
		{name: "skips quiet probes", path: "/health", quiet: true, wantSpans: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			spans := tracetest.NewSpanRecorder()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

			var sawSpan bool
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				sawSpan = trace.SpanContextFromContext(r.Context()).IsValid()
				w.WriteHeader(http.StatusOK)
			})

			traced := NewTracerMiddleware("post-service", provider).Middleware(handler)
			if tc.quiet {
				traced = NewHealthCheckFilter(false).Middleware(traced)
			}

			rec := httptest.NewRecorder()
			traced.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tc.path, nil))

			require.Len(t, spans.Ended(), tc.wantSpans)
			assert.Equal(t, tc.wantSpans == 1, sawSpan)

			if tc.wantSpans == 1 {
				assert.Equal(t, "POST "+tc.path, spans.Ended()[0].Name())
			}
		})
	}
}
