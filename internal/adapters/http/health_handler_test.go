package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/architeacher/svc-blog-events/internal/adapters"
	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBroker struct {
	state queue.State
}

func (b stubBroker) State() queue.State {
	return b.state
}

type stubCache struct {
	err error
}

func (c stubCache) Ping(_ context.Context) error {
	return c.err
}

func newHealthRouter(state queue.State, cacheErr error, metrics http.Handler) chi.Router {
	router := chi.NewRouter()
	checker := adapters.NewHealthChecker("post-service", stubBroker{state: state}, stubCache{err: cacheErr})
	NewHealthHandler(checker, metrics).Register(router)

	return router
}

func TestHealthHandler_HealthCheck(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		state       queue.State
		cacheErr    error
		wantCode    int
		wantStatus  string
		wantSuccess bool
	}{
		{
			name:        "ready broker is healthy",
			state:       queue.StateReady,
			wantCode:    http.StatusOK,
			wantStatus:  "healthy",
			wantSuccess: true,
		},
		{
			name:        "failing cache degrades",
			state:       queue.StateReady,
			cacheErr:    errors.New("connection refused"),
			wantCode:    http.StatusOK,
			wantStatus:  "degraded",
			wantSuccess: true,
		},
		{
			name:       "reconnecting broker is unavailable",
			state:      queue.StateReconnecting,
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
		{
			name:       "disconnected broker is unavailable",
			state:      queue.StateDisconnected,
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router := newHealthRouter(tc.state, tc.cacheErr, nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			assert.Equal(t, "post-service", resp.Service)
			assert.Equal(t, tc.wantStatus, resp.Status)
			assert.Equal(t, tc.wantSuccess, resp.Success)
			assert.Equal(t, tc.state.String(), resp.Broker.State)
		})
	}
}

func TestHealthHandler_Probes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		path     string
		state    queue.State
		wantCode int
	}{
		{name: "ready when broker ready", path: "/health/ready", state: queue.StateReady, wantCode: http.StatusOK},
		{name: "not ready while connecting", path: "/health/ready", state: queue.StateConnecting, wantCode: http.StatusServiceUnavailable},
		{name: "alive while disconnected", path: "/health/live", state: queue.StateDisconnected, wantCode: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router := newHealthRouter(tc.state, nil, nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestHealthHandler_Metrics(t *testing.T) {
	t.Parallel()

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("blog_events_up 1\n"))
	})

	t.Run("served when configured", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		newHealthRouter(queue.StateReady, nil, metrics).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "blog_events_up")
	})

	t.Run("absent when disabled", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		newHealthRouter(queue.StateReady, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
