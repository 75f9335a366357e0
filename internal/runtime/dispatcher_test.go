package runtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/architeacher/svc-blog-events/internal/adapters/repos"
	"github.com/architeacher/svc-blog-events/internal/config"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher(t *testing.T) {
	t.Parallel()

	t.Run("creates publisher context with default values", func(t *testing.T) {
		t.Parallel()

		publisherCtx := NewPublisher()

		require.NotNil(t, publisherCtx)
		require.NotNil(t, publisherCtx.shutdownChannel)
		require.Nil(t, publisherCtx.deps)
		require.Nil(t, publisherCtx.serverReady)
		require.Equal(t, authServiceName, publisherCtx.name)
	})

	t.Run("creates publisher context with options", func(t *testing.T) {
		t.Parallel()

		ch := make(chan os.Signal, 1)
		publisherCtx := NewPublisher(
			WithServiceTermination(ch),
			WithWaitingForServer(),
			WithDependencyOptions(WithConfigLoader()),
		)

		require.Equal(t, ch, publisherCtx.shutdownChannel)
		require.NotNil(t, publisherCtx.serverReady)
		require.Len(t, publisherCtx.dependencyOptions, 1)
	})
}

func TestNewSubscriber(t *testing.T) {
	t.Parallel()

	subscriberCtx := NewSubscriber()

	require.NotNil(t, subscriberCtx)
	require.NotNil(t, subscriberCtx.shutdownChannel)
	require.Nil(t, subscriberCtx.deps)
	require.Equal(t, postServiceName, subscriberCtx.name)
}

func newTestDependencies(t *testing.T) *Dependencies {
	t.Helper()

	cfg, err := config.Init()
	require.NoError(t, err)

	cfg.AppConfig.ServiceName = "test-service"
	cfg.Logging.AccessLog.Enabled = false

	deps := &Dependencies{
		cfg:    cfg,
		logger: infrastructure.NewTestLogger(),
	}

	for _, opt := range defaultOptions(context.Background()) {
		require.NoError(t, opt(deps))
	}

	// Never connected, so the client stays Disconnected and fails fast.
	deps.Infra.QueueClient = infrastructure.NewQueue(cfg.Queue, cfg.AppConfig.ServiceName, deps.logger, deps.Infra.Metrics)

	return deps
}

func TestWithEventPublisher_RequiresQueue(t *testing.T) {
	t.Parallel()

	deps := newTestDependencies(t)
	deps.Infra.QueueClient = nil

	require.Error(t, WithEventPublisher()(deps))
	require.Error(t, WithCommentProjection()(deps))
}

func TestWithCommentProjection_FallsBackToMemory(t *testing.T) {
	t.Parallel()

	deps := newTestDependencies(t)

	require.NoError(t, WithCommentProjection()(deps))

	assert.IsType(t, &repos.MemoryCommentCounterRepository{}, deps.Repos.CommentCounterRepo)
	assert.NotNil(t, deps.Apps.Subscriber)
	assert.NotNil(t, deps.Workers.CommentEventsWorker)
	assert.NotNil(t, deps.Workers.SubscriptionProcessor)
	assert.Len(t, deps.Workers.CommentEventsWorker.Subscriptions(), 2)
}

func TestWithHTTPServer_Routes(t *testing.T) {
	t.Parallel()

	deps := newTestDependencies(t)

	require.NoError(t, WithEventPublisher()(deps))
	require.NoError(t, WithCommentProjection()(deps))
	require.NoError(t, WithHTTPServer(queue.CommentCreated)(deps))

	handler := deps.Infra.HTTPServer.Handler

	cases := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{
			name:     "health reports disconnected broker",
			method:   http.MethodGet,
			path:     "/health",
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:     "liveness is independent of the broker",
			method:   http.MethodGet,
			path:     "/health/live",
			wantCode: http.StatusOK,
		},
		{
			name:     "metrics are exposed",
			method:   http.MethodGet,
			path:     "/metrics",
			wantCode: http.StatusOK,
		},
		{
			name:     "publish fails fast while disconnected",
			method:   http.MethodPost,
			path:     "/v1/events/comment-created",
			body:     `{"commentId":"c1","postId":"p1","authorId":"u1"}`,
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:     "unregistered event route",
			method:   http.MethodPost,
			path:     "/v1/events/user-registered",
			body:     `{}`,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "comments count served from the projection",
			method:   http.MethodGet,
			path:     "/v1/posts/p1/comments-count",
			wantCode: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, "v1", rec.Header().Get("API-Version"))
		})
	}
}
