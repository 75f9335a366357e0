package commands

import (
	"context"
	"testing"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegistered) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) PublishPostCreated(ctx context.Context, event domain.PostCreated) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) PublishPostDeleted(ctx context.Context, event domain.PostDeleted) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) PublishCommentCreated(ctx context.Context, event domain.CommentCreated) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) PublishCommentDeleted(ctx context.Context, event domain.CommentDeleted) error {
	return m.Called(ctx, event).Error(0)
}

func TestPublishEventHandler(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		method string
		event  any
		want   queue.Name
	}{
		{name: "user registered", method: "PublishUserRegistered", event: domain.UserRegistered{UserID: "u1"}, want: queue.UserRegistered},
		{name: "post created", method: "PublishPostCreated", event: domain.PostCreated{PostID: "p1"}, want: queue.PostCreated},
		{name: "post deleted", method: "PublishPostDeleted", event: domain.PostDeleted{PostID: "p1"}, want: queue.PostDeleted},
		{name: "comment created", method: "PublishCommentCreated", event: domain.CommentCreated{CommentID: "c1"}, want: queue.CommentCreated},
		{name: "comment deleted", method: "PublishCommentDeleted", event: domain.CommentDeleted{CommentID: "c1"}, want: queue.CommentDeleted},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			publisher := &mockEventPublisher{}
			publisher.On(tc.method, mock.Anything, tc.event).Return(nil).Once()

			handler := NewPublishEventHandler(publisher, infrastructure.NewTestLogger(), noop.NewTracerProvider(), infrastructure.NoOp{})

			result, err := handler.Handle(context.Background(), PublishEventCommand{Event: tc.event})

			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Queue)
			publisher.AssertExpectations(t)
		})
	}
}

func TestPublishEventHandler_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unsupported event", func(t *testing.T) {
		t.Parallel()

		handler := NewPublishEventHandler(&mockEventPublisher{}, infrastructure.NewTestLogger(), noop.NewTracerProvider(), infrastructure.NoOp{})

		result, err := handler.Handle(context.Background(), PublishEventCommand{Event: "post.created"})

		require.ErrorIs(t, err, domain.ErrInvalidEvent)
		assert.Nil(t, result)
	})

	t.Run("publish failure", func(t *testing.T) {
		t.Parallel()

		event := domain.PostDeleted{PostID: "p1", AuthorID: "u1"}
		publisher := &mockEventPublisher{}
		publisher.On("PublishPostDeleted", mock.Anything, event).Return(queue.ErrChannelUnavailable).Once()

		handler := NewPublishEventHandler(publisher, infrastructure.NewTestLogger(), noop.NewTracerProvider(), infrastructure.NoOp{})

		result, err := handler.Handle(context.Background(), PublishEventCommand{Event: event})

		require.ErrorIs(t, err, queue.ErrChannelUnavailable)
		assert.Nil(t, result)
	})
}
