package service

import (
	"context"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/stretchr/testify/mock"
)

type (
	mockEventBus struct {
		mock.Mock
	}

	mockCommentCounterRepository struct {
		mock.Mock
	}

	mockProjectionMetrics struct {
		infrastructure.NoOpMetrics
		mock.Mock
	}
)

func (m *mockEventBus) PublishWithOptions(ctx context.Context, name queue.Name, payload any, opts ...queue.PublisherOption) error {
	args := m.Called(ctx, name, payload, len(opts))

	return args.Error(0)
}

func (m *mockCommentCounterRepository) Apply(ctx context.Context, event domain.CommentEvent) (domain.ProjectionResult, error) {
	args := m.Called(ctx, event)

	return args.Get(0).(domain.ProjectionResult), args.Error(1)
}

func (m *mockCommentCounterRepository) Count(ctx context.Context, postID string) (int64, error) {
	args := m.Called(ctx, postID)

	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProjectionMetrics) RecordProjection(event string, applied bool) {
	m.Called(event, applied)
}
