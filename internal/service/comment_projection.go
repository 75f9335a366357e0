package service

import (
	"context"
	"fmt"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/ports"
)

type (
	// CommentProjectionService keeps the per post comment counters in step with comment events.
	CommentProjectionService interface {
		ApplyCommentCreated(ctx context.Context, event domain.CommentCreated) (domain.ProjectionResult, error)
		ApplyCommentDeleted(ctx context.Context, event domain.CommentDeleted) (domain.ProjectionResult, error)
		CommentsCount(ctx context.Context, postID string) (int64, error)
	}

	commentProjectionService struct {
		repo    ports.CommentCounterRepository
		logger  infrastructure.Logger
		metrics infrastructure.Metrics
	}
)

func NewCommentProjectionService(
	repo ports.CommentCounterRepository,
	logger infrastructure.Logger,
	metrics infrastructure.Metrics,
) CommentProjectionService {
	return commentProjectionService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

func (s commentProjectionService) ApplyCommentCreated(ctx context.Context, event domain.CommentCreated) (domain.ProjectionResult, error) {
	if err := event.Validate(); err != nil {
		return domain.ProjectionResult{}, err
	}

	return s.apply(ctx, "comment.created", domain.NewCommentCreatedEvent(event))
}

func (s commentProjectionService) ApplyCommentDeleted(ctx context.Context, event domain.CommentDeleted) (domain.ProjectionResult, error) {
	if err := event.Validate(); err != nil {
		return domain.ProjectionResult{}, err
	}

	return s.apply(ctx, "comment.deleted", domain.NewCommentDeletedEvent(event))
}

func (s commentProjectionService) CommentsCount(ctx context.Context, postID string) (int64, error) {
	if postID == "" {
		return 0, fmt.Errorf("%w: postId is required", domain.ErrInvalidRequest)
	}

	count, err := s.repo.Count(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to read comments count for post %s: %w", postID, err)
	}

	// Deletes can be projected before their creates since the queues are independent.
	if count < 0 {
		return 0, nil
	}

	return count, nil
}

func (s commentProjectionService) apply(ctx context.Context, name string, event domain.CommentEvent) (domain.ProjectionResult, error) {
	result, err := s.repo.Apply(ctx, event)
	if err != nil {
		return domain.ProjectionResult{}, fmt.Errorf("failed to project %s for post %s: %w", name, event.PostID, err)
	}

	s.metrics.RecordProjection(name, result.Applied)

	logEvent := s.logger.Debug()
	if !result.Applied {
		logEvent = s.logger.Info()
	}

	logEvent.
		Str("event", name).
		Str("key", event.Key).
		Str("post_id", event.PostID).
		Bool("applied", result.Applied).
		Int64("comments_count", result.CommentsCount).
		Msg("comment event projected")

	return result, nil
}
