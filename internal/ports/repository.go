package ports

import (
	"context"

	"github.com/architeacher/svc-blog-events/internal/domain"
)

type (
	// CommentCounterApplier applies a comment event to the post counter at most once per event key.
	CommentCounterApplier interface {
		Apply(ctx context.Context, event domain.CommentEvent) (domain.ProjectionResult, error)
	}

	CommentCounterFinder interface {
		Count(ctx context.Context, postID string) (int64, error)
	}

	CommentCounterRepository interface {
		CommentCounterApplier
		CommentCounterFinder
	}
)
