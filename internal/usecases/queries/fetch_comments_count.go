package queries

import (
	"context"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/service"
	"github.com/architeacher/svc-blog-events/internal/shared/decorator"
	"go.opentelemetry.io/otel/trace"
)

type (
	FetchCommentsCountQuery struct {
		PostID string
	}

	FetchCommentsCountQueryHandler decorator.QueryHandler[FetchCommentsCountQuery, domain.PostCommentsCount]

	fetchCommentsCountQueryHandler struct {
		projection service.CommentProjectionService
	}
)

func NewFetchCommentsCountQueryHandler(
	projection service.CommentProjectionService,
	logger infrastructure.Logger,
	tracerProvider trace.TracerProvider,
	metricsClient decorator.MetricsClient,
) FetchCommentsCountQueryHandler {
	return decorator.ApplyQueryDecorators[FetchCommentsCountQuery, domain.PostCommentsCount](
		fetchCommentsCountQueryHandler{
			projection: projection,
		},
		logger,
		tracerProvider,
		metricsClient,
	)
}

func (h fetchCommentsCountQueryHandler) Execute(ctx context.Context, query FetchCommentsCountQuery) (domain.PostCommentsCount, error) {
	count, err := h.projection.CommentsCount(ctx, query.PostID)
	if err != nil {
		return domain.PostCommentsCount{}, err
	}

	return domain.PostCommentsCount{PostID: query.PostID, CommentsCount: count}, nil
}
