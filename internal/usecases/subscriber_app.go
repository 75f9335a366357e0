package usecases

import (
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/service"
	"github.com/architeacher/svc-blog-events/internal/shared/decorator"
	"github.com/architeacher/svc-blog-events/internal/usecases/commands"
	"github.com/architeacher/svc-blog-events/internal/usecases/queries"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	SubscriberApplication struct {
		Commands SubscriberCommands
		Queries  SubscriberQueries
	}

	SubscriberCommands struct {
		ApplyCommentCreatedHandler commands.ApplyCommentCreatedHandler
		ApplyCommentDeletedHandler commands.ApplyCommentDeletedHandler
	}

	SubscriberQueries struct {
		FetchCommentsCountQueryHandler queries.FetchCommentsCountQueryHandler
	}
)

func NewSubscriberApplication(
	projection service.CommentProjectionService,
	logger infrastructure.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient decorator.MetricsClient,
) *SubscriberApplication {
	return &SubscriberApplication{
		Commands: SubscriberCommands{
			ApplyCommentCreatedHandler: commands.NewApplyCommentCreatedHandler(
				projection,
				logger,
				tracerProvider,
				metricsClient,
			),
			ApplyCommentDeletedHandler: commands.NewApplyCommentDeletedHandler(
				projection,
				logger,
				tracerProvider,
				metricsClient,
			),
		},
		Queries: SubscriberQueries{
			FetchCommentsCountQueryHandler: queries.NewFetchCommentsCountQueryHandler(
				projection,
				logger,
				tracerProvider,
				metricsClient,
			),
		},
	}
}
