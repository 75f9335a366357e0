package commands

import (
	"context"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/service"
	"github.com/architeacher/svc-blog-events/internal/shared/decorator"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	ApplyCommentCreatedCommand struct {
		Event domain.CommentCreated
	}

	ApplyCommentDeletedCommand struct {
		Event domain.CommentDeleted
	}

	ApplyCommentCreatedHandler decorator.CommandHandler[ApplyCommentCreatedCommand, domain.ProjectionResult]

	ApplyCommentDeletedHandler decorator.CommandHandler[ApplyCommentDeletedCommand, domain.ProjectionResult]

	applyCommentCreatedHandler struct {
		projection service.CommentProjectionService
	}

	applyCommentDeletedHandler struct {
		projection service.CommentProjectionService
	}
)

func NewApplyCommentCreatedHandler(
	projection service.CommentProjectionService,
	logger infrastructure.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient decorator.MetricsClient,
) ApplyCommentCreatedHandler {
	return decorator.ApplyCommandDecorators[ApplyCommentCreatedCommand, domain.ProjectionResult](
		applyCommentCreatedHandler{projection: projection},
		logger,
		tracerProvider,
		metricsClient,
	)
}

func NewApplyCommentDeletedHandler(
	projection service.CommentProjectionService,
	logger infrastructure.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient decorator.MetricsClient,
) ApplyCommentDeletedHandler {
	return decorator.ApplyCommandDecorators[ApplyCommentDeletedCommand, domain.ProjectionResult](
		applyCommentDeletedHandler{projection: projection},
		logger,
		tracerProvider,
		metricsClient,
	)
}

func (h applyCommentCreatedHandler) Handle(ctx context.Context, cmd ApplyCommentCreatedCommand) (domain.ProjectionResult, error) {
	return h.projection.ApplyCommentCreated(ctx, cmd.Event)
}

func (h applyCommentDeletedHandler) Handle(ctx context.Context, cmd ApplyCommentDeletedCommand) (domain.ProjectionResult, error) {
	return h.projection.ApplyCommentDeleted(ctx, cmd.Event)
}
