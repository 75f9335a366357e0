package commands

import (
	"context"
	"fmt"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/service"
	"github.com/architeacher/svc-blog-events/internal/shared/decorator"
	"github.com/architeacher/svc-blog-events/pkg/queue"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	// PublishEventCommand carries one of the domain event payloads.
	PublishEventCommand struct {
		Event any
	}

	PublishEventResult struct {
		Queue queue.Name
	}

	PublishEventHandler decorator.CommandHandler[PublishEventCommand, *PublishEventResult]

	publishEventHandler struct {
		eventPublisher service.EventPublisher
	}
)

func NewPublishEventHandler(
	eventPublisher service.EventPublisher,
	logger infrastructure.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient decorator.MetricsClient,
) PublishEventHandler {
	return decorator.ApplyCommandDecorators[PublishEventCommand, *PublishEventResult](
		publishEventHandler{
			eventPublisher: eventPublisher,
		},
		logger,
		tracerProvider,
		metricsClient,
	)
}

func (h publishEventHandler) Handle(ctx context.Context, cmd PublishEventCommand) (*PublishEventResult, error) {
	var (
		name queue.Name
		err  error
	)

	switch event := cmd.Event.(type) {
	case domain.UserRegistered:
		name, err = queue.UserRegistered, h.eventPublisher.PublishUserRegistered(ctx, event)
	case domain.PostCreated:
		name, err = queue.PostCreated, h.eventPublisher.PublishPostCreated(ctx, event)
	case domain.PostDeleted:
		name, err = queue.PostDeleted, h.eventPublisher.PublishPostDeleted(ctx, event)
	case domain.CommentCreated:
		name, err = queue.CommentCreated, h.eventPublisher.PublishCommentCreated(ctx, event)
	case domain.CommentDeleted:
		name, err = queue.CommentDeleted, h.eventPublisher.PublishCommentDeleted(ctx, event)
	default:
		return nil, domain.NewInvalidEventError(fmt.Sprintf("%T", cmd.Event), domain.ErrInvalidEvent)
	}

	if err != nil {
		return nil, err
	}

	return &PublishEventResult{Queue: name}, nil
}
