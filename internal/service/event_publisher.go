package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/ports"
	"github.com/architeacher/svc-blog-events/pkg/queue"
)

type (
	EventPublisher interface {
		PublishUserRegistered(ctx context.Context, event domain.UserRegistered) error
		PublishPostCreated(ctx context.Context, event domain.PostCreated) error
		PublishPostDeleted(ctx context.Context, event domain.PostDeleted) error
		PublishCommentCreated(ctx context.Context, event domain.CommentCreated) error
		PublishCommentDeleted(ctx context.Context, event domain.CommentDeleted) error
	}

	validatable interface {
		Validate() error
	}

	eventPublisher struct {
		bus     ports.EventBus
		options []queue.PublisherOption
		logger  infrastructure.Logger
	}
)

func NewEventPublisher(
	bus ports.EventBus,
	options []queue.PublisherOption,
	logger infrastructure.Logger,
) EventPublisher {
	return eventPublisher{
		bus:     bus,
		options: options,
		logger:  logger,
	}
}

func (p eventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegistered) error {
	return p.publish(ctx, queue.UserRegistered, event)
}

func (p eventPublisher) PublishPostCreated(ctx context.Context, event domain.PostCreated) error {
	return p.publish(ctx, queue.PostCreated, event)
}

func (p eventPublisher) PublishPostDeleted(ctx context.Context, event domain.PostDeleted) error {
	return p.publish(ctx, queue.PostDeleted, event)
}

func (p eventPublisher) PublishCommentCreated(ctx context.Context, event domain.CommentCreated) error {
	return p.publish(ctx, queue.CommentCreated, event)
}

func (p eventPublisher) PublishCommentDeleted(ctx context.Context, event domain.CommentDeleted) error {
	return p.publish(ctx, queue.CommentDeleted, event)
}

func (p eventPublisher) publish(ctx context.Context, name queue.Name, event validatable) error {
	if err := event.Validate(); err != nil {
		return domain.NewInvalidEventError(name.String(), err)
	}

	err := p.bus.PublishWithOptions(ctx, name, event, p.options...)
	switch {
	case err == nil:
		p.logger.Debug().Str("queue", name.String()).Msg("event published")

		return nil

	case errors.Is(err, queue.ErrChannelUnavailable):
		p.logger.Warn().Err(err).Str("queue", name.String()).Msg("broker unavailable, event not published")

		return domain.NewBrokerUnavailableError(name.String(), err)

	case errors.Is(err, queue.ErrSerialization):
		return domain.NewInvalidEventError(name.String(), fmt.Errorf("%w: %w", domain.ErrInvalidEvent, err))

	default:
		return fmt.Errorf("failed to publish %s: %w", name, err)
	}
}
