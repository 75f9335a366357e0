package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/ports"
	"github.com/architeacher/svc-blog-events/internal/shared/backoff"
	"github.com/architeacher/svc-blog-events/pkg/queue"
)

// Ensure Processor implements the BackgroundProcessor interface
var _ ports.BackgroundProcessor = (*Processor)(nil)

// Processor registers the worker subscriptions once the broker is ready.
// Registrations outlive reconnects, so Start returns after every queue is bound.
type Processor struct {
	subscriber ports.Subscriber
	handlers   []ports.MessageHandler
	options    []queue.ConsumerOption
	strategy   backoff.Strategy
	logger     infrastructure.Logger
}

func NewProcessor(
	subscriber ports.Subscriber,
	handlers []ports.MessageHandler,
	options []queue.ConsumerOption,
	strategy backoff.Strategy,
	logger infrastructure.Logger,
) *Processor {
	return &Processor{
		subscriber: subscriber,
		handlers:   handlers,
		options:    options,
		strategy:   strategy,
		logger:     logger.WithComponent("subscription-processor"),
	}
}

func (p *Processor) Start(ctx context.Context) error {
	p.logger.Info().Msg("starting subscription processor")

	for _, handler := range p.handlers {
		for _, subscription := range handler.Subscriptions() {
			if err := p.register(ctx, subscription); err != nil {
				return err
			}
		}
	}

	p.logger.Info().Msg("all subscriptions registered")

	return nil
}

// register retries while the broker is between sessions. Caller errors are returned as is.
func (p *Processor) register(ctx context.Context, subscription ports.Subscription) error {
	for retries := 0; ; retries++ {
		if err := p.subscriber.WaitReady(ctx); err != nil {
			return fmt.Errorf("waiting for broker before consuming %s: %w", subscription.Queue, err)
		}

		err := p.subscriber.Consume(ctx, subscription.Queue, subscription.Handler, p.options...)
		if err == nil {
			p.logger.Info().Str("queue", subscription.Queue.String()).Msg("subscription registered")

			return nil
		}

		if !errors.Is(err, queue.ErrChannelUnavailable) {
			return fmt.Errorf("failed to consume %s: %w", subscription.Queue, err)
		}

		delay := p.strategy.Backoff(retries)

		p.logger.Warn().
			Err(err).
			Str("queue", subscription.Queue.String()).
			Dur("retry_in", delay).
			Msg("broker became unavailable while registering, retrying")

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
