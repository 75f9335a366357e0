package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publish sends a persistent JSON message to the named queue through the default exchange.
func (q *RabbitMQQueue) Publish(ctx context.Context, queue Name, payload any) error {
	return q.PublishWithOptions(ctx, queue, payload)
}

// PublishWithOptions is Publish with per-call options. Publishing while not Ready fails
// immediately with ErrChannelUnavailable.
func (q *RabbitMQQueue) PublishWithOptions(ctx context.Context, queue Name, payload any, opts ...PublisherOption) error {
	if err := queue.Validate(); err != nil {
		return err
	}

	options := defaultPublisherOptions()
	for _, opt := range opts {
		opt(&options)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &SerializationError{Queue: queue, Op: "encode", Err: err}
	}

	q.mutex.RLock()
	state, publisher := q.state, q.publisher
	q.mutex.RUnlock()

	if state != StateReady || publisher == nil {
		q.metrics.RecordPublish(queue, false)

		return fmt.Errorf("%w: cannot publish to %s while %s", ErrChannelUnavailable, queue, state)
	}

	ctx, cancel := context.WithTimeout(ctx, options.timeout)
	defer cancel()

	msg := amqp.Publishing{
		Headers:      options.headers,
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		AppId:        q.options.name,
		Body:         body,
	}

	if err := publisher.publish(ctx, string(queue), msg); err != nil {
		q.metrics.RecordPublish(queue, false)

		if errors.Is(err, amqp.ErrClosed) {
			return fmt.Errorf("%w: publish to %s: %w", ErrChannelUnavailable, queue, err)
		}

		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}

	q.metrics.RecordPublish(queue, true)

	q.logger.Debug().
		Str("queue", queue.String()).
		Str("message_id", msg.MessageId).
		Msg("published message")

	return nil
}
