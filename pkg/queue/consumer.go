package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// consumer is a registration which lives as long as the client and is resumed after every reconnect.
type consumer struct {
	queue   Name
	tag     string
	handler Handler
	options consumerOptions
	logger  Logger
}

// Consume registers the handler for the queue and starts delivering to it on a dedicated channel.
// The client must be Ready, any other state fails fast with ErrChannelUnavailable.
// A queue accepts a single registration.
func (q *RabbitMQQueue) Consume(ctx context.Context, queue Name, handler Handler, opts ...ConsumerOption) error {
	if err := queue.Validate(); err != nil {
		return err
	}

	if handler == nil {
		return ErrNilHandler
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	options := defaultConsumerOptions()
	for _, opt := range opts {
		opt(&options)
	}

	logger := options.logger
	if logger == nil {
		logger = q.logger
	}

	q.mutex.RLock()
	_, exists := q.consumers[queue]
	state, conn, gen := q.state, q.conn, q.generation
	q.mutex.RUnlock()

	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateConsumer, queue)
	}

	if state != StateReady || conn == nil {
		return fmt.Errorf("%w: cannot consume from %s while %s", ErrChannelUnavailable, queue, state)
	}

	reg := &consumer{
		queue:   queue,
		tag:     fmt.Sprintf("%s.%s.%s", q.options.name, queue, uuid.NewString()),
		handler: handler,
		options: options,
		logger:  logger,
	}

	s := &session{conn: conn}

	b, err := bind(s, reg)
	if err != nil {
		return fmt.Errorf("%w: consume from %s: %w", ErrChannelUnavailable, queue, err)
	}

	s.bindings = append(s.bindings, b)

	q.mutex.Lock()
	if q.closed || q.state != StateReady || q.generation != gen {
		q.mutex.Unlock()

		_ = b.channel.Close()

		return fmt.Errorf("%w: connection lost while consuming from %s", ErrChannelUnavailable, queue)
	}

	if _, exists := q.consumers[queue]; exists {
		q.mutex.Unlock()

		_ = b.channel.Close()

		return fmt.Errorf("%w: %s", ErrDuplicateConsumer, queue)
	}

	q.consumers[queue] = reg
	q.handlers.Add(1)
	q.mutex.Unlock()

	q.start(gen, s)

	logger.Info().
		Str("queue", queue.String()).
		Str("consumer_tag", reg.tag).
		Int("prefetch", options.prefetchCount).
		Msg("consuming from queue")

	return nil
}

func (q *RabbitMQQueue) deliver(reg *consumer, deliveries <-chan amqp.Delivery) {
	defer q.handlers.Done()

	for d := range deliveries {
		q.handleDelivery(q.lifetime, reg, d)
	}
}

// handleDelivery runs the handler and settles the delivery according to its result.
func (q *RabbitMQQueue) handleDelivery(ctx context.Context, reg *consumer, d amqp.Delivery) {
	msg := newMessage(reg.queue, d)

	reg.logger.Debug().
		Str("queue", reg.queue.String()).
		Str("message_id", msg.ID).
		Msg("received message")

	if !json.Valid(d.Body) {
		q.reject(reg, d, &SerializationError{Queue: reg.queue, Op: "decode", Err: errInvalidJSON})

		return
	}

	err := invoke(ctx, reg.handler, msg)

	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			reg.logger.Error().Err(ackErr).Str("queue", reg.queue.String()).Msg("failed to ack message")
			q.metrics.RecordDelivery(reg.queue, DeliveryUnacked)

			return
		}

		q.metrics.RecordDelivery(reg.queue, DeliveryAcked)
	case errors.Is(err, ErrSerialization):
		q.reject(reg, d, err)
	default:
		q.fail(reg, d, &HandlerError{Queue: reg.queue, DeliveryTag: d.DeliveryTag, Err: err})
	}
}

func (q *RabbitMQQueue) reject(reg *consumer, d amqp.Delivery, err error) {
	reg.options.errHandler(err)

	reg.logger.Warn().
		Err(err).
		Str("queue", reg.queue.String()).
		Msg("rejecting message without requeue")

	if rejErr := d.Reject(false); rejErr != nil {
		reg.logger.Error().Err(rejErr).Str("queue", reg.queue.String()).Msg("failed to reject message")
	}

	q.metrics.RecordDelivery(reg.queue, DeliveryRejected)
}

func (q *RabbitMQQueue) fail(reg *consumer, d amqp.Delivery, err *HandlerError) {
	reg.options.errHandler(err)

	if !reg.options.requeueOnError {
		reg.logger.Warn().
			Err(err).
			Str("queue", reg.queue.String()).
			Msg("handler failed, message left unacknowledged")
		q.metrics.RecordDelivery(reg.queue, DeliveryUnacked)

		return
	}

	reg.logger.Warn().
		Err(err).
		Str("queue", reg.queue.String()).
		Msg("handler failed, requeueing message")

	if nackErr := d.Nack(false, true); nackErr != nil {
		reg.logger.Error().Err(nackErr).Str("queue", reg.queue.String()).Msg("failed to nack message")
	}

	q.metrics.RecordDelivery(reg.queue, DeliveryRequeued)
}

func invoke(ctx context.Context, handler Handler, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return handler(ctx, msg)
}
