package queue

import (
	"context"
	"sync"
	"sync/atomic"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ChannelWrapper is a wrapper around amqp091-go.Channel that serializes access to it
// and remembers whether it was closed locally.
type ChannelWrapper struct {
	amqpChan amqpChannel

	mutex  sync.Mutex
	closed atomic.Bool
}

func newChannelWrapper(ch amqpChannel) *ChannelWrapper {
	return &ChannelWrapper{amqpChan: ch}
}

// Close is a wrapper around amqp091-go.Channel.Close method, which closes a channel.
func (ch *ChannelWrapper) Close() error {
	defer ch.mutex.Unlock()
	ch.mutex.Lock()

	if ch.isClosed() {
		return amqp.ErrClosed
	}

	ch.closed.Store(true)

	return ch.amqpChan.Close()
}

// declareDurable declares a durable, non-exclusive queue which survives broker restarts.
func (ch *ChannelWrapper) declareDurable(name Name) (amqp.Queue, error) {
	ch.mutex.Lock()
	defer ch.mutex.Unlock()

	return ch.amqpChan.QueueDeclare(string(name), true, false, false, false, nil)
}

func (ch *ChannelWrapper) inspect(name Name) (amqp.Queue, error) {
	ch.mutex.Lock()
	defer ch.mutex.Unlock()

	if ch.isClosed() {
		return amqp.Queue{}, amqp.ErrClosed
	}

	return ch.amqpChan.QueueDeclarePassive(string(name), true, false, false, false, nil)
}

func (ch *ChannelWrapper) publish(ctx context.Context, key string, msg amqp.Publishing) error {
	ch.mutex.Lock()
	defer ch.mutex.Unlock()

	if ch.isClosed() {
		return amqp.ErrClosed
	}

	return ch.amqpChan.PublishWithContext(ctx, "", key, false, false, msg)
}

func (ch *ChannelWrapper) qos(prefetchCount int) error {
	ch.mutex.Lock()
	defer ch.mutex.Unlock()

	return ch.amqpChan.Qos(prefetchCount, 0, false)
}

func (ch *ChannelWrapper) consume(queue Name, tag string) (<-chan amqp.Delivery, error) {
	ch.mutex.Lock()
	defer ch.mutex.Unlock()

	return ch.amqpChan.Consume(string(queue), tag, false, false, false, false, nil)
}

func (ch *ChannelWrapper) notifyClose() <-chan *amqp.Error {
	return ch.amqpChan.NotifyClose(make(chan *amqp.Error, 1))
}

func (ch *ChannelWrapper) isClosed() bool {
	return ch.closed.Load()
}
