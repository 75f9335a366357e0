package queue

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultReconnectDelay    = 5 * time.Second
	defaultConnectionTimeout = 30 * time.Second
	defaultHeartbeat         = 10 * time.Second
	defaultConnectionName    = "svc-blog-events"
	publishingTimeout        = 3 * time.Second
)

type connectionOptions struct {
	timeout        time.Duration
	heartbeat      time.Duration
	reconnectDelay time.Duration
	name           string
	logger         Logger
	metrics        Metrics
	listeners      []StateListener
	dial           dialFunc
}

// ConnectionOption configures a RabbitMQQueue at construction time.
type ConnectionOption func(options *connectionOptions)

func defaultConnectionOptions() connectionOptions {
	return connectionOptions{
		timeout:        defaultConnectionTimeout,
		heartbeat:      defaultHeartbeat,
		reconnectDelay: defaultReconnectDelay,
		name:           defaultConnectionName,
		logger:         nopLogger{},
		metrics:        nopMetrics{},
		dial:           dialAMQP,
	}
}

// WithLogger returns a ConnectionOption which sets the logger when a connection is created.
func WithLogger(l Logger) ConnectionOption {
	return func(o *connectionOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics returns a ConnectionOption which sets the metrics recorder.
func WithMetrics(m Metrics) ConnectionOption {
	return func(o *connectionOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithConnectionTimeout returns a ConnectionOption which sets the timeout used when establishing a connection.
func WithConnectionTimeout(timeout time.Duration) ConnectionOption {
	return func(o *connectionOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithReconnectDelay returns a ConnectionOption which sets the fixed delay between reconnection attempts.
func WithReconnectDelay(delay time.Duration) ConnectionOption {
	return func(o *connectionOptions) {
		if delay > 0 {
			o.reconnectDelay = delay
		}
	}
}

// WithHeartbeat returns a ConnectionOption which sets the heartbeat interval negotiated with the broker.
func WithHeartbeat(interval time.Duration) ConnectionOption {
	return func(o *connectionOptions) {
		o.heartbeat = interval
	}
}

// WithConnectionName returns a ConnectionOption which sets the name reported to the broker.
// It is also used as the AppId of published messages and as the consumer tag prefix.
func WithConnectionName(name string) ConnectionOption {
	return func(o *connectionOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithStateListener returns a ConnectionOption which registers a callback for state transitions.
// Listeners run synchronously on the transition and must not block or call back into the client.
func WithStateListener(listener StateListener) ConnectionOption {
	return func(o *connectionOptions) {
		if listener != nil {
			o.listeners = append(o.listeners, listener)
		}
	}
}

func withDialer(dial dialFunc) ConnectionOption {
	return func(o *connectionOptions) {
		o.dial = dial
	}
}

// publisherOptions configure a single publish call.
type publisherOptions struct {
	timeout time.Duration
	headers amqp.Table
}

// PublisherOption configures a single publish call.
type PublisherOption func(options *publisherOptions)

// WithPublishingTimeout returns a PublisherOption which sets the timeout used when
// publishing the message.
func WithPublishingTimeout(d time.Duration) PublisherOption {
	return func(o *publisherOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithHeaders returns a PublisherOption which attaches application headers to the message.
func WithHeaders(headers map[string]any) PublisherOption {
	return func(o *publisherOptions) {
		if len(headers) == 0 {
			return
		}

		if o.headers == nil {
			o.headers = amqp.Table{}
		}

		for k, v := range headers {
			o.headers[k] = v
		}
	}
}

func defaultPublisherOptions() publisherOptions {
	return publisherOptions{
		timeout: publishingTimeout,
	}
}

type consumerOptions struct {
	errHandler     func(error)
	logger         Logger
	prefetchCount  int
	requeueOnError bool
}

// ConsumerOption configures a consumer registration.
type ConsumerOption func(*consumerOptions)

// WithErrorHandler returns a ConsumerOption which sets a handler for errors that occur when consuming messages.
func WithErrorHandler(handler func(error)) ConsumerOption {
	return func(o *consumerOptions) {
		if handler != nil {
			o.errHandler = handler
		}
	}
}

// WithConsumingLogger returns a ConsumerOption which sets the logger when consuming messages.
func WithConsumingLogger(logger Logger) ConsumerOption {
	return func(o *consumerOptions) {
		o.logger = logger
	}
}

// WithPrefetchCount returns a ConsumerOption which limits unacknowledged deliveries on the consumer channel.
// Zero leaves the broker default in place.
func WithPrefetchCount(count int) ConsumerOption {
	return func(o *consumerOptions) {
		if count >= 0 {
			o.prefetchCount = count
		}
	}
}

// WithRequeueOnError returns a ConsumerOption which negatively acknowledges failed deliveries with requeue
// instead of leaving them unacknowledged until the channel resets.
func WithRequeueOnError() ConsumerOption {
	return func(o *consumerOptions) {
		o.requeueOnError = true
	}
}

func defaultConsumerOptions() consumerOptions {
	return consumerOptions{
		errHandler: func(_ error) {},
	}
}
