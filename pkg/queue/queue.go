package queue

import (
	"context"
	"sync"
)

// Queue represents the broker client used by the services to publish and consume events.
type Queue interface {
	// Publisher operations
	Publish(ctx context.Context, queue Name, payload any) error
	PublishWithOptions(ctx context.Context, queue Name, payload any, opts ...PublisherOption) error

	// Consumer operations
	Consume(ctx context.Context, queue Name, handler Handler, opts ...ConsumerOption) error

	// Infrastructure operations
	Inspect(ctx context.Context, queue Name) (QueueInfo, error)

	// Connection management
	Connect(ctx context.Context) error
	Close() error
	IsConnected() bool
	State() State
	WaitReady(ctx context.Context) error
}

var _ Queue = (*RabbitMQQueue)(nil)

// RabbitMQQueue implements the Queue interface using RabbitMQ.
type RabbitMQQueue struct {
	config  Config
	options connectionOptions
	logger  Logger
	metrics Metrics

	// attemptMutex allows a single connection attempt in flight. It is only ever acquired with TryLock.
	attemptMutex sync.Mutex

	mutex      sync.RWMutex
	state      State
	ready      chan struct{}
	generation uint64
	attempts   int
	conn       amqpConnection
	publisher  *ChannelWrapper
	consumers  map[Name]*consumer

	started  bool
	closed   bool
	shutdown chan struct{}
	lifetime context.Context
	stop     context.CancelFunc
	retry    chan struct{}
	done     chan struct{}
	handlers sync.WaitGroup
}

// NewRabbitMQQueue creates a new RabbitMQ queue implementation. No I/O happens until Connect.
func NewRabbitMQQueue(config Config, opts ...ConnectionOption) *RabbitMQQueue {
	options := defaultConnectionOptions()

	for _, opt := range opts {
		opt(&options)
	}

	return &RabbitMQQueue{
		config:    config,
		options:   options,
		logger:    options.logger,
		metrics:   options.metrics,
		state:     StateDisconnected,
		ready:     make(chan struct{}),
		consumers: make(map[Name]*consumer),
		shutdown:  make(chan struct{}),
		lifetime:  context.Background(),
		retry:     make(chan struct{}, 1),
	}
}

// State returns the current connection state.
func (q *RabbitMQQueue) State() State {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	return q.state
}

// IsConnected returns true if connected to RabbitMQ
func (q *RabbitMQQueue) IsConnected() bool {
	return q.State() == StateReady
}

// WaitReady blocks until the client is Ready, the context is done or the client is closed.
func (q *RabbitMQQueue) WaitReady(ctx context.Context) error {
	for {
		q.mutex.RLock()
		state, ready, closed := q.state, q.ready, q.closed
		q.mutex.RUnlock()

		if state == StateReady {
			return nil
		}

		if closed {
			return ErrClientClosed
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.shutdown:
			return ErrClientClosed
		case <-ready:
		}
	}
}

// setStateLocked must be called with the mutex held.
func (q *RabbitMQQueue) setStateLocked(next State) {
	prev := q.state
	if prev == next {
		return
	}

	q.state = next

	switch {
	case next == StateReady:
		close(q.ready)
	case prev == StateReady:
		q.ready = make(chan struct{})
	}

	q.metrics.RecordConnectionState(next)

	for _, listener := range q.options.listeners {
		listener(prev, next)
	}
}
