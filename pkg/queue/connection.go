package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var errAttemptInProgress = errors.New("connection attempt already in progress")

// session groups the resources opened by one successful connection attempt.
type session struct {
	conn      amqpConnection
	publisher *ChannelWrapper
	notify    []<-chan *amqp.Error
	bindings  []binding
}

type binding struct {
	consumer   *consumer
	channel    *ChannelWrapper
	deliveries <-chan amqp.Delivery
}

func (s *session) close() {
	if s.conn != nil && !s.conn.IsClosed() {
		_ = s.conn.Close()
	}
}

// Connect makes a connection attempt and starts the reconnect supervisor on first use.
// A failed attempt is retried in the background after the reconnect delay; the returned
// error is informational only. Connect does not wait for an attempt that is already running,
// it fails with ErrChannelUnavailable instead.
func (q *RabbitMQQueue) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mutex.Lock()
	if q.closed {
		q.mutex.Unlock()

		return ErrClientClosed
	}

	if !q.started {
		q.started = true
		q.lifetime, q.stop = context.WithCancel(context.Background())
		q.done = make(chan struct{})

		go q.supervise(q.lifetime, q.done)
	}
	q.mutex.Unlock()

	return q.attempt()
}

// Close stops reconnecting, closes the connection and waits for in-flight handlers.
func (q *RabbitMQQueue) Close() error {
	q.mutex.Lock()
	if q.closed {
		q.mutex.Unlock()

		return nil
	}

	q.closed = true
	conn := q.conn
	q.conn, q.publisher = nil, nil
	q.setStateLocked(StateDisconnected)
	close(q.shutdown)
	stop, done := q.stop, q.done
	q.mutex.Unlock()

	if stop != nil {
		stop()
	}

	var err error
	if conn != nil && !conn.IsClosed() {
		err = conn.Close()
	}

	if done != nil {
		<-done
	}

	q.handlers.Wait()

	q.logger.Info().Msg("RabbitMQ client closed")

	return err
}

// attempt is a no-op while another attempt holds the attempt mutex. A failing attempt
// schedules its own retry, so the supervisor may skip its turn.
func (q *RabbitMQQueue) attempt() error {
	if !q.attemptMutex.TryLock() {
		if q.State() == StateReady {
			return nil
		}

		return fmt.Errorf("%w: %w", ErrChannelUnavailable, errAttemptInProgress)
	}
	defer q.attemptMutex.Unlock()

	q.mutex.Lock()
	if q.closed {
		q.mutex.Unlock()

		return ErrClientClosed
	}

	if q.state == StateReady {
		q.mutex.Unlock()

		return nil
	}

	q.attempts++
	attempt := q.attempts
	q.setStateLocked(StateConnecting)
	registrations := q.registrationsLocked()
	q.mutex.Unlock()

	url := SanitizeURL(getURL(q.config))
	q.logger.Debug().Str("url", url).Int("attempt", attempt).Msg("connecting to RabbitMQ")

	s, err := q.open(registrations)

	q.mutex.Lock()
	if q.closed {
		q.mutex.Unlock()

		if s != nil {
			s.close()
		}

		return ErrClientClosed
	}

	if err != nil {
		q.setStateLocked(StateReconnecting)
		q.mutex.Unlock()

		q.metrics.RecordConnectionAttempt(false)

		connErr := &ConnectionError{Op: "connect", URL: url, Attempt: attempt, Err: err}
		q.logger.Error().
			Err(connErr).
			Str("retry_in", q.options.reconnectDelay.String()).
			Msg("failed to connect to RabbitMQ")

		q.scheduleRetry()

		return connErr
	}

	q.generation++
	gen := q.generation
	q.conn = s.conn
	q.publisher = s.publisher
	q.attempts = 0
	q.handlers.Add(len(s.bindings))
	q.setStateLocked(StateReady)
	q.mutex.Unlock()

	q.metrics.RecordConnectionAttempt(true)
	q.start(gen, s)

	q.logger.Info().
		Str("url", url).
		Int("attempt", attempt).
		Int("consumers", len(s.bindings)).
		Msg("connected to RabbitMQ")

	return nil
}

// open dials the broker and rebuilds a complete session. Any failure tears down what was opened.
func (q *RabbitMQQueue) open(registrations []*consumer) (*session, error) {
	conn, err := q.options.dial(getURL(q.config), q.amqpConfig())
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	s := &session{conn: conn}
	s.notify = append(s.notify, conn.NotifyClose(make(chan *amqp.Error, 1)))

	publisher, err := openChannel(s)
	if err != nil {
		s.close()

		return nil, fmt.Errorf("open publishing channel: %w", err)
	}

	s.publisher = publisher

	for _, name := range Names() {
		if _, err := publisher.declareDurable(name); err != nil {
			s.close()

			return nil, fmt.Errorf("declare queue %s: %w", name, err)
		}
	}

	for _, reg := range registrations {
		b, err := bind(s, reg)
		if err != nil {
			s.close()

			return nil, fmt.Errorf("resume consumer on %s: %w", reg.queue, err)
		}

		s.bindings = append(s.bindings, b)
	}

	return s, nil
}

func openChannel(s *session) (*ChannelWrapper, error) {
	amqpCh, err := s.conn.Channel()
	if err != nil {
		return nil, err
	}

	ch := newChannelWrapper(amqpCh)
	s.notify = append(s.notify, ch.notifyClose())

	return ch, nil
}

// bind opens a dedicated channel for the consumer and starts consuming on it.
func bind(s *session, reg *consumer) (binding, error) {
	ch, err := openChannel(s)
	if err != nil {
		return binding{}, fmt.Errorf("open channel: %w", err)
	}

	if reg.options.prefetchCount > 0 {
		if err := ch.qos(reg.options.prefetchCount); err != nil {
			_ = ch.Close()

			return binding{}, fmt.Errorf("set prefetch: %w", err)
		}
	}

	deliveries, err := ch.consume(reg.queue, reg.tag)
	if err != nil {
		_ = ch.Close()

		return binding{}, fmt.Errorf("consume: %w", err)
	}

	return binding{consumer: reg, channel: ch, deliveries: deliveries}, nil
}

// start launches the close watchers and delivery loops of an activated session.
// The handler wait group must already account for every binding.
func (q *RabbitMQQueue) start(gen uint64, s *session) {
	for _, notify := range s.notify {
		go q.watch(gen, notify)
	}

	for _, b := range s.bindings {
		go q.deliver(b.consumer, b.deliveries)
	}
}

// watch turns the first close notification of a session into a reconnect.
func (q *RabbitMQQueue) watch(gen uint64, notify <-chan *amqp.Error) {
	select {
	case amqpErr, ok := <-notify:
		if !ok {
			amqpErr = nil
		}

		q.handleDisconnect(gen, amqpErr)
	case <-q.shutdown:
	}
}

func (q *RabbitMQQueue) handleDisconnect(gen uint64, amqpErr *amqp.Error) {
	q.mutex.Lock()
	if q.closed || gen != q.generation || q.state != StateReady {
		q.mutex.Unlock()

		return
	}

	conn := q.conn
	q.conn, q.publisher = nil, nil
	q.setStateLocked(StateReconnecting)
	q.mutex.Unlock()

	event := q.logger.Error().Str("retry_in", q.options.reconnectDelay.String())
	if amqpErr != nil {
		event = event.Err(amqpErr)
	}

	event.Msg("lost connection to RabbitMQ")

	if conn != nil && !conn.IsClosed() {
		_ = conn.Close()
	}

	q.scheduleRetry()
}

// scheduleRetry asks the supervisor for one retry. Requests coalesce while one is pending.
func (q *RabbitMQQueue) scheduleRetry() {
	select {
	case q.retry <- struct{}{}:
	default:
	}
}

// supervise owns the reconnect timer. It is the only goroutine that retries.
func (q *RabbitMQQueue) supervise(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(q.options.reconnectDelay)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.retry:
			timer.Reset(q.options.reconnectDelay)
		}

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		_ = q.attempt()
	}
}

func (q *RabbitMQQueue) registrationsLocked() []*consumer {
	registrations := make([]*consumer, 0, len(q.consumers))

	for _, name := range Names() {
		if reg, ok := q.consumers[name]; ok {
			registrations = append(registrations, reg)
		}
	}

	return registrations
}
