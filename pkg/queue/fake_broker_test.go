package queue

import (
	"context"
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

var errDialRefused = errors.New("dial tcp: connection refused")

type declaredQueue struct {
	name       string
	durable    bool
	autoDelete bool
	exclusive  bool
}

type publishedMessage struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

// fakeBroker stands in for RabbitMQ in unit tests. It records what the client does
// and lets tests drop connections on demand.
type fakeBroker struct {
	mu        sync.Mutex
	dials     int
	urls      []string
	configs   []amqp.Config
	failDials int
	conns     []*fakeConnection
	declared  []declaredQueue
	published []publishedMessage
	consumers map[string][]*fakeChannel
	qos       []int
	tag       uint64

	// hold parks the next dial until it is closed.
	hold    chan struct{}
	holding chan struct{}
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{consumers: make(map[string][]*fakeChannel)}
}

func (b *fakeBroker) dial(url string, cfg amqp.Config) (amqpConnection, error) {
	b.mu.Lock()
	if hold := b.hold; hold != nil {
		b.hold = nil
		close(b.holding)
		b.mu.Unlock()

		<-hold

		b.mu.Lock()
	}
	defer b.mu.Unlock()

	b.dials++
	b.urls = append(b.urls, url)
	b.configs = append(b.configs, cfg)

	if b.failDials > 0 {
		b.failDials--

		return nil, errDialRefused
	}

	conn := &fakeConnection{broker: b}
	b.conns = append(b.conns, conn)

	return conn, nil
}

func (b *fakeBroker) failNextDials(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failDials = n
}

// holdNextDial parks the next dial. The returned channel is closed once the dial is parked
// and release lets it continue.
func (b *fakeBroker) holdNextDial() (parked <-chan struct{}, release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	hold := make(chan struct{})
	b.hold = hold
	b.holding = make(chan struct{})

	var once sync.Once

	return b.holding, func() {
		once.Do(func() { close(hold) })
	}
}

func (b *fakeBroker) dialCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.dials
}

func (b *fakeBroker) declaredQueues() []declaredQueue {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]declaredQueue(nil), b.declared...)
}

func (b *fakeBroker) publishedMessages() []publishedMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]publishedMessage(nil), b.published...)
}

func (b *fakeBroker) consumerCount(queue Name) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.consumers[string(queue)])
}

func (b *fakeBroker) lastConnection() *fakeConnection {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.conns) == 0 {
		return nil
	}

	return b.conns[len(b.conns)-1]
}

// deliver hands a message to the most recent consumer of the queue.
func (b *fakeBroker) deliver(queue Name, body []byte, ack amqp.Acknowledger) bool {
	b.mu.Lock()
	chans := b.consumers[string(queue)]
	b.tag++
	tag := b.tag
	b.mu.Unlock()

	if len(chans) == 0 {
		return false
	}

	return chans[len(chans)-1].push(string(queue), amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  tag,
		MessageId:    "msg-" + string(queue),
		ContentType:  contentTypeJSON,
		Body:         body,
	})
}

type fakeConnection struct {
	broker *fakeBroker

	mu       sync.Mutex
	closed   bool
	notify   []chan *amqp.Error
	channels []*fakeChannel
}

func (c *fakeConnection) Channel() (amqpChannel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, amqp.ErrClosed
	}

	ch := &fakeChannel{conn: c, deliveries: make(map[string]chan amqp.Delivery)}
	c.channels = append(c.channels, ch)

	return ch, nil
}

func (c *fakeConnection) NotifyClose(receiver chan *amqp.Error) chan *amqp.Error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		close(receiver)

		return receiver
	}

	c.notify = append(c.notify, receiver)

	return receiver
}

func (c *fakeConnection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *fakeConnection) Close() error {
	return c.shutdown(nil)
}

// drop simulates a broker-initiated close of the connection.
func (c *fakeConnection) drop() {
	_ = c.shutdown(&amqp.Error{Code: amqp.ConnectionForced, Reason: "CONNECTION_FORCED", Server: true})
}

func (c *fakeConnection) shutdown(reason *amqp.Error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return amqp.ErrClosed
	}

	c.closed = true
	notify, channels := c.notify, c.channels
	c.notify, c.channels = nil, nil
	c.mu.Unlock()

	for _, ch := range channels {
		ch.shutdown(reason)
	}

	for _, n := range notify {
		if reason != nil {
			n <- reason
		}

		close(n)
	}

	return nil
}

type fakeChannel struct {
	conn *fakeConnection

	mu         sync.Mutex
	closed     bool
	notify     []chan *amqp.Error
	deliveries map[string]chan amqp.Delivery
}

func (ch *fakeChannel) Close() error {
	ch.shutdown(nil)

	return nil
}

func (ch *fakeChannel) shutdown(reason *amqp.Error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.closed {
		return
	}

	ch.closed = true

	for _, d := range ch.deliveries {
		close(d)
	}

	for _, n := range ch.notify {
		if reason != nil {
			n <- reason
		}

		close(n)
	}

	ch.notify = nil
}

func (ch *fakeChannel) push(queue string, d amqp.Delivery) bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.closed {
		return false
	}

	ch.deliveries[queue] <- d

	return true
}

func (ch *fakeChannel) Cancel(string, bool) error {
	return nil
}

func (ch *fakeChannel) Consume(
	queue, _ string, _, _, _, _ bool, _ amqp.Table,
) (<-chan amqp.Delivery, error) {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()

		return nil, amqp.ErrClosed
	}

	d := make(chan amqp.Delivery, 16)
	ch.deliveries[queue] = d
	ch.mu.Unlock()

	b := ch.conn.broker
	b.mu.Lock()
	b.consumers[queue] = append(b.consumers[queue], ch)
	b.mu.Unlock()

	return d, nil
}

func (ch *fakeChannel) NotifyClose(receiver chan *amqp.Error) chan *amqp.Error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.closed {
		close(receiver)

		return receiver
	}

	ch.notify = append(ch.notify, receiver)

	return receiver
}

func (ch *fakeChannel) PublishWithContext(
	ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch.mu.Lock()
	closed := ch.closed
	ch.mu.Unlock()

	if closed {
		return amqp.ErrClosed
	}

	b := ch.conn.broker
	b.mu.Lock()
	defer b.mu.Unlock()

	b.published = append(b.published, publishedMessage{exchange: exchange, key: key, msg: msg})

	return nil
}

func (ch *fakeChannel) QueueDeclare(
	name string, durable, autoDelete, exclusive, _ bool, _ amqp.Table,
) (amqp.Queue, error) {
	b := ch.conn.broker
	b.mu.Lock()
	defer b.mu.Unlock()

	b.declared = append(b.declared, declaredQueue{
		name:       name,
		durable:    durable,
		autoDelete: autoDelete,
		exclusive:  exclusive,
	})

	return amqp.Queue{Name: name}, nil
}

func (ch *fakeChannel) QueueDeclarePassive(
	name string, _, _, _, _ bool, _ amqp.Table,
) (amqp.Queue, error) {
	b := ch.conn.broker
	b.mu.Lock()
	defer b.mu.Unlock()

	messages := 0

	for _, p := range b.published {
		if p.key == name {
			messages++
		}
	}

	return amqp.Queue{Name: name, Messages: messages, Consumers: len(b.consumers[name])}, nil
}

func (ch *fakeChannel) Qos(prefetchCount, _ int, _ bool) error {
	b := ch.conn.broker
	b.mu.Lock()
	defer b.mu.Unlock()

	b.qos = append(b.qos, prefetchCount)

	return nil
}

// fakeAcknowledger records how a delivery was settled.
type fakeAcknowledger struct {
	mu      sync.Mutex
	acks    []uint64
	nacks   []uint64
	rejects []uint64
	requeue []bool
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.acks = append(a.acks, tag)

	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.nacks = append(a.nacks, tag)
	a.requeue = append(a.requeue, requeue)

	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rejects = append(a.rejects, tag)
	a.requeue = append(a.requeue, requeue)

	return nil
}

func (a *fakeAcknowledger) counts() (acks, nacks, rejects int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.acks), len(a.nacks), len(a.rejects)
}

func (a *fakeAcknowledger) requeued() []bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]bool(nil), a.requeue...)
}

// stateRecorder collects state transitions reported to a StateListener.
type stateRecorder struct {
	mu          sync.Mutex
	transitions [][2]State
}

func (r *stateRecorder) listen(from, to State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transitions = append(r.transitions, [2]State{from, to})
}

func (r *stateRecorder) snapshot() [][2]State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([][2]State(nil), r.transitions...)
}
