package queue

import (
	"context"
	"io"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpConnection is used mainly to be able to replace the broker connection in tests.
type amqpConnection interface {
	io.Closer

	Channel() (amqpChannel, error)
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error
	IsClosed() bool
}

// amqpChannel is used mainly to be able to generate mocks for the AMQP behavior.
type amqpChannel interface {
	io.Closer

	Cancel(consumer string, noWait bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	NotifyClose(c chan *amqp.Error) chan *amqp.Error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueDeclarePassive(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
}

type dialFunc func(url string, cfg amqp.Config) (amqpConnection, error)

type connectionAdapter struct {
	conn *amqp.Connection
}

func dialAMQP(url string, cfg amqp.Config) (amqpConnection, error) {
	conn, err := amqp.DialConfig(url, cfg)
	if err != nil {
		return nil, err
	}

	return connectionAdapter{conn: conn}, nil
}

func (a connectionAdapter) Channel() (amqpChannel, error) {
	ch, err := a.conn.Channel()
	if err != nil {
		return nil, err
	}

	return ch, nil
}

func (a connectionAdapter) NotifyClose(receiver chan *amqp.Error) chan *amqp.Error {
	return a.conn.NotifyClose(receiver)
}

func (a connectionAdapter) IsClosed() bool {
	return a.conn.IsClosed()
}

func (a connectionAdapter) Close() error {
	return a.conn.Close()
}

func (q *RabbitMQQueue) amqpConfig() amqp.Config {
	props := amqp.NewConnectionProperties()
	props.SetClientConnectionName(q.options.name)

	return amqp.Config{
		Heartbeat:  q.options.heartbeat,
		Properties: props,
		Dial:       amqp.DefaultDial(q.options.timeout),
	}
}
