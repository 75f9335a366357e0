package queue

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const contentTypeJSON = "application/json"

var errInvalidJSON = errors.New("body is not valid JSON")

// Message is a delivery handed to a consumer handler. Body holds the raw JSON payload.
type Message struct {
	ID          string
	Queue       Name
	Body        []byte
	ContentType string
	Redelivered bool
	DeliveryTag uint64
	Timestamp   time.Time
	Headers     map[string]any
}

// Handler processes a single delivery. Returning nil acknowledges the message.
// Returning an error wrapping ErrSerialization rejects it permanently, any other error
// leaves it for redelivery.
type Handler func(ctx context.Context, msg Message) error

func newMessage(queue Name, d amqp.Delivery) Message {
	return Message{
		ID:          d.MessageId,
		Queue:       queue,
		Body:        d.Body,
		ContentType: d.ContentType,
		Redelivered: d.Redelivered,
		DeliveryTag: d.DeliveryTag,
		Timestamp:   d.Timestamp,
		Headers:     d.Headers,
	}
}

// Unmarshal parses the body of the receiver message and stores the result in the value pointed to by target.
func (m Message) Unmarshal(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return &SerializationError{Queue: m.Queue, Op: "decode", Err: errors.New("target must be a non-nil pointer")}
	}

	if err := json.Unmarshal(m.Body, target); err != nil {
		return &SerializationError{Queue: m.Queue, Op: "decode", Err: err}
	}

	return nil
}

// JSONHandler adapts a typed callback into a Handler. Payloads which do not decode into T are rejected.
func JSONHandler[T any](fn func(ctx context.Context, msg Message, payload T) error) Handler {
	return func(ctx context.Context, msg Message) error {
		var payload T
		if err := msg.Unmarshal(&payload); err != nil {
			return err
		}

		return fn(ctx, msg, payload)
	}
}
