package queue

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelUnavailable is returned when an operation needs a channel but the client is not ready.
	ErrChannelUnavailable = errors.New("queue: channel unavailable")
	// ErrUnknownQueue is returned for queue names outside the registry.
	ErrUnknownQueue = errors.New("queue: unknown queue")
	// ErrDuplicateConsumer is returned when a queue already has a handler bound in this client.
	ErrDuplicateConsumer = errors.New("queue: consumer already registered")
	// ErrNilHandler is returned when Consume is called without a handler.
	ErrNilHandler = errors.New("queue: nil handler")
	// ErrClientClosed is returned by Connect after Close.
	ErrClientClosed = errors.New("queue: client closed")
	// ErrSerialization describes a payload that cannot be encoded or decoded as JSON.
	ErrSerialization = errors.New("queue: serialization failed")
)

type (
	// ConnectionError describes a failed attempt to establish the broker session.
	// It is informational: the client keeps retrying on its own.
	ConnectionError struct {
		Op      string
		URL     string
		Attempt int
		Err     error
	}

	// SerializationError wraps a JSON encoding or decoding failure for a single message.
	SerializationError struct {
		Queue Name
		Op    string
		Err   error
	}

	// HandlerError wraps the error returned by a consumer handler for one delivery.
	HandlerError struct {
		Queue       Name
		DeliveryTag uint64
		Err         error
	}
)

func (e *ConnectionError) Error() string {
	if e.Attempt > 0 {
		return fmt.Sprintf("queue: %s to %s failed on attempt %d: %v", e.Op, e.URL, e.Attempt, e.Err)
	}

	return fmt.Sprintf("queue: %s to %s failed: %v", e.Op, e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("queue: could not %s payload for %s: %v", e.Op, e.Queue, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Is makes every SerializationError match ErrSerialization.
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("queue: handler for %s failed on delivery %d: %v", e.Queue, e.DeliveryTag, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
