package queue

import (
	"context"
	"fmt"
)

// QueueInfo is a snapshot of a queue as reported by the broker.
type QueueInfo struct {
	Name      Name `json:"name"`
	Messages  int  `json:"messages"`
	Consumers int  `json:"consumers"`
}

// Inspect passively declares the queue and reports its ready message and consumer counts.
func (q *RabbitMQQueue) Inspect(ctx context.Context, queue Name) (QueueInfo, error) {
	if err := queue.Validate(); err != nil {
		return QueueInfo{}, err
	}

	if err := ctx.Err(); err != nil {
		return QueueInfo{}, err
	}

	q.mutex.RLock()
	state, publisher := q.state, q.publisher
	q.mutex.RUnlock()

	if state != StateReady || publisher == nil {
		return QueueInfo{}, fmt.Errorf("%w: cannot inspect %s while %s", ErrChannelUnavailable, queue, state)
	}

	info, err := publisher.inspect(queue)
	if err != nil {
		return QueueInfo{}, fmt.Errorf("%w: inspect %s: %w", ErrChannelUnavailable, queue, err)
	}

	return QueueInfo{Name: queue, Messages: info.Messages, Consumers: info.Consumers}, nil
}
