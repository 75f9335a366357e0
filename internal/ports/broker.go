package ports

import (
	"context"

	"github.com/architeacher/svc-blog-events/pkg/queue"
)

type (
	// EventBus is the publishing side of the broker client.
	EventBus interface {
		PublishWithOptions(ctx context.Context, queue queue.Name, payload any, opts ...queue.PublisherOption) error
	}

	// Subscriber is the consuming side of the broker client.
	Subscriber interface {
		Consume(ctx context.Context, queue queue.Name, handler queue.Handler, opts ...queue.ConsumerOption) error
		WaitReady(ctx context.Context) error
	}

	// BrokerStatus reports the broker connection state.
	BrokerStatus interface {
		State() queue.State
	}

	// CachePinger checks cache reachability.
	CachePinger interface {
		Ping(ctx context.Context) error
	}
)
