package ports

import (
	"github.com/architeacher/svc-blog-events/pkg/queue"
)

type (
	// Subscription binds a queue to the handler that processes its deliveries.
	Subscription struct {
		Queue   queue.Name
		Handler queue.Handler
	}

	// MessageHandler exposes the queue subscriptions a worker serves.
	MessageHandler interface {
		Subscriptions() []Subscription
	}
)
