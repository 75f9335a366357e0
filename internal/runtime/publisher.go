package runtime

import (
	"context"

	"github.com/architeacher/svc-blog-events/pkg/queue"
)

const authServiceName = "auth-service"

// PublisherCtx runs the auth-service: it only publishes user.registered.
type PublisherCtx struct {
	*ServiceCtx
}

func NewPublisher(opt ...ServiceOption) *PublisherCtx {
	return &PublisherCtx{
		ServiceCtx: newServiceCtx(authServiceName, opt...),
	}
}

func (c *PublisherCtx) Run() {
	c.run(publisherOptions)
}

func publisherOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithQueue(ctx),
		WithEventPublisher(),
		WithHTTPServer(queue.UserRegistered),
	}
}
