package runtime

import (
	"context"

	"github.com/architeacher/svc-blog-events/pkg/queue"
)

const postServiceName = "post-service"

// SubscriberCtx runs the post-service: it publishes post and comment events
// and consumes the comment events to maintain the per post comment counters.
type SubscriberCtx struct {
	*ServiceCtx
}

func NewSubscriber(opt ...ServiceOption) *SubscriberCtx {
	return &SubscriberCtx{
		ServiceCtx: newServiceCtx(postServiceName, opt...),
	}
}

func (c *SubscriberCtx) Run() {
	c.run(subscriberOptions)
}

func subscriberOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithQueue(ctx),
		WithCache(ctx),
		WithEventPublisher(),
		WithCommentProjection(),
		WithHTTPServer(
			queue.PostCreated,
			queue.PostDeleted,
			queue.CommentCreated,
			queue.CommentDeleted,
		),
	}
}
