package queue

import (
	"context"
	"errors"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/ports"
	"github.com/architeacher/svc-blog-events/internal/usecases"
	"github.com/architeacher/svc-blog-events/internal/usecases/commands"
	"github.com/architeacher/svc-blog-events/pkg/queue"
)

// Ensure CommentEventsWorker implements the MessageHandler interface
var _ ports.MessageHandler = (*CommentEventsWorker)(nil)

// CommentEventsWorker projects comment events onto the post comment counters.
type CommentEventsWorker struct {
	app    *usecases.SubscriberApplication
	logger infrastructure.Logger
}

func NewCommentEventsWorker(
	app *usecases.SubscriberApplication,
	logger infrastructure.Logger,
) *CommentEventsWorker {
	return &CommentEventsWorker{
		app:    app,
		logger: logger.WithComponent("comment-events-worker"),
	}
}

func (w *CommentEventsWorker) Subscriptions() []ports.Subscription {
	return []ports.Subscription{
		{Queue: queue.CommentCreated, Handler: w.HandleCommentCreated},
		{Queue: queue.CommentDeleted, Handler: w.HandleCommentDeleted},
	}
}

func (w *CommentEventsWorker) HandleCommentCreated(ctx context.Context, msg queue.Message) error {
	var event domain.CommentCreated
	if err := msg.Unmarshal(&event); err != nil {
		w.logger.Error().Err(err).Str("message_id", msg.ID).Msg("failed to unmarshal comment.created payload")

		return err
	}

	_, err := w.app.Commands.ApplyCommentCreatedHandler.Handle(ctx, commands.ApplyCommentCreatedCommand{Event: event})

	return w.settle(msg, event.PostID, err)
}

func (w *CommentEventsWorker) HandleCommentDeleted(ctx context.Context, msg queue.Message) error {
	var event domain.CommentDeleted
	if err := msg.Unmarshal(&event); err != nil {
		w.logger.Error().Err(err).Str("message_id", msg.ID).Msg("failed to unmarshal comment.deleted payload")

		return err
	}

	_, err := w.app.Commands.ApplyCommentDeletedHandler.Handle(ctx, commands.ApplyCommentDeletedCommand{Event: event})

	return w.settle(msg, event.PostID, err)
}

// settle maps the projection outcome onto the delivery outcome: invalid payloads are poison.
func (w *CommentEventsWorker) settle(msg queue.Message, postID string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrInvalidEvent) {
		w.logger.Error().Err(err).Str("message_id", msg.ID).Str("queue", msg.Queue.String()).Msg("rejecting invalid comment event")

		return &queue.SerializationError{Queue: msg.Queue, Op: "validate", Err: err}
	}

	w.logger.Warn().
		Err(err).
		Str("message_id", msg.ID).
		Str("post_id", postID).
		Bool("redelivered", msg.Redelivered).
		Msg("failed to project comment event")

	return err
}
