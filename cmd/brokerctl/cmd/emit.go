package cmd

import (
	"context"
	"fmt"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/service"
	"github.com/spf13/cobra"
)

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Validate and publish a typed event",
	Long: `Build an event from flags, validate it like the services do and publish it.

Examples:
  brokerctl emit user-registered --user-id u1 --username alice --email alice@example.com
  brokerctl emit comment-deleted --comment-id c1 --post-id p1`,
}

var (
	emitUserRegistered domain.UserRegistered
	emitPostCreated    domain.PostCreated
	emitPostStatus     string
	emitPostDeleted    domain.PostDeleted
	emitCommentCreated domain.CommentCreated
	emitCommentDeleted domain.CommentDeleted
)

func init() {
	userRegisteredCmd := newEmitCommand("user-registered", func() error { return emitUserRegistered.Validate() }, func(ctx context.Context, p service.EventPublisher) error {
		return p.PublishUserRegistered(ctx, emitUserRegistered)
	})
	userRegisteredCmd.Flags().StringVar(&emitUserRegistered.UserID, "user-id", "", "User id")
	userRegisteredCmd.Flags().StringVar(&emitUserRegistered.Username, "username", "", "Username")
	userRegisteredCmd.Flags().StringVar(&emitUserRegistered.Email, "email", "", "Email address")

	postCreatedCmd := newEmitCommand("post-created", func() error {
		emitPostCreated.Status = domain.PostStatus(emitPostStatus)

		return emitPostCreated.Validate()
	}, func(ctx context.Context, p service.EventPublisher) error {
		return p.PublishPostCreated(ctx, emitPostCreated)
	})
	postCreatedCmd.Flags().StringVar(&emitPostCreated.PostID, "post-id", "", "Post id")
	postCreatedCmd.Flags().StringVar(&emitPostCreated.Title, "title", "", "Post title")
	postCreatedCmd.Flags().StringVar(&emitPostCreated.AuthorID, "author-id", "", "Author user id")
	postCreatedCmd.Flags().StringVar(&emitPostCreated.AuthorUsername, "author-username", "", "Author username")
	postCreatedCmd.Flags().StringVar(&emitPostStatus, "status", string(domain.PostStatusPublished), "Post status: draft, published or archived")

	postDeletedCmd := newEmitCommand("post-deleted", func() error { return emitPostDeleted.Validate() }, func(ctx context.Context, p service.EventPublisher) error {
		return p.PublishPostDeleted(ctx, emitPostDeleted)
	})
	postDeletedCmd.Flags().StringVar(&emitPostDeleted.PostID, "post-id", "", "Post id")
	postDeletedCmd.Flags().StringVar(&emitPostDeleted.AuthorID, "author-id", "", "Author user id")

	commentCreatedCmd := newEmitCommand("comment-created", func() error { return emitCommentCreated.Validate() }, func(ctx context.Context, p service.EventPublisher) error {
		return p.PublishCommentCreated(ctx, emitCommentCreated)
	})
	commentCreatedCmd.Flags().StringVar(&emitCommentCreated.CommentID, "comment-id", "", "Comment id")
	commentCreatedCmd.Flags().StringVar(&emitCommentCreated.PostID, "post-id", "", "Post id")
	commentCreatedCmd.Flags().StringVar(&emitCommentCreated.AuthorID, "author-id", "", "Author user id")

	commentDeletedCmd := newEmitCommand("comment-deleted", func() error { return emitCommentDeleted.Validate() }, func(ctx context.Context, p service.EventPublisher) error {
		return p.PublishCommentDeleted(ctx, emitCommentDeleted)
	})
	commentDeletedCmd.Flags().StringVar(&emitCommentDeleted.CommentID, "comment-id", "", "Comment id")
	commentDeletedCmd.Flags().StringVar(&emitCommentDeleted.PostID, "post-id", "", "Post id")

	emitCmd.AddCommand(userRegisteredCmd, postCreatedCmd, postDeletedCmd, commentCreatedCmd, commentDeletedCmd)
	rootCmd.AddCommand(emitCmd)
}

// newEmitCommand validates before connecting so bad flags never need a broker.
func newEmitCommand(event string, validate func() error, publish func(ctx context.Context, p service.EventPublisher) error) *cobra.Command {
	return &cobra.Command{
		Use:   event,
		Short: fmt.Sprintf("Publish a %s event", event),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validate(); err != nil {
				return err
			}

			logger := newLogger()

			client, err := connect(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := publish(cmd.Context(), service.NewEventPublisher(client, nil, logger)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s published\n", event)

			return nil
		},
	}
}
