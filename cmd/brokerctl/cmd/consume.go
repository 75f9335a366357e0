package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:   "consume <queue>",
	Short: "Print and acknowledge messages until interrupted",
	Long: `Register a consumer on the queue and print every delivery. Messages are
acknowledged after printing. Press Ctrl+C to stop.

Example:
  brokerctl consume post.created`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := queue.ParseName(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, err := connect(ctx, newLogger())
		if err != nil {
			return err
		}
		defer client.Close()

		return consumeUntilDone(ctx, client, name, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}

type consumer interface {
	Consume(ctx context.Context, name queue.Name, handler queue.Handler, opts ...queue.ConsumerOption) error
}

// consumeUntilDone prints deliveries to out and status lines to errOut until ctx is done.
func consumeUntilDone(ctx context.Context, client consumer, name queue.Name, out, errOut io.Writer) error {
	handler := func(_ context.Context, msg queue.Message) error {
		fmt.Fprintf(out, "%s id=%s redelivered=%t %s\n",
			msg.Timestamp.Format(time.RFC3339), msg.ID, msg.Redelivered, msg.Body)

		return nil
	}

	if err := client.Consume(ctx, name, handler); err != nil {
		return err
	}

	fmt.Fprintf(errOut, "consuming %s, press Ctrl+C to stop\n", name)

	<-ctx.Done()

	return nil
}
