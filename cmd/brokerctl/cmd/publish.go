package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <queue> <json>",
	Short: "Publish a raw JSON payload to a queue",
	Long: `Publish a JSON document as is. The payload is not checked against the event
contract, use emit for that.

Example:
  brokerctl publish comment.created '{"commentId":"c1","postId":"p1","authorId":"u1"}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := queue.ParseName(args[0])
		if err != nil {
			return err
		}

		payload := json.RawMessage(args[1])
		if !json.Valid(payload) {
			return fmt.Errorf("payload is not valid JSON")
		}

		client, err := connect(cmd.Context(), newLogger())
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Publish(cmd.Context(), name, payload); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "published to %s\n", name)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
