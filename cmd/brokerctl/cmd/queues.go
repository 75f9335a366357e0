package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var queuesOutputFormat string

var queuesCmd = &cobra.Command{
	Use:   "queues",
	Short: "List the event queues with message and consumer counts",
	Long: `List every queue of the registry together with the broker's ready message
count and consumer count.

Examples:
  brokerctl queues
  brokerctl queues --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		client, err := connect(ctx, newLogger())
		if err != nil {
			return err
		}
		defer client.Close()

		names := queue.Names()
		infos := make([]queue.QueueInfo, len(names))

		group, groupCtx := errgroup.WithContext(ctx)
		for i, name := range names {
			group.Go(func() error {
				info, err := client.Inspect(groupCtx, name)
				if err != nil {
					return err
				}

				infos[i] = info

				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return fmt.Errorf("failed to inspect queues: %w", err)
		}

		return printQueues(cmd.OutOrStdout(), infos, queuesOutputFormat)
	},
}

func init() {
	queuesCmd.Flags().StringVarP(&queuesOutputFormat, "format", "f", "table", "Output format: table or json")
	rootCmd.AddCommand(queuesCmd)
}

func printQueues(out io.Writer, infos []queue.QueueInfo, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(infos)

	case "table":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "QUEUE\tMESSAGES\tCONSUMERS")

		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%d\t%d\n", info.Name, info.Messages, info.Consumers)
		}

		return w.Flush()

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
