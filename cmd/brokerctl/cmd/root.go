package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/architeacher/svc-blog-events/internal/config"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	brokerURL      string
	connectTimeout time.Duration
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "brokerctl",
	Short: "Inspect and exercise the blog event queues",
	Long: `brokerctl talks to the RabbitMQ broker through the same client the services use.

Available commands:
  queues     List the event queues with message and consumer counts
  publish    Publish a raw JSON payload to a queue
  consume    Print and acknowledge messages until interrupted
  emit       Validate and publish a typed event

Connection settings come from the RABBITMQ_* environment variables unless --url is given.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&brokerURL, "url", "u", "", "RabbitMQ connection URL, overrides RABBITMQ_*")
	rootCmd.PersistentFlags().DurationVarP(&connectTimeout, "timeout", "t", 10*time.Second, "How long to wait for the broker to become ready")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log broker client activity to stderr")
}

func newLogger() infrastructure.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return infrastructure.Logger{
		Logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).
			With().
			Timestamp().
			Logger(),
	}
}

// connect returns a Ready client, or an error once the timeout elapses.
func connect(ctx context.Context, logger infrastructure.Logger) (*queue.RabbitMQQueue, error) {
	cfg, err := config.Init()
	if err != nil {
		return nil, fmt.Errorf("unable to load configuration: %w", err)
	}

	if brokerURL != "" {
		cfg.Queue.URL = brokerURL
	}

	cfg.Queue.ConnectTimeout = connectTimeout

	client := infrastructure.NewQueue(cfg.Queue, "brokerctl", logger, &infrastructure.NoOpMetrics{})

	if err := client.Connect(ctx); err != nil {
		logger.Debug().Err(err).Msg("first connection attempt failed, waiting for retry")
	}

	readyCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.WaitReady(readyCtx); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("broker not ready after %s: %w", connectTimeout, err)
	}

	return client, nil
}
