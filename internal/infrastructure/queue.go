package infrastructure

import (
	"github.com/architeacher/svc-blog-events/internal/config"
	"github.com/architeacher/svc-blog-events/pkg/queue"
)

// Queue is an alias to the queue.Queue interface so that services depend on the infrastructure package only.
type Queue = queue.Queue

// NewQueue builds the broker client for the service. No connection is made until Connect is called.
func NewQueue(cfg config.QueueConfig, serviceName string, logger Logger, metrics queue.Metrics) *queue.RabbitMQQueue {
	connectionName := cfg.ConnectionName
	if connectionName == "" {
		connectionName = serviceName
	}

	return queue.NewRabbitMQQueue(
		QueueConnectionConfig(cfg),
		queue.WithLogger(queue.NewZerologAdapter(logger.Logger)),
		queue.WithMetrics(metrics),
		queue.WithConnectionName(connectionName),
		queue.WithReconnectDelay(cfg.ReconnectDelay),
		queue.WithConnectionTimeout(cfg.ConnectTimeout),
		queue.WithHeartbeat(cfg.Heartbeat),
		queue.WithStateListener(func(from, to queue.State) {
			logger.Debug().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("broker connection state changed")
		}),
	)
}

// QueueConnectionConfig maps the service configuration onto the broker client configuration.
func QueueConnectionConfig(cfg config.QueueConfig) queue.Config {
	return queue.Config{
		URL:      cfg.URL,
		Scheme:   cfg.Scheme,
		Username: cfg.Username,
		Password: cfg.Password,
		Host:     cfg.Host,
		Port:     cfg.Port,
		Vhost:    cfg.VirtualHost,
	}
}

// ConsumerOptions returns the consumer options derived from the service configuration.
func ConsumerOptions(cfg config.QueueConfig, logger Logger) []queue.ConsumerOption {
	opts := []queue.ConsumerOption{
		queue.WithConsumingLogger(queue.NewZerologAdapter(logger.Logger)),
		queue.WithPrefetchCount(cfg.PrefetchCount),
	}

	if cfg.RequeueOnError {
		opts = append(opts, queue.WithRequeueOnError())
	}

	return opts
}

// PublisherOptions returns the per-call publisher options derived from the service configuration.
func PublisherOptions(cfg config.QueueConfig) []queue.PublisherOption {
	return []queue.PublisherOption{
		queue.WithPublishingTimeout(cfg.PublishTimeout),
	}
}
