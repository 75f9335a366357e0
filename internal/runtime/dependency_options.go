package runtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/architeacher/svc-blog-events/internal/adapters"
	httpAdapter "github.com/architeacher/svc-blog-events/internal/adapters/http"
	queueAdapter "github.com/architeacher/svc-blog-events/internal/adapters/queue"
	"github.com/architeacher/svc-blog-events/internal/adapters/repos"
	"github.com/architeacher/svc-blog-events/internal/adapters/subscription"
	"github.com/architeacher/svc-blog-events/internal/config"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/ports"
	"github.com/architeacher/svc-blog-events/internal/service"
	"github.com/architeacher/svc-blog-events/internal/shared/backoff"
	"github.com/architeacher/svc-blog-events/internal/usecases"
	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

type (
	DependencyOption func(*Dependencies) error
)

func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithConfigLoader(),
		WithMetrics(ctx),
		WithTracing(ctx),
	}
}

func WithConfigLoader() DependencyOption {
	return func(d *Dependencies) error {
		d.configLoader = config.NewLoader(d.cfg, nil)

		return nil
	}
}

func WithMetrics(ctx context.Context) DependencyOption {
	return func(d *Dependencies) error {
		metrics, err := infrastructure.NewMetrics(ctx, *d.cfg, d.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}

		d.Infra.Metrics = metrics

		return nil
	}
}

func WithTracing(ctx context.Context) DependencyOption {
	return func(d *Dependencies) error {
		d.tracerProvider = otel.GetTracerProvider()

		if !d.cfg.Telemetry.Traces.Enabled {
			d.tracerShutdownFunc = func(_ context.Context) error {
				return nil
			}

			return nil
		}

		tracerShutdownFunc, err := infrastructure.InitGlobalTracer(ctx, d.cfg.Telemetry, d.cfg.AppConfig)
		if err != nil {
			d.logger.Error().Err(err).Msg("failed to initialize global tracer")

			return err
		}

		d.tracerProvider = otel.GetTracerProvider()
		d.tracerShutdownFunc = tracerShutdownFunc

		return nil
	}
}

// WithQueue builds the broker client and makes the first connection attempt.
// A failed attempt is not fatal: the client keeps retrying in the background.
func WithQueue(ctx context.Context) DependencyOption {
	return func(d *Dependencies) error {
		queueClient := infrastructure.NewQueue(d.cfg.Queue, d.cfg.AppConfig.ServiceName, d.logger, d.Infra.Metrics)

		if err := queueClient.Connect(ctx); err != nil {
			d.logger.Warn().Err(err).Msg("broker not reachable yet, retrying in the background")
		}

		d.Infra.QueueClient = queueClient

		return nil
	}
}

func WithCache(ctx context.Context) DependencyOption {
	return func(d *Dependencies) error {
		if !d.cfg.Cache.Enabled {
			d.logger.Info().Msg("cache is disabled")

			return nil
		}

		cacheClient := infrastructure.NewKeyDBClient(d.cfg.Cache, d.logger)

		cacheCtx, cancel := context.WithTimeout(ctx, d.cfg.Cache.DialTimeout)
		defer cancel()

		if err := cacheClient.Ping(cacheCtx); err != nil {
			d.logger.Error().Err(err).Msg("failed to connect to cache, continuing without cache")

			_ = cacheClient.Close()

			return nil
		}

		d.logger.Info().Msg("cache connection established")
		d.Infra.CacheClient = cacheClient

		return nil
	}
}

func WithEventPublisher() DependencyOption {
	return func(d *Dependencies) error {
		if d.Infra.QueueClient == nil {
			return errors.New("event publisher requires the queue client")
		}

		d.Services.EventPublisher = service.NewEventPublisher(
			d.Infra.QueueClient,
			infrastructure.PublisherOptions(d.cfg.Queue),
			d.logger,
		)

		d.Apps.Publisher = usecases.NewPublisherApplication(
			d.Services.EventPublisher,
			d.logger,
			d.tracerProvider,
			adapters.NewMetricsAdapter(d.Infra.Metrics),
		)

		return nil
	}
}

// WithCommentProjection keeps comment counters in KeyDB when it is reachable, in memory otherwise.
func WithCommentProjection() DependencyOption {
	return func(d *Dependencies) error {
		if d.Infra.QueueClient == nil {
			return errors.New("comment projection requires the queue client")
		}

		if d.Infra.CacheClient != nil {
			d.Repos.CommentCounterRepo = repos.NewCommentCounterRepository(d.Infra.CacheClient.Client, d.cfg.Projection)
		} else {
			d.logger.Warn().Msg("using in-memory comment counters, counts reset on restart")
			d.Repos.CommentCounterRepo = repos.NewMemoryCommentCounterRepository(d.cfg.Projection.MarkerTTL)
		}

		d.Services.CommentProjection = service.NewCommentProjectionService(
			d.Repos.CommentCounterRepo,
			d.logger,
			d.Infra.Metrics,
		)

		d.Apps.Subscriber = usecases.NewSubscriberApplication(
			d.Services.CommentProjection,
			d.logger,
			d.tracerProvider,
			adapters.NewMetricsAdapter(d.Infra.Metrics),
		)

		d.Workers.CommentEventsWorker = queueAdapter.NewCommentEventsWorker(d.Apps.Subscriber, d.logger)

		consumerOptions := append(
			infrastructure.ConsumerOptions(d.cfg.Queue, d.logger),
			queue.WithErrorHandler(func(err error) {
				d.logger.Warn().Err(err).Msg("comment event left for redelivery")
			}),
		)

		d.Workers.SubscriptionProcessor = subscription.NewProcessor(
			d.Infra.QueueClient,
			[]ports.MessageHandler{d.Workers.CommentEventsWorker},
			consumerOptions,
			backoff.NewExponentialStrategy(d.cfg.Backoff),
			d.logger,
		)

		return nil
	}
}

// WithHTTPServer serves the probes plus POST routes for the given event queues.
func WithHTTPServer(events ...queue.Name) DependencyOption {
	return func(d *Dependencies) error {
		var cache ports.CachePinger
		if d.Infra.CacheClient != nil {
			cache = d.Infra.CacheClient
		}

		// Handler is nil for push based exporters.
		var metricsHandler http.Handler
		if d.cfg.Telemetry.Metrics.Enabled {
			metricsHandler = d.Infra.Metrics.Handler()
		}

		healthHandler := httpAdapter.NewHealthHandler(
			adapters.NewHealthChecker(d.cfg.AppConfig.ServiceName, d.Infra.QueueClient, cache),
			metricsHandler,
		)

		api := func(r chi.Router) {
			if d.Apps.Publisher != nil {
				httpAdapter.NewEventsHandler(d.Apps.Publisher, d.logger).Register(r, events...)
			}

			if d.Apps.Subscriber != nil {
				httpAdapter.NewCommentsCountHandler(d.Apps.Subscriber).Register(r)
			}
		}

		d.Infra.HTTPServer = initHTTPServer(
			d.cfg,
			d.logger,
			d.Infra.Metrics,
			d.tracerProvider,
			healthHandler.Register,
			api,
		)

		return nil
	}
}
