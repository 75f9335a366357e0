package runtime

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/architeacher/svc-blog-events/internal/adapters/middleware"
	"github.com/architeacher/svc-blog-events/internal/config"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/ports"
	"github.com/architeacher/svc-blog-events/internal/service"
	"github.com/architeacher/svc-blog-events/internal/usecases"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

type (
	Applications struct {
		Publisher  *usecases.PublisherApplication
		Subscriber *usecases.SubscriberApplication
	}

	ApplicationWorkers struct {
		SubscriptionProcessor ports.BackgroundProcessor
		CommentEventsWorker   ports.MessageHandler
	}

	InfrastructureDeps struct {
		HTTPServer  *http.Server
		QueueClient infrastructure.Queue
		CacheClient *infrastructure.KeydbClient
		Metrics     infrastructure.Metrics
	}

	Services struct {
		EventPublisher    service.EventPublisher
		CommentProjection service.CommentProjectionService
	}

	Repos struct {
		CommentCounterRepo ports.CommentCounterRepository
	}

	Dependencies struct {
		Apps    Applications
		Workers ApplicationWorkers

		cfg          *config.ServiceConfig
		configLoader *config.Loader

		logger infrastructure.Logger

		Infra    InfrastructureDeps
		Services Services
		Repos    Repos

		tracerProvider     trace.TracerProvider
		tracerShutdownFunc infrastructure.TracerShutdownFunc
	}

	// routeMounter attaches the service specific routes under the versioned API prefix.
	routeMounter func(r chi.Router)
)

func initializeDependencies(ctx context.Context, serviceName string, opts ...DependencyOption) (*Dependencies, error) {
	cfg, err := config.Init()
	if err != nil {
		return nil, fmt.Errorf("unable to load service configuration: %w", err)
	}

	if _, overridden := os.LookupEnv("APP_SERVICE_NAME"); !overridden && serviceName != "" {
		cfg.AppConfig.ServiceName = serviceName
	}

	appLogger := infrastructure.New(cfg.Logging)

	appLogger.Info().Str("service", cfg.AppConfig.ServiceName).Msg("initializing dependencies...")

	deps := &Dependencies{
		cfg:    cfg,
		logger: appLogger,
	}

	// Start with default options and append any additional options.
	options := append(defaultOptions(ctx), opts...)

	for _, opt := range options {
		if err := opt(deps); err != nil {
			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	deps.logger.Info().Msg("dependencies initialized successfully")

	return deps, nil
}

func initHTTPServer(
	cfg *config.ServiceConfig,
	logger infrastructure.Logger,
	metrics infrastructure.Metrics,
	tracerProvider trace.TracerProvider,
	probes routeMounter,
	api routeMounter,
) *http.Server {
	logger.Info().Msg("creating HTTP server...")

	router := chi.NewRouter()

	for _, mw := range initMiddlewares(cfg, logger, metrics, tracerProvider) {
		router.Use(mw)
	}

	probes(router)
	router.Route("/"+cfg.AppConfig.APIVersion, func(r chi.Router) {
		api(r)
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTPServer.Host, strconv.Itoa(cfg.HTTPServer.Port)),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	logger.Info().Str("addr", server.Addr).Msg("HTTP server created")

	return server
}

func initMiddlewares(
	cfg *config.ServiceConfig,
	logger infrastructure.Logger,
	metrics infrastructure.Metrics,
	tracerProvider trace.TracerProvider,
) []func(http.Handler) http.Handler {
	middlewares := []func(http.Handler) http.Handler{
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		middleware.NewHealthCheckFilter(cfg.Logging.AccessLog.LogHealthChecks).Middleware,
		chimiddleware.Recoverer,
		chimiddleware.Timeout(cfg.HTTPServer.WriteTimeout),
		middleware.NewAPIVersionMiddleware(cfg.AppConfig.APIVersion, cfg.AppConfig.ServiceName).Middleware,
	}

	if cfg.Telemetry.Traces.Enabled {
		middlewares = append(middlewares, middleware.NewTracerMiddleware(cfg.AppConfig.ServiceName, tracerProvider).Middleware)
		logger.Info().Msg("HTTP tracing enabled")
	}

	if cfg.Telemetry.Metrics.Enabled {
		middlewares = append(middlewares, middleware.NewMetricsMiddleware(metrics).Middleware)
		logger.Info().Msg("HTTP metrics collection enabled")
	}

	if cfg.Logging.AccessLog.Enabled {
		middlewares = append(middlewares, middleware.NewAccessLogger(logger).Middleware)
		logger.Info().
			Bool("log_health_checks", cfg.Logging.AccessLog.LogHealthChecks).
			Msg("structured access logging enabled")
	}

	return middlewares
}
