package runtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// ServiceCtx drives the lifecycle shared by both services: build, serve, wait for a signal, clean up.
type ServiceCtx struct {
	name              string
	deps              *Dependencies
	dependencyOptions []DependencyOption

	shutdownChannel chan os.Signal

	serverCtx      context.Context
	serverStopFunc context.CancelFunc

	serverReady chan struct{}
}

func newServiceCtx(name string, opt ...ServiceOption) *ServiceCtx {
	sCtx := &ServiceCtx{
		name:            name,
		shutdownChannel: make(chan os.Signal, 1),
	}

	for i := range opt {
		opt[i](sCtx)
	}

	return sCtx
}

func (c *ServiceCtx) run(options func(ctx context.Context) []DependencyOption) {
	c.build(options)
	c.startService()
	c.startWorkers()
	c.monitorConfigChanges()
	c.shutdownHook()
	c.shutdown()
}

func (c *ServiceCtx) build(options func(ctx context.Context) []DependencyOption) {
	c.serverCtx, c.serverStopFunc = context.WithCancel(context.Background())

	opts := append(options(c.serverCtx), c.dependencyOptions...)

	deps, err := initializeDependencies(c.serverCtx, c.name, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	c.deps = deps
}

// startService starts the HTTP server
func (c *ServiceCtx) startService() {
	go func() {
		c.deps.logger.Info().
			Str("address", c.deps.Infra.HTTPServer.Addr).
			Msg("service starting up")

		if c.serverReady != nil {
			c.serverReady <- struct{}{}
		}

		if err := c.deps.Infra.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.deps.logger.Error().Err(err).Msg("unable to start http server")
			c.serverStopFunc()
		}
	}()
}

// startWorkers registers the consumers once the broker is ready. A registration error is a wiring bug and stops the service.
func (c *ServiceCtx) startWorkers() {
	processor := c.deps.Workers.SubscriptionProcessor
	if processor == nil {
		return
	}

	go func() {
		if err := processor.Start(c.serverCtx); err != nil && !errors.Is(err, context.Canceled) {
			c.deps.logger.Error().Err(err).Msg("subscription processor failed")
			c.serverStopFunc()
		}
	}()
}

func (c *ServiceCtx) shutdownHook() {
	signal.Notify(c.shutdownChannel, syscall.SIGINT, syscall.SIGTERM)
}

func (c *ServiceCtx) monitorConfigChanges() {
	reloadErrors := c.deps.configLoader.WatchConfigSignals(c.serverCtx)

	go func() {
		for err := range reloadErrors {
			if err != nil {
				c.deps.logger.Error().Err(err).Msg("failed to reload config")
				continue
			}

			c.deps.logger.Info().Msg("config reloaded successfully")
		}

		c.deps.logger.Info().Msg("stopping config monitor")
	}()
}

func (c *ServiceCtx) shutdown() {
	// Waits for one of the following shutdown conditions to happen.
	select {
	case <-c.serverCtx.Done():
	case <-c.shutdownChannel:
		signal.Stop(c.shutdownChannel)
	}

	c.deps.logger.Info().Msg("received shutdown signal")

	// Cancel context that underlying processes would start cleanup.
	c.serverStopFunc()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.deps.cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	go func() {
		<-shutdownCtx.Done()

		if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
			c.deps.logger.Error().Msg("graceful shutdown timed out.. forcing exit.")
			os.Exit(1)
		}
	}()

	c.cleanup(shutdownCtx)

	c.deps.logger.Info().Str("service", c.name).Msg("service stopped")
}

// WaitForServer blocks until the http server is running.
// If you want to be notified when the server is running,
// make sure you instantiate your service with WithWaitingForServer.
//
// Example:
//
//	srv := runtime.NewSubscriber(runtime.WithWaitingForServer())
//	go func() {
//		srv.Run()
//	}()
//
//	srv.WaitForServer()
func (c *ServiceCtx) WaitForServer() {
	if c.serverReady != nil {
		<-c.serverReady
		close(c.serverReady)
	}
}

func (c *ServiceCtx) cleanup(shutdownCtx context.Context) {
	c.deps.logger.Info().Msg("cleaning up resources...")

	// Stop accepting events before the broker client goes away.
	if err := c.deps.Infra.HTTPServer.Shutdown(shutdownCtx); err != nil {
		c.deps.logger.Error().Err(err).Msg("unable to gracefully shutdown http server")
	}

	if c.deps.Infra.QueueClient != nil {
		if err := c.deps.Infra.QueueClient.Close(); err != nil {
			c.deps.logger.Error().Err(err).Msg("failed to close queue")
		}
	}

	if c.deps.Infra.CacheClient != nil {
		if err := c.deps.Infra.CacheClient.Close(); err != nil {
			c.deps.logger.Error().Err(err).Msg("failed to close cache connection")
		}
	}

	if err := c.deps.Infra.Metrics.Shutdown(shutdownCtx); err != nil {
		c.deps.logger.Error().Err(err).Msg("failed to shutdown metrics")
	}

	if err := c.deps.tracerShutdownFunc(shutdownCtx); err != nil {
		c.deps.logger.Error().Err(err).Msg("failed to shutdown tracer")
	}

	c.deps.logger.Info().Msg("cleanup completed")
}
