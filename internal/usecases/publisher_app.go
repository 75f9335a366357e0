package usecases

import (
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/service"
	"github.com/architeacher/svc-blog-events/internal/shared/decorator"
	"github.com/architeacher/svc-blog-events/internal/usecases/commands"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	PublisherApplication struct {
		Commands PublisherCommands
	}

	PublisherCommands struct {
		PublishEventHandler commands.PublishEventHandler
	}
)

func NewPublisherApplication(
	eventPublisher service.EventPublisher,
	logger infrastructure.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient decorator.MetricsClient,
) *PublisherApplication {
	return &PublisherApplication{
		Commands: PublisherCommands{
			PublishEventHandler: commands.NewPublishEventHandler(
				eventPublisher,
				logger,
				tracerProvider,
				metricsClient,
			),
		},
	}
}
