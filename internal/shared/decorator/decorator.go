package decorator

import (
	"context"
	"fmt"
	"strings"

	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/architeacher/svc-blog-events/usecases"

type (
	CommandHandler[C any, R any] interface {
		Handle(ctx context.Context, cmd C) (R, error)
	}

	QueryHandler[Q any, R any] interface {
		Execute(ctx context.Context, query Q) (R, error)
	}

	// MetricsClient receives a counter increment per key.
	MetricsClient interface {
		Inc(key string, value int)
	}
)

func ApplyCommandDecorators[C any, R any](
	handler CommandHandler[C, R],
	logger infrastructure.Logger,
	tracerProvider trace.TracerProvider,
	metricsClient MetricsClient,
) CommandHandler[C, R] {
	return commandLoggingDecorator[C, R]{
		base: commandMetricsDecorator[C, R]{
			base: commandTracingDecorator[C, R]{
				base:   handler,
				tracer: tracerProvider.Tracer(tracerName),
			},
			client: metricsClient,
		},
		logger: logger,
	}
}

func ApplyQueryDecorators[Q any, R any](
	handler QueryHandler[Q, R],
	logger infrastructure.Logger,
	tracerProvider trace.TracerProvider,
	metricsClient MetricsClient,
) QueryHandler[Q, R] {
	return queryLoggingDecorator[Q, R]{
		base: queryMetricsDecorator[Q, R]{
			base: queryTracingDecorator[Q, R]{
				base:   handler,
				tracer: tracerProvider.Tracer(tracerName),
			},
			client: metricsClient,
		},
		logger: logger,
	}
}

// generateActionName turns commands.ApplyCommentEventCommand into ApplyCommentEventCommand.
func generateActionName(handler any) string {
	name := fmt.Sprintf("%T", handler)

	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}

	return name
}
