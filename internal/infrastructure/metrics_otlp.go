package infrastructure

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/architeacher/svc-blog-events/internal/config"
	"github.com/architeacher/svc-blog-events/pkg/queue"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var _ Metrics = (*OTLPMetrics)(nil)

// OTLPMetrics pushes the service metrics to an OpenTelemetry collector.
type OTLPMetrics struct {
	meterProvider *sdkmetric.MeterProvider

	httpRequestTotal    metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	httpRequestSize     metric.Int64Histogram
	httpResponseSize    metric.Int64Histogram
	publishTotal        metric.Int64Counter
	deliveryTotal       metric.Int64Counter
	connectionState     metric.Int64Gauge
	connectionAttempts  metric.Int64Counter
	projectionTotal     metric.Int64Counter
	useCaseTotal        metric.Int64Counter
}

func NewOTLPMetrics(ctx context.Context, cfg config.ServiceConfig, logger Logger) (*OTLPMetrics, error) {
	endpoint := net.JoinHostPort(cfg.Telemetry.OtelGRPCHost, cfg.Telemetry.OtelGRPCPort)

	conn, err := grpc.NewClient(
		endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTEL collector: %w", err)
	}

	exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.AppConfig.ServiceName),
			semconv.ServiceVersionKey.String(cfg.AppConfig.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(cfg.AppConfig.Env),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(meterProvider)

	metrics, err := newOTLPMetrics(meterProvider, cfg.AppConfig.ServiceVersion)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("otel_endpoint", endpoint).
		Msg("OTEL metrics provider initialized successfully")

	return metrics, nil
}

func newOTLPMetrics(meterProvider *sdkmetric.MeterProvider, version string) (*OTLPMetrics, error) {
	meter := meterProvider.Meter(metricsNamespace, metric.WithInstrumentationVersion(version))

	om := &OTLPMetrics{meterProvider: meterProvider}

	var err error

	if om.httpRequestTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	if om.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	if om.httpRequestSize, err = meter.Int64Histogram(
		"http_request_size_bytes",
		metric.WithDescription("HTTP request size in bytes"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http_request_size_bytes histogram: %w", err)
	}

	if om.httpResponseSize, err = meter.Int64Histogram(
		"http_response_size_bytes",
		metric.WithDescription("HTTP response size in bytes"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http_response_size_bytes histogram: %w", err)
	}

	if om.publishTotal, err = meter.Int64Counter(
		"queue_publish_total",
		metric.WithDescription("Total number of publish calls per queue"),
		metric.WithUnit("{message}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create queue_publish_total counter: %w", err)
	}

	if om.deliveryTotal, err = meter.Int64Counter(
		"queue_deliveries_total",
		metric.WithDescription("Total number of deliveries per queue and settlement outcome"),
		metric.WithUnit("{message}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create queue_deliveries_total counter: %w", err)
	}

	if om.connectionState, err = meter.Int64Gauge(
		"queue_connection_state",
		metric.WithDescription("Current broker connection state, 1 for the active state"),
	); err != nil {
		return nil, fmt.Errorf("failed to create queue_connection_state gauge: %w", err)
	}

	if om.connectionAttempts, err = meter.Int64Counter(
		"queue_connection_attempts_total",
		metric.WithDescription("Total number of broker connection attempts"),
		metric.WithUnit("{attempt}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create queue_connection_attempts_total counter: %w", err)
	}

	if om.projectionTotal, err = meter.Int64Counter(
		"projection_events_total",
		metric.WithDescription("Total number of projected events, duplicates are not applied"),
		metric.WithUnit("{event}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create projection_events_total counter: %w", err)
	}

	if om.useCaseTotal, err = meter.Int64Counter(
		"use_case_calls_total",
		metric.WithDescription("Total number of application command and query executions"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create use_case_calls_total counter: %w", err)
	}

	return om, nil
}

func (om *OTLPMetrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration, requestSize, responseSize int64) {
	route := metric.WithAttributes(
		attribute.String(httpMethodKey, method),
		attribute.String(httpPathKey, path),
	)

	om.httpRequestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(httpMethodKey, method),
		attribute.String(httpPathKey, path),
		attribute.String(httpStatusCodeKey, statusCodeLabel(statusCode)),
	))
	om.httpRequestDuration.Record(ctx, duration.Seconds(), route)

	if requestSize > 0 {
		om.httpRequestSize.Record(ctx, requestSize, route)
	}

	if responseSize > 0 {
		om.httpResponseSize.Record(ctx, responseSize, route)
	}
}

func (om *OTLPMetrics) RecordPublish(queueName queue.Name, success bool) {
	om.publishTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String(queueKey, queueName.String()),
		attribute.String(statusKey, statusLabel(success)),
	))
}

func (om *OTLPMetrics) RecordDelivery(queueName queue.Name, outcome queue.DeliveryOutcome) {
	om.deliveryTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String(queueKey, queueName.String()),
		attribute.String(outcomeKey, string(outcome)),
	))
}

func (om *OTLPMetrics) RecordConnectionState(state queue.State) {
	for _, known := range []queue.State{
		queue.StateDisconnected,
		queue.StateConnecting,
		queue.StateReady,
		queue.StateReconnecting,
	} {
		var value int64
		if known == state {
			value = 1
		}

		om.connectionState.Record(context.Background(), value, metric.WithAttributes(
			attribute.String(stateKey, known.String()),
		))
	}
}

func (om *OTLPMetrics) RecordConnectionAttempt(success bool) {
	om.connectionAttempts.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String(statusKey, statusLabel(success)),
	))
}

func (om *OTLPMetrics) RecordProjection(event string, applied bool) {
	status := "applied"
	if !applied {
		status = "duplicate"
	}

	om.projectionTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String(eventKey, event),
		attribute.String(statusKey, status),
	))
}

func (om *OTLPMetrics) RecordUseCase(name string, success bool) {
	om.useCaseTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String(useCaseKey, name),
		attribute.String(statusKey, statusLabel(success)),
	))
}

// Handler is nil: OTLP metrics are pushed, there is nothing to scrape.
func (om *OTLPMetrics) Handler() http.Handler {
	return nil
}

func (om *OTLPMetrics) Shutdown(ctx context.Context) error {
	if err := om.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}

	return nil
}
