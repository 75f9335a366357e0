package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/architeacher/svc-blog-events/internal/config"
	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "blog_events"

	prometheusExporter = "prometheus"
	otlpExporter       = "otlp"
)

type (
	Metrics interface {
		queue.Metrics

		RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration, requestSize, responseSize int64)
		RecordProjection(event string, applied bool)
		RecordUseCase(name string, success bool)
		Handler() http.Handler
		Shutdown(ctx context.Context) error
	}

	PrometheusMetrics struct {
		registry *prometheus.Registry

		httpRequestTotal    *prometheus.CounterVec
		httpRequestDuration *prometheus.HistogramVec
		httpRequestSize     *prometheus.HistogramVec
		httpResponseSize    *prometheus.HistogramVec
		publishTotal        *prometheus.CounterVec
		deliveryTotal       *prometheus.CounterVec
		connectionState     *prometheus.GaugeVec
		connectionAttempts  *prometheus.CounterVec
		projectionTotal     *prometheus.CounterVec
		useCaseTotal        *prometheus.CounterVec
	}
)

var _ Metrics = (*PrometheusMetrics)(nil)

func NewMetrics(ctx context.Context, cfg config.ServiceConfig, logger Logger) (Metrics, error) {
	if !cfg.Telemetry.Metrics.Enabled {
		logger.Info().Msg("metrics disabled, using NoOp implementation")

		return &NoOpMetrics{}, nil
	}

	switch cfg.Telemetry.Metrics.Exporter {
	case "", prometheusExporter:
		metrics := NewPrometheusMetrics(prometheus.Labels{
			"service": cfg.AppConfig.ServiceName,
			"version": cfg.AppConfig.ServiceVersion,
		})

		logger.Info().Str("namespace", metricsNamespace).Msg("prometheus metrics initialized")

		return metrics, nil

	case otlpExporter:
		metrics, err := NewOTLPMetrics(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}

		return metrics, nil

	default:
		return nil, fmt.Errorf("unknown metrics exporter %q", cfg.Telemetry.Metrics.Exporter)
	}
}

// NewPrometheusMetrics registers every collector on a private registry.
func NewPrometheusMetrics(constLabels prometheus.Labels) *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)
	sizeBuckets := prometheus.ExponentialBuckets(64, 4, 8)

	return &PrometheusMetrics{
		registry: registry,
		httpRequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{httpMethodKey, httpPathKey, httpStatusCodeKey}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   metricsNamespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{httpMethodKey, httpPathKey}),
		httpRequestSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   metricsNamespace,
			Name:        "http_request_size_bytes",
			Help:        "HTTP request size in bytes",
			Buckets:     sizeBuckets,
			ConstLabels: constLabels,
		}, []string{httpMethodKey, httpPathKey}),
		httpResponseSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   metricsNamespace,
			Name:        "http_response_size_bytes",
			Help:        "HTTP response size in bytes",
			Buckets:     sizeBuckets,
			ConstLabels: constLabels,
		}, []string{httpMethodKey, httpPathKey}),
		publishTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "queue_publish_total",
			Help:        "Total number of publish calls per queue",
			ConstLabels: constLabels,
		}, []string{queueKey, statusKey}),
		deliveryTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "queue_deliveries_total",
			Help:        "Total number of deliveries per queue and settlement outcome",
			ConstLabels: constLabels,
		}, []string{queueKey, outcomeKey}),
		connectionState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "queue_connection_state",
			Help:        "Current broker connection state, 1 for the active state",
			ConstLabels: constLabels,
		}, []string{stateKey}),
		connectionAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "queue_connection_attempts_total",
			Help:        "Total number of broker connection attempts",
			ConstLabels: constLabels,
		}, []string{statusKey}),
		projectionTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "projection_events_total",
			Help:        "Total number of projected events, duplicates are not applied",
			ConstLabels: constLabels,
		}, []string{eventKey, statusKey}),
		useCaseTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "use_case_calls_total",
			Help:        "Total number of application command and query executions",
			ConstLabels: constLabels,
		}, []string{useCaseKey, statusKey}),
	}
}

func (pm *PrometheusMetrics) RecordHTTPRequest(_ context.Context, method, path string, statusCode int, duration time.Duration, requestSize, responseSize int64) {
	pm.httpRequestTotal.WithLabelValues(method, path, statusCodeLabel(statusCode)).Inc()
	pm.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	if requestSize > 0 {
		pm.httpRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}

	if responseSize > 0 {
		pm.httpResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

func (pm *PrometheusMetrics) RecordPublish(queueName queue.Name, success bool) {
	pm.publishTotal.WithLabelValues(queueName.String(), statusLabel(success)).Inc()
}

func (pm *PrometheusMetrics) RecordDelivery(queueName queue.Name, outcome queue.DeliveryOutcome) {
	pm.deliveryTotal.WithLabelValues(queueName.String(), string(outcome)).Inc()
}

func (pm *PrometheusMetrics) RecordConnectionState(state queue.State) {
	for _, known := range []queue.State{
		queue.StateDisconnected,
		queue.StateConnecting,
		queue.StateReady,
		queue.StateReconnecting,
	} {
		value := 0.0
		if known == state {
			value = 1
		}

		pm.connectionState.WithLabelValues(known.String()).Set(value)
	}
}

func (pm *PrometheusMetrics) RecordConnectionAttempt(success bool) {
	pm.connectionAttempts.WithLabelValues(statusLabel(success)).Inc()
}

func (pm *PrometheusMetrics) RecordProjection(event string, applied bool) {
	status := "applied"
	if !applied {
		status = "duplicate"
	}

	pm.projectionTotal.WithLabelValues(event, status).Inc()
}

func (pm *PrometheusMetrics) RecordUseCase(name string, success bool) {
	pm.useCaseTotal.WithLabelValues(name, statusLabel(success)).Inc()
}

func (pm *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{Registry: pm.registry})
}

func (pm *PrometheusMetrics) Shutdown(_ context.Context) error {
	return nil
}
