package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestOTLPMetrics(t *testing.T) (*OTLPMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	metrics, err := newOTLPMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), "test")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = metrics.Shutdown(context.Background())
	})

	return metrics, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := make(map[string]metricdata.Aggregation)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			found[m.Name] = m.Data
		}
	}

	return found
}

func sumFor(t *testing.T, data metricdata.Aggregation, attrs ...attribute.KeyValue) int64 {
	t.Helper()

	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)

	want := attribute.NewSet(attrs...)

	for _, point := range sum.DataPoints {
		if point.Attributes.Equals(&want) {
			return point.Value
		}
	}

	return 0
}

func TestOTLPMetrics_Queue(t *testing.T) {
	t.Parallel()

	metrics, reader := newTestOTLPMetrics(t)

	metrics.RecordPublish(queue.UserRegistered, true)
	metrics.RecordPublish(queue.UserRegistered, true)
	metrics.RecordPublish(queue.UserRegistered, false)
	metrics.RecordDelivery(queue.CommentDeleted, queue.DeliveryRejected)
	metrics.RecordConnectionAttempt(true)
	metrics.RecordConnectionState(queue.StateReady)

	found := collect(t, reader)

	assert.Equal(t, int64(2), sumFor(t, found["queue_publish_total"],
		attribute.String(queueKey, "user.registered"), attribute.String(statusKey, statusSuccess)))
	assert.Equal(t, int64(1), sumFor(t, found["queue_publish_total"],
		attribute.String(queueKey, "user.registered"), attribute.String(statusKey, statusFailure)))
	assert.Equal(t, int64(1), sumFor(t, found["queue_deliveries_total"],
		attribute.String(queueKey, "comment.deleted"), attribute.String(outcomeKey, "rejected")))
	assert.Equal(t, int64(1), sumFor(t, found["queue_connection_attempts_total"],
		attribute.String(statusKey, statusSuccess)))

	gauge, ok := found["queue_connection_state"].(metricdata.Gauge[int64])
	require.True(t, ok)

	active := attribute.NewSet(attribute.String(stateKey, queue.StateReady.String()))
	for _, point := range gauge.DataPoints {
		if point.Attributes.Equals(&active) {
			assert.Equal(t, int64(1), point.Value)
		} else {
			assert.Equal(t, int64(0), point.Value)
		}
	}
}

func TestOTLPMetrics_ProjectionAndHTTP(t *testing.T) {
	t.Parallel()

	metrics, reader := newTestOTLPMetrics(t)

	metrics.RecordProjection("comment.created", true)
	metrics.RecordProjection("comment.created", false)
	metrics.RecordUseCase("ApplyCommentCreatedCommand", true)
	metrics.RecordHTTPRequest(context.Background(), "POST", "/v1/events/comment-created", 202, 5*time.Millisecond, 48, 32)

	found := collect(t, reader)

	assert.Equal(t, int64(1), sumFor(t, found["projection_events_total"],
		attribute.String(eventKey, "comment.created"), attribute.String(statusKey, "applied")))
	assert.Equal(t, int64(1), sumFor(t, found["projection_events_total"],
		attribute.String(eventKey, "comment.created"), attribute.String(statusKey, "duplicate")))
	assert.Equal(t, int64(1), sumFor(t, found["use_case_calls_total"],
		attribute.String(useCaseKey, "ApplyCommentCreatedCommand"), attribute.String(statusKey, statusSuccess)))
	assert.Equal(t, int64(1), sumFor(t, found["http_requests_total"],
		attribute.String(httpMethodKey, "POST"),
		attribute.String(httpPathKey, "/v1/events/comment-created"),
		attribute.String(httpStatusCodeKey, "202")))
	assert.Contains(t, found, "http_request_duration_seconds")
	assert.Nil(t, metrics.Handler())
}
