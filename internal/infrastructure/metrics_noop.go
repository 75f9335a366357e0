package infrastructure

import (
	"context"
	"net/http"
	"time"

	"github.com/architeacher/svc-blog-events/pkg/queue"
)

type (
	NoOp struct{}

	NoOpMetrics struct{}
)

var _ Metrics = (*NoOpMetrics)(nil)

func (d NoOp) Inc(_ string, _ int) {
}

func (n *NoOpMetrics) RecordHTTPRequest(_ context.Context, _, _ string, _ int, _ time.Duration, _, _ int64) {
}

func (n *NoOpMetrics) RecordPublish(_ queue.Name, _ bool) {
}

func (n *NoOpMetrics) RecordDelivery(_ queue.Name, _ queue.DeliveryOutcome) {
}

func (n *NoOpMetrics) RecordConnectionState(_ queue.State) {
}

func (n *NoOpMetrics) RecordConnectionAttempt(_ bool) {
}

func (n *NoOpMetrics) RecordProjection(_ string, _ bool) {
}

func (n *NoOpMetrics) RecordUseCase(_ string, _ bool) {
}

func (n *NoOpMetrics) Handler() http.Handler {
	return http.NotFoundHandler()
}

func (n *NoOpMetrics) Shutdown(_ context.Context) error {
	return nil
}
