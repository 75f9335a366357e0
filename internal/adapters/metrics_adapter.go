package adapters

import (
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/shared/decorator"
)

type MetricsAdapter struct {
	metrics infrastructure.Metrics
}

func NewMetricsAdapter(metrics infrastructure.Metrics) decorator.MetricsClient {
	return &MetricsAdapter{
		metrics: metrics,
	}
}

// Inc forwards success and failure counts. Duration keys are dropped.
func (m *MetricsAdapter) Inc(key string, _ int) {
	action, success, ok := decorator.ParseKey(key)
	if !ok {
		return
	}

	m.metrics.RecordUseCase(action, success)
}
