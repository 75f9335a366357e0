package ports

import (
	"context"

	"github.com/architeacher/svc-blog-events/internal/domain"
)

type HealthChecker interface {
	CheckHealth(ctx context.Context) *domain.HealthResult
	CheckReadiness(ctx context.Context) *domain.ReadinessResult
	CheckLiveness(ctx context.Context) *domain.LivenessResult
}
