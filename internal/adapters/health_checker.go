package adapters

import (
	"context"
	"time"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/ports"
	"github.com/architeacher/svc-blog-events/pkg/queue"
)

const cacheCheckTimeout = 2 * time.Second

// HealthChecker derives the service health from the broker connection state and the cache.
type HealthChecker struct {
	service   string
	broker    ports.BrokerStatus
	cache     ports.CachePinger
	startTime time.Time
	now       func() time.Time
}

// NewHealthChecker creates a new health checker instance. A nil cache reports as disabled.
func NewHealthChecker(service string, broker ports.BrokerStatus, cache ports.CachePinger) ports.HealthChecker {
	return &HealthChecker{
		service:   service,
		broker:    broker,
		cache:     cache,
		startTime: time.Now(),
		now:       time.Now,
	}
}

func (h *HealthChecker) CheckReadiness(_ context.Context) *domain.ReadinessResult {
	brokerStatus := h.checkBroker()

	overallStatus := domain.ReadinessResponseStatusReady
	if brokerStatus.Status != domain.DependencyCheckStatusHealthy {
		overallStatus = domain.ReadinessResponseStatusNotReady
	}

	return &domain.ReadinessResult{
		OverallStatus: overallStatus,
		Broker:        brokerStatus,
	}
}

// CheckLiveness reports alive for as long as the process serves requests.
func (h *HealthChecker) CheckLiveness(_ context.Context) *domain.LivenessResult {
	return &domain.LivenessResult{
		OverallStatus: domain.LivenessResponseStatusAlive,
	}
}

// CheckHealth is healthy only while the broker is Ready. A failing cache degrades it.
func (h *HealthChecker) CheckHealth(ctx context.Context) *domain.HealthResult {
	brokerStatus := h.checkBroker()
	cacheStatus := h.checkCache(ctx)

	overallStatus := domain.HealthResponseStatusHealthy

	switch {
	case brokerStatus.Status != domain.DependencyCheckStatusHealthy:
		overallStatus = domain.HealthResponseStatusUnhealthy
	case cacheStatus.Status == domain.DependencyCheckStatusUnhealthy:
		overallStatus = domain.HealthResponseStatusDegraded
	}

	return &domain.HealthResult{
		Service:       h.service,
		OverallStatus: overallStatus,
		Broker:        brokerStatus,
		Cache:         cacheStatus,
		Uptime:        float32(h.now().Sub(h.startTime).Seconds()),
		CheckedAt:     h.now(),
	}
}

func (h *HealthChecker) checkBroker() domain.DependencyStatus {
	state := h.broker.State()

	status := domain.DependencyStatus{
		State:       state.String(),
		LastChecked: h.now(),
	}

	switch state {
	case queue.StateReady:
		status.Status = domain.DependencyCheckStatusHealthy
	case queue.StateConnecting, queue.StateReconnecting:
		status.Status = domain.DependencyCheckStatusDegraded
		status.Error = "broker connection is being re-established"
	default:
		status.Status = domain.DependencyCheckStatusUnhealthy
		status.Error = "broker is disconnected"
	}

	return status
}

func (h *HealthChecker) checkCache(ctx context.Context) domain.DependencyStatus {
	if h.cache == nil {
		return domain.DependencyStatus{
			Status:      domain.DependencyCheckStatusDisabled,
			LastChecked: h.now(),
		}
	}

	start := h.now()

	ctx, cancel := context.WithTimeout(ctx, cacheCheckTimeout)
	defer cancel()

	status := domain.DependencyStatus{
		Status:      domain.DependencyCheckStatusHealthy,
		LastChecked: start,
	}

	if err := h.cache.Ping(ctx); err != nil {
		status.Status = domain.DependencyCheckStatusUnhealthy
		status.Error = err.Error()
	}

	status.ResponseTime = float32(h.now().Sub(start).Milliseconds())

	return status
}
