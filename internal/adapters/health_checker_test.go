package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/stretchr/testify/assert"
)

type (
	stubBroker queue.State

	stubCache struct {
		err error
	}
)

func (s stubBroker) State() queue.State {
	return queue.State(s)
}

func (s stubCache) Ping(context.Context) error {
	return s.err
}

func TestHealthChecker_CheckHealth(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		state       queue.State
		cache       *stubCache
		wantOverall domain.HealthResponseStatus
		wantBroker  domain.DependencyCheckStatus
		wantCache   domain.DependencyCheckStatus
	}{
		{
			name:        "ready broker without cache",
			state:       queue.StateReady,
			wantOverall: domain.HealthResponseStatusHealthy,
			wantBroker:  domain.DependencyCheckStatusHealthy,
			wantCache:   domain.DependencyCheckStatusDisabled,
		},
		{
			name:        "ready broker with cache",
			state:       queue.StateReady,
			cache:       &stubCache{},
			wantOverall: domain.HealthResponseStatusHealthy,
			wantBroker:  domain.DependencyCheckStatusHealthy,
			wantCache:   domain.DependencyCheckStatusHealthy,
		},
		{
			name:        "ready broker with failing cache",
			state:       queue.StateReady,
			cache:       &stubCache{err: errors.New("connection refused")},
			wantOverall: domain.HealthResponseStatusDegraded,
			wantBroker:  domain.DependencyCheckStatusHealthy,
			wantCache:   domain.DependencyCheckStatusUnhealthy,
		},
		{
			name:        "reconnecting broker",
			state:       queue.StateReconnecting,
			wantOverall: domain.HealthResponseStatusUnhealthy,
			wantBroker:  domain.DependencyCheckStatusDegraded,
			wantCache:   domain.DependencyCheckStatusDisabled,
		},
		{
			name:        "connecting broker",
			state:       queue.StateConnecting,
			wantOverall: domain.HealthResponseStatusUnhealthy,
			wantBroker:  domain.DependencyCheckStatusDegraded,
			wantCache:   domain.DependencyCheckStatusDisabled,
		},
		{
			name:        "disconnected broker",
			state:       queue.StateDisconnected,
			wantOverall: domain.HealthResponseStatusUnhealthy,
			wantBroker:  domain.DependencyCheckStatusUnhealthy,
			wantCache:   domain.DependencyCheckStatusDisabled,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			checker := NewHealthChecker("post-service", stubBroker(tc.state), nil)
			if tc.cache != nil {
				checker = NewHealthChecker("post-service", stubBroker(tc.state), *tc.cache)
			}

			result := checker.CheckHealth(context.Background())

			assert.Equal(t, "post-service", result.Service)
			assert.Equal(t, tc.wantOverall, result.OverallStatus)
			assert.Equal(t, tc.wantBroker, result.Broker.Status)
			assert.Equal(t, tc.state.String(), result.Broker.State)
			assert.Equal(t, tc.wantCache, result.Cache.Status)
		})
	}
}

func TestHealthChecker_ReadinessAndLiveness(t *testing.T) {
	t.Parallel()

	ready := NewHealthChecker("auth-service", stubBroker(queue.StateReady), nil)
	reconnecting := NewHealthChecker("auth-service", stubBroker(queue.StateReconnecting), nil)

	assert.Equal(t, domain.ReadinessResponseStatusReady, ready.CheckReadiness(context.Background()).OverallStatus)
	assert.Equal(t, domain.ReadinessResponseStatusNotReady, reconnecting.CheckReadiness(context.Background()).OverallStatus)
	assert.Equal(t, domain.LivenessResponseStatusAlive, reconnecting.CheckLiveness(context.Background()).OverallStatus)
}
