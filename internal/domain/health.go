package domain

import (
	"time"
)

type (
	DependencyCheckStatus string

	LivenessResponseStatus string

	ReadinessResponseStatus string

	HealthResponseStatus string
)

const (
	DependencyCheckStatusHealthy   DependencyCheckStatus = "healthy"
	DependencyCheckStatusDegraded  DependencyCheckStatus = "degraded"
	DependencyCheckStatusUnhealthy DependencyCheckStatus = "unhealthy"
	DependencyCheckStatusDisabled  DependencyCheckStatus = "disabled"
)

const (
	LivenessResponseStatusAlive LivenessResponseStatus = "alive"
	LivenessResponseStatusDead  LivenessResponseStatus = "dead"
)

const (
	ReadinessResponseStatusReady    ReadinessResponseStatus = "ready"
	ReadinessResponseStatusNotReady ReadinessResponseStatus = "not_ready"
)

const (
	HealthResponseStatusHealthy   HealthResponseStatus = "healthy"
	HealthResponseStatusDegraded  HealthResponseStatus = "degraded"
	HealthResponseStatusUnhealthy HealthResponseStatus = "unhealthy"
)

type (
	// DependencyStatus represents the health status of a dependency.
	DependencyStatus struct {
		Status       DependencyCheckStatus
		State        string
		ResponseTime float32
		LastChecked  time.Time
		Error        string
	}

	LivenessResult struct {
		OverallStatus LivenessResponseStatus
	}

	ReadinessResult struct {
		OverallStatus ReadinessResponseStatus
		Broker        DependencyStatus
	}

	// HealthResult contains comprehensive health check results.
	HealthResult struct {
		Service       string
		OverallStatus HealthResponseStatus
		Broker        DependencyStatus
		Cache         DependencyStatus
		Uptime        float32
		CheckedAt     time.Time
	}
)
