package mappers

import (
	"errors"
	"net/http"

	"github.com/architeacher/svc-blog-events/internal/domain"
)

// HealthStatusToHTTP is 503 unless the service can publish and consume.
func HealthStatusToHTTP(status domain.HealthResponseStatus) int {
	switch status {
	case domain.HealthResponseStatusHealthy, domain.HealthResponseStatusDegraded:
		return http.StatusOK
	default:
		return http.StatusServiceUnavailable
	}
}

func ReadinessStatusToHTTP(status domain.ReadinessResponseStatus) int {
	if status == domain.ReadinessResponseStatusReady {
		return http.StatusOK
	}

	return http.StatusServiceUnavailable
}

func LivenessStatusToHTTP(status domain.LivenessResponseStatus) int {
	if status == domain.LivenessResponseStatusAlive {
		return http.StatusOK
	}

	return http.StatusServiceUnavailable
}

// ErrorToHTTP returns the status code and machine readable code for an application error.
func ErrorToHTTP(err error) (int, string) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.StatusCode, domainErr.Code
	}

	switch {
	case errors.Is(err, domain.ErrInvalidEvent), errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, domain.ErrBrokerUnavailable):
		return http.StatusServiceUnavailable, "BROKER_UNAVAILABLE"
	case errors.Is(err, domain.ErrCacheUnavailable):
		return http.StatusServiceUnavailable, "CACHE_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
	}
}
