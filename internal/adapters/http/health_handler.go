package http

import (
	"net/http"
	"time"

	"github.com/architeacher/svc-blog-events/internal/adapters/http/mappers"
	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/ports"
	"github.com/go-chi/chi/v5"
)

type HealthHandler struct {
	checker        ports.HealthChecker
	metricsHandler http.Handler
}

// NewHealthHandler serves the probes and, when metricsHandler is not nil, the Prometheus scrape endpoint.
func NewHealthHandler(checker ports.HealthChecker, metricsHandler http.Handler) *HealthHandler {
	return &HealthHandler{
		checker:        checker,
		metricsHandler: metricsHandler,
	}
}

func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/health/ready", h.ReadinessCheck)
	r.Get("/health/live", h.LivenessCheck)

	if h.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", h.metricsHandler)
	}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	result := h.checker.CheckHealth(r.Context())

	resp := HealthResponse{
		Success:   result.OverallStatus != domain.HealthResponseStatusUnhealthy,
		Service:   result.Service,
		Status:    string(result.OverallStatus),
		Broker:    toDependencyResponse(result.Broker),
		Cache:     toDependencyResponse(result.Cache),
		Uptime:    result.Uptime,
		Timestamp: result.CheckedAt,
	}

	writeJSON(w, mappers.HealthStatusToHTTP(result.OverallStatus), resp)
}

func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	result := h.checker.CheckReadiness(r.Context())

	resp := ReadinessResponse{
		Status:    string(result.OverallStatus),
		Broker:    toDependencyResponse(result.Broker),
		Timestamp: result.Broker.LastChecked,
	}

	writeJSON(w, mappers.ReadinessStatusToHTTP(result.OverallStatus), resp)
}

func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	result := h.checker.CheckLiveness(r.Context())

	resp := LivenessResponse{
		Status:    string(result.OverallStatus),
		Timestamp: time.Now().UTC(),
	}

	writeJSON(w, mappers.LivenessStatusToHTTP(result.OverallStatus), resp)
}

func toDependencyResponse(status domain.DependencyStatus) DependencyResponse {
	resp := DependencyResponse{
		Status:      string(status.Status),
		State:       status.State,
		LastChecked: timePtr(status.LastChecked),
		Error:       status.Error,
	}

	if status.Status != domain.DependencyCheckStatusDisabled {
		resp.ResponseTime = float32Ptr(status.ResponseTime)
	}

	return resp
}
