package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/architeacher/svc-blog-events/internal/adapters/http/mappers"
)

type (
	ErrorResponse struct {
		Success    bool           `json:"success"`
		Error      string         `json:"error"`
		Message    string         `json:"message"`
		Details    map[string]any `json:"details,omitempty"`
		StatusCode int            `json:"status_code"`
		Timestamp  time.Time      `json:"timestamp"`
	}

	DependencyResponse struct {
		Status       string     `json:"status"`
		State        string     `json:"state,omitempty"`
		ResponseTime *float32   `json:"response_time,omitempty"`
		LastChecked  *time.Time `json:"last_checked,omitempty"`
		Error        string     `json:"error,omitempty"`
	}

	HealthResponse struct {
		Success   bool               `json:"success"`
		Service   string             `json:"service"`
		Status    string             `json:"status"`
		Broker    DependencyResponse `json:"broker"`
		Cache     DependencyResponse `json:"cache"`
		Uptime    float32            `json:"uptime"`
		Timestamp time.Time          `json:"timestamp"`
	}

	ReadinessResponse struct {
		Status    string             `json:"status"`
		Broker    DependencyResponse `json:"broker"`
		Timestamp time.Time          `json:"timestamp"`
	}

	LivenessResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}

	PublishResponse struct {
		Success bool   `json:"success"`
		Queue   string `json:"queue"`
	}

	CommentsCountResponse struct {
		Success       bool   `json:"success"`
		PostID        string `json:"post_id"`
		CommentsCount int64  `json:"comments_count"`
	}
)

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, statusCode int, errorType, message string, details map[string]any) {
	writeJSON(w, statusCode, ErrorResponse{
		Success:    false,
		Error:      errorType,
		Message:    message,
		Details:    details,
		StatusCode: statusCode,
		Timestamp:  time.Now().UTC(),
	})
}

func writeError(w http.ResponseWriter, err error) {
	statusCode, errorType := mappers.ErrorToHTTP(err)

	writeErrorResponse(w, statusCode, errorType, err.Error(), errorDetails(err))
}

func float32Ptr(f float32) *float32 {
	return &f
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
