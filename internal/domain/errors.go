package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidEvent        = errors.New("invalid event")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrBrokerUnavailable   = errors.New("broker unavailable")
	ErrCacheUnavailable    = errors.New("cache service unavailable")
	ErrInternalServerError = errors.New("internal server error")
)

type (
	DomainError struct {
		Code       string
		Message    string
		StatusCode int
		Cause      error
		Details    map[string]any
	}
)

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}

	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

func NewDomainError(code, message string, statusCode int, cause error) *DomainError {
	return &DomainError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
		Details:    make(map[string]any),
	}
}

func (e *DomainError) WithDetails(key string, value any) *DomainError {
	e.Details[key] = value

	return e
}

func NewInvalidEventError(event string, cause error) *DomainError {
	return NewDomainError(
		"INVALID_EVENT",
		fmt.Sprintf("Event %s failed validation", event),
		http.StatusBadRequest,
		cause,
	).WithDetails("event", event)
}

func NewBrokerUnavailableError(event string, cause error) *DomainError {
	return NewDomainError(
		"BROKER_UNAVAILABLE",
		fmt.Sprintf("Event %s could not be handed to the broker", event),
		http.StatusServiceUnavailable,
		cause,
	).WithDetails("event", event)
}

func NewInternalServerError(message string, cause error) *DomainError {
	return NewDomainError(
		"INTERNAL_SERVER_ERROR",
		message,
		http.StatusInternalServerError,
		cause,
	)
}
