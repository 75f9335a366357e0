package infrastructure

import (
	"strconv"
)

const (
	httpMethodKey     = "method"
	httpPathKey       = "path"
	httpStatusCodeKey = "status_code"
	statusKey         = "status"
	queueKey          = "queue"
	outcomeKey        = "outcome"
	stateKey          = "state"
	eventKey          = "event"
	useCaseKey        = "use_case"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

func statusLabel(success bool) string {
	if success {
		return statusSuccess
	}

	return statusFailure
}

func statusCodeLabel(code int) string {
	return strconv.Itoa(code)
}
