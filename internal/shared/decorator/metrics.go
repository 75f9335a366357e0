package decorator

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	successSuffix  = ".success"
	failureSuffix  = ".failure"
	durationSuffix = ".duration"
)

type (
	commandMetricsDecorator[C any, R any] struct {
		base   CommandHandler[C, R]
		client MetricsClient
	}

	queryMetricsDecorator[Q any, R any] struct {
		base   QueryHandler[Q, R]
		client MetricsClient
	}
)

func (d commandMetricsDecorator[C, R]) Handle(ctx context.Context, cmd C) (result R, err error) {
	start := time.Now()

	actionName := strings.ToLower(generateActionName(cmd))

	defer func() {
		recordOutcome(d.client, "commands."+actionName, start, err)
	}()

	return d.base.Handle(ctx, cmd)
}

func (d queryMetricsDecorator[Q, R]) Execute(ctx context.Context, query Q) (result R, err error) {
	start := time.Now()

	actionName := strings.ToLower(generateActionName(query))

	defer func() {
		recordOutcome(d.client, "queries."+actionName, start, err)
	}()

	return d.base.Execute(ctx, query)
}

func recordOutcome(client MetricsClient, key string, start time.Time, err error) {
	client.Inc(fmt.Sprintf("%s%s", key, durationSuffix), int(time.Since(start).Milliseconds()))

	if err == nil {
		client.Inc(key+successSuffix, 1)

		return
	}

	client.Inc(key+failureSuffix, 1)
}

// ParseKey splits a metrics key into the action name and whether it reports a success.
// Duration keys are reported with ok set to false.
func ParseKey(key string) (action string, success bool, ok bool) {
	switch {
	case strings.HasSuffix(key, successSuffix):
		return strings.TrimSuffix(key, successSuffix), true, true
	case strings.HasSuffix(key, failureSuffix):
		return strings.TrimSuffix(key, failureSuffix), false, true
	default:
		return "", false, false
	}
}
