package queue

import (
	"github.com/rs/zerolog"
)

// ZerologAdapter adapts a zerolog logger to the queue logger interface.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates a new logger adapter.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger.With().Str("component", "queue").Logger()}
}

func (a *ZerologAdapter) Info() LogEvent {
	return zerologEvent{event: a.logger.Info()}
}

func (a *ZerologAdapter) Warn() LogEvent {
	return zerologEvent{event: a.logger.Warn()}
}

func (a *ZerologAdapter) Error() LogEvent {
	return zerologEvent{event: a.logger.Error()}
}

func (a *ZerologAdapter) Debug() LogEvent {
	return zerologEvent{event: a.logger.Debug()}
}

// zerologEvent relies on zerolog's nil-safe events for disabled levels.
type zerologEvent struct {
	event *zerolog.Event
}

func (e zerologEvent) Msg(msg string) {
	e.event.Msg(msg)
}

func (e zerologEvent) Err(err error) LogEvent {
	return zerologEvent{event: e.event.Err(err)}
}

func (e zerologEvent) Str(key, value string) LogEvent {
	return zerologEvent{event: e.event.Str(key, value)}
}

func (e zerologEvent) Int(key string, value int) LogEvent {
	return zerologEvent{event: e.event.Int(key, value)}
}
