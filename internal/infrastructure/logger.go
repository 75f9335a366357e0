package infrastructure

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/architeacher/svc-blog-events/internal/config"
	"github.com/rs/zerolog"
)

const consoleFormat = "console"

// Logger is the service wide structured logger.
type Logger struct {
	zerolog.Logger
}

// New creates a Logger from the logging configuration.
// Unknown levels fall back to info, unknown formats to JSON.
func New(cfg config.LoggingConfig) Logger {
	return newLogger(cfg, os.Stdout)
}

// NewTestLogger returns a Logger that discards everything.
func NewTestLogger() Logger {
	return Logger{Logger: zerolog.Nop()}
}

func newLogger(cfg config.LoggingConfig, out io.Writer) Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if strings.EqualFold(cfg.Format, consoleFormat) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return Logger{
		Logger: zerolog.New(out).Level(level).With().Timestamp().Logger(),
	}
}

// WithComponent returns a child logger tagged with the component name.
func (l Logger) WithComponent(name string) Logger {
	return Logger{Logger: l.With().Str("component", name).Logger()}
}
