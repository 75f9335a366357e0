package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Loader handles configuration dumping and reloading.
type Loader struct {
	mu               sync.Mutex
	cfg              *ServiceConfig
	out              io.Writer
	configSignalChan chan os.Signal
	reloadErrors     chan error
}

// NewLoader creates a new config loader instance. Dumps are written to out, stdout when nil.
func NewLoader(cfg *ServiceConfig, out io.Writer) *Loader {
	if out == nil {
		out = os.Stdout
	}

	return &Loader{
		cfg:              cfg,
		out:              out,
		configSignalChan: make(chan os.Signal, 1),
		reloadErrors:     make(chan error, 1),
	}
}

// WatchConfigSignals monitors for SIGHUP (reload) and SIGUSR1 (dump) signals.
// It returns a channel that will receive reload errors for logging by the caller.
func (l *Loader) WatchConfigSignals(ctx context.Context) <-chan error {
	signal.Notify(l.configSignalChan, syscall.SIGHUP, syscall.SIGUSR1)

	go func() {
		defer signal.Stop(l.configSignalChan)
		defer close(l.reloadErrors)

		for {
			select {
			case <-ctx.Done():
				return

			case sig := <-l.configSignalChan:
				switch sig {
				case syscall.SIGHUP:
					l.reportReloadStatus(l.Reload())

				case syscall.SIGUSR1:
					l.DumpConfig()
				}
			}
		}
	}()

	return l.reloadErrors
}

// DumpConfig writes the current configuration as JSON. Secrets are excluded by their json tags.
func (l *Loader) DumpConfig() {
	l.mu.Lock()
	defer l.mu.Unlock()

	configJSON, err := json.MarshalIndent(l.cfg, "", "  ")
	if err != nil {
		fmt.Fprintf(l.out, "Error marshaling config: %v\n", err)

		return
	}

	fmt.Fprintf(l.out, "\n=== Configuration Dump ===\n%s\n=== End Configuration ===\n\n", string(configJSON))
}

// Reload re-reads the environment and applies the settings that can change at runtime.
// Only the log level is hot reloadable; everything else needs a restart.
func (l *Loader) Reload() error {
	fresh, err := Init()
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(fresh.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", fresh.Logging.Level, err)
	}

	l.mu.Lock()
	l.cfg.Logging.Level = fresh.Logging.Level
	l.mu.Unlock()

	zerolog.SetGlobalLevel(level)

	return nil
}

// Init config from environment variables.
func Init() (*ServiceConfig, error) {
	cfg := &ServiceConfig{}

	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service configuration: %w", err)
	}

	if len(ServiceVersion) != 0 {
		cfg.AppConfig.ServiceVersion = ServiceVersion
	}

	if len(CommitSHA) != 0 {
		cfg.AppConfig.CommitSHA = CommitSHA
	}

	if len(APIVersion) != 0 {
		cfg.AppConfig.APIVersion = APIVersion
	}

	return cfg, nil
}

// reportReloadStatus sends reload status (error or nil for success) to reloadErrors channel.
// It uses non-blocking send to avoid blocking if no receiver is ready.
func (l *Loader) reportReloadStatus(err error) {
	select {
	case l.reloadErrors <- err:
	default:
	}
}
