package runtime

import (
	"os"
)

type (
	ServiceOption func(*ServiceCtx)
)

func WithServiceTermination(ch chan os.Signal) ServiceOption {
	return func(ctx *ServiceCtx) {
		ctx.shutdownChannel = ch
	}
}

func WithWaitingForServer() ServiceOption {
	return func(ctx *ServiceCtx) {
		ctx.serverReady = make(chan struct{})
	}
}

// WithDependencyOptions appends options applied after the service defaults.
func WithDependencyOptions(opts ...DependencyOption) ServiceOption {
	return func(ctx *ServiceCtx) {
		ctx.dependencyOptions = append(ctx.dependencyOptions, opts...)
	}
}
