package hooks

import (
	"fmt"
	"log/slog"
)

// Outcome is the disposition of one dispatch pass.
type Outcome struct {
	// Blocked reports whether an interceptor stopped the command.
	Blocked bool

	// Command is the final command to execute when not blocked. It
	// differs from the incoming command when an interceptor rewrote it.
	Command string

	// BlockedBy names the interceptor that blocked the command.
	BlockedBy string
}

// Dispatcher runs the hooks that match an incoming command and folds
// their results into a single outcome.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given registry. A nil
// logger falls back to slog.Default.
func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: registry,
		logger:   logger,
	}
}

// Dispatch runs every interceptor matching command, in registration
// order. Matching is decided once against the incoming command; a
// rewrite changes what later interceptors receive, not which ones run.
//
// A failing interceptor is logged under its name and treated as if it
// allowed the command, so one broken hook never blocks the command or the
// hooks after it.
func (d *Dispatcher) Dispatch(command string) Outcome {
	current := command
	for _, hook := range d.registry.InterceptorsFor(command) {
		result, err := invokeInterceptor(hook, current)
		if err != nil {
			d.logger.Error("interceptor failed", "hook", hook.Name, "error", err)
			continue
		}

		switch result.kind {
		case kindBlock:
			return Outcome{Blocked: true, BlockedBy: hook.Name}
		case kindRewrite:
			current = result.command
		}
	}
	return Outcome{Command: current}
}

// RunCallbacks runs every callback matching the original command with the
// result of its execution. Callback failures are logged and never affect
// the remaining callbacks.
func (d *Dispatcher) RunCallbacks(command string, exitCode int, stdout, stderr string) {
	for _, hook := range d.registry.CallbacksFor(command) {
		if err := invokeCallback(hook, command, exitCode, stdout, stderr); err != nil {
			d.logger.Error("callback failed", "hook", hook.Name, "error", err)
		}
	}
}

// invokeInterceptor calls the hook action, converting a panic into an
// error so a misbehaving hook cannot abort the dispatch pass.
func invokeInterceptor(hook *Hook, command string) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = Continue()
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return hook.interceptor(command)
}

func invokeCallback(hook *Hook, command string, exitCode int, stdout, stderr string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return hook.callback(command, exitCode, stdout, stderr)
}
