package hooks

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNilAction is returned when a hook is registered without an action.
var ErrNilAction = errors.New("hook action cannot be nil")

// Registry owns the append-only set of registered hooks and answers which
// hooks apply to a command. Registration order is preserved: every hook
// gets a unique, increasing sequence number shared across interceptors
// and callbacks.
//
// The registry is safe for concurrent use. In the intended interactive
// usage registration happens at load time and between dispatch passes.
type Registry struct {
	mu      sync.Mutex
	hooks   []*Hook
	nextSeq int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterInterceptor adds an interceptor hook. An empty prefix makes the
// hook global. An empty name gets a generated one based on the sequence
// number. Returns ErrNilAction when action is nil.
func (r *Registry) RegisterInterceptor(name, prefix string, action InterceptorFunc) (*Hook, error) {
	if action == nil {
		return nil, fmt.Errorf("register interceptor %q: %w", name, ErrNilAction)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	hook := &Hook{
		Name:        name,
		Prefix:      prefix,
		Order:       r.nextSeq,
		interceptor: action,
	}
	if hook.Name == "" {
		hook.Name = fmt.Sprintf("interceptor-%d", hook.Order)
	}
	r.nextSeq++
	r.hooks = append(r.hooks, hook)
	return hook, nil
}

// RegisterCallback adds a callback hook. An empty prefix makes the hook
// global. Returns ErrNilAction when action is nil.
func (r *Registry) RegisterCallback(name, prefix string, action CallbackFunc) (*Hook, error) {
	if action == nil {
		return nil, fmt.Errorf("register callback %q: %w", name, ErrNilAction)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	hook := &Hook{
		Name:     name,
		Prefix:   prefix,
		Order:    r.nextSeq,
		callback: action,
	}
	if hook.Name == "" {
		hook.Name = fmt.Sprintf("callback-%d", hook.Order)
	}
	r.nextSeq++
	r.hooks = append(r.hooks, hook)
	return hook, nil
}

// InterceptorsFor returns the interceptor hooks that apply to command, in
// ascending registration order. Global and prefix-scoped hooks are
// interleaved by their sequence numbers, so a hook registered first
// always runs first.
func (r *Registry) InterceptorsFor(command string) []*Hook {
	return r.matching(command, func(h *Hook) bool { return h.interceptor != nil })
}

// CallbacksFor returns the callback hooks that apply to command, in
// ascending registration order.
func (r *Registry) CallbacksFor(command string) []*Hook {
	return r.matching(command, func(h *Hook) bool { return h.callback != nil })
}

func (r *Registry) matching(command string, keep func(*Hook) bool) []*Hook {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*Hook
	for _, h := range r.hooks {
		if keep(h) && h.Matches(command) {
			matched = append(matched, h)
		}
	}
	return matched
}

// Hooks returns all registered hooks in registration order.
func (r *Registry) Hooks() []*Hook {
	r.mu.Lock()
	defer r.mu.Unlock()

	hooks := make([]*Hook, len(r.hooks))
	copy(hooks, r.hooks)
	return hooks
}

// Clear removes all hooks and restarts the sequence numbering at zero.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hooks = nil
	r.nextSeq = 0
}
