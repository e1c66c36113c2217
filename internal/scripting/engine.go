// Package scripting embeds a Lua runtime that hook files use to register
// interceptors and callbacks. Files in the hooks directory run once at
// load time; the registration calls they make at top level populate the
// hook registry, and the registered Lua functions are invoked again at
// dispatch time through the bridge in this package.
package scripting

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/michael-freling/termhooks/internal/hooks"
)

// Engine owns a sandboxed Lua state and bridges script-declared hooks
// into the registry.
//
// gopher-lua states are not goroutine-safe. Every call into the state,
// including hook invocations at dispatch time, goes through the engine's
// mutex.
type Engine struct {
	mu       sync.Mutex
	state    *lua.LState
	registry *hooks.Registry
	logger   *slog.Logger

	// chunk names the file currently loading and seq counts its
	// registrations, so hooks get stable identities like
	// "git.lua:interceptor:0".
	chunk string
	seq   int
}

// NewEngine creates an engine registering hooks into registry. A nil
// logger falls back to slog.Default.
func NewEngine(registry *hooks.Registry, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	e := &Engine{
		state:    L,
		registry: registry,
		logger:   logger,
	}
	e.installAPI()
	return e
}

// LoadFile executes a hook file. Registration calls at the file's top
// level take effect immediately.
func (e *Engine) LoadFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.chunk = filepath.Base(path)
	e.seq = 0
	defer func() { e.chunk = "" }()

	if err := e.state.DoFile(path); err != nil {
		return fmt.Errorf("failed to load hook file %s: %w", path, err)
	}
	return nil
}

// LoadString executes hook source under the given chunk name.
func (e *Engine) LoadString(name, source string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.chunk = name
	e.seq = 0
	defer func() { e.chunk = "" }()

	if err := e.state.DoString(source); err != nil {
		return fmt.Errorf("failed to load hook source %s: %w", name, err)
	}
	return nil
}

// LoadDir loads every *.lua file in dir in lexical order and returns how
// many files loaded successfully. A file that fails to load is logged and
// skipped so one broken hook file does not prevent the others from
// loading. Reading the directory itself failing is an error.
func (e *Engine) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read hooks directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.LoadFile(path); err != nil {
			e.logger.Error("skipping hook file", "file", entry.Name(), "error", err)
			continue
		}
		loaded++
	}
	return loaded, nil
}

// Close releases the Lua state. Hooks registered by the engine must not
// be dispatched after Close.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Close()
}

// nextHookName builds the identity for the registration being processed.
// Called from API functions while the engine lock is already held by
// LoadFile/LoadString.
func (e *Engine) nextHookName(kind string) string {
	chunk := e.chunk
	if chunk == "" {
		chunk = "inline"
	}
	name := fmt.Sprintf("%s:%s:%d", chunk, kind, e.seq)
	e.seq++
	return name
}

// call invokes a Lua function under the engine lock and returns its first
// return value.
func (e *Engine) call(fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	L := e.state
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// interceptorAction wraps a Lua function as an InterceptorFunc. The
// script's return value maps onto the tagged result: true continues,
// false blocks, a string rewrites the command. Nil is treated as true so
// a hook that only observes does not need an explicit return.
func (e *Engine) interceptorAction(name string, fn *lua.LFunction) hooks.InterceptorFunc {
	return func(command string) (hooks.Result, error) {
		ret, err := e.call(fn, lua.LString(command))
		if err != nil {
			return hooks.Continue(), fmt.Errorf("lua error: %w", err)
		}

		switch v := ret.(type) {
		case lua.LBool:
			if bool(v) {
				return hooks.Continue(), nil
			}
			return hooks.Block(), nil
		case lua.LString:
			return hooks.Rewrite(string(v)), nil
		case *lua.LNilType:
			return hooks.Continue(), nil
		default:
			return hooks.Continue(), fmt.Errorf("hook %s returned %s, want boolean or string", name, ret.Type())
		}
	}
}

// callbackAction wraps a Lua function as a CallbackFunc. Return values
// are ignored; callbacks cannot affect the outcome.
func (e *Engine) callbackAction(fn *lua.LFunction) hooks.CallbackFunc {
	return func(command string, exitCode int, stdout, stderr string) error {
		_, err := e.call(fn,
			lua.LString(command),
			lua.LNumber(exitCode),
			lua.LString(stdout),
			lua.LString(stderr),
		)
		if err != nil {
			return fmt.Errorf("lua error: %w", err)
		}
		return nil
	}
}
