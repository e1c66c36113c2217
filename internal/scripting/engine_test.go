package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michael-freling/termhooks/internal/hooks"
)

func newTestEngine(t *testing.T) (*Engine, *hooks.Registry) {
	t.Helper()
	registry := hooks.NewRegistry()
	engine := NewEngine(registry, nil)
	t.Cleanup(engine.Close)
	return engine, registry
}

func TestEngine_InterceptorReturnValues(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		command     string
		wantBlocked bool
		wantCommand string
	}{
		{
			name:        "true continues",
			source:      `terminal.interceptor(function(cmd) return true end)`,
			command:     "ls",
			wantCommand: "ls",
		},
		{
			name:        "false blocks",
			source:      `terminal.interceptor(function(cmd) return false end)`,
			command:     "rm -rf /",
			wantBlocked: true,
		},
		{
			name:        "string rewrites the command",
			source:      `terminal.interceptor(function(cmd) return "git " .. string.sub(cmd, 3) end)`,
			command:     "g status",
			wantCommand: "git status",
		},
		{
			name:        "no return value continues",
			source:      `terminal.interceptor(function(cmd) end)`,
			command:     "ls",
			wantCommand: "ls",
		},
		{
			name:        "runtime error is isolated and continues",
			source:      `terminal.interceptor(function(cmd) error("boom") end)`,
			command:     "ls",
			wantCommand: "ls",
		},
		{
			name:        "unsupported return type is isolated and continues",
			source:      `terminal.interceptor(function(cmd) return {1, 2} end)`,
			command:     "ls",
			wantCommand: "ls",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, registry := newTestEngine(t)
			require.NoError(t, engine.LoadString("test", tt.source))

			dispatcher := hooks.NewDispatcher(registry, nil)
			outcome := dispatcher.Dispatch(tt.command)

			assert.Equal(t, tt.wantBlocked, outcome.Blocked)
			if !tt.wantBlocked {
				assert.Equal(t, tt.wantCommand, outcome.Command)
			}
		})
	}
}

func TestEngine_PrefixRegistration(t *testing.T) {
	engine, registry := newTestEngine(t)

	require.NoError(t, engine.LoadString("test", `
		terminal.interceptor("git", function(cmd) return false end)
		terminal.interceptor(nil, function(cmd) return true end)
	`))

	all := registry.Hooks()
	require.Len(t, all, 2)
	assert.Equal(t, "git", all[0].Prefix)
	assert.Equal(t, "", all[1].Prefix)

	dispatcher := hooks.NewDispatcher(registry, nil)
	assert.True(t, dispatcher.Dispatch("git push").Blocked)
	assert.False(t, dispatcher.Dispatch("ls").Blocked)
}

func TestEngine_HookIdentities(t *testing.T) {
	engine, registry := newTestEngine(t)

	require.NoError(t, engine.LoadString("git.lua", `
		terminal.interceptor(function(cmd) return true end)
		terminal.callback(function(cmd, code, out, err) end)
	`))

	all := registry.Hooks()
	require.Len(t, all, 2)
	assert.Equal(t, "git.lua:interceptor:0", all[0].Name)
	assert.Equal(t, "git.lua:callback:1", all[1].Name)
}

func TestEngine_CallbackReceivesExecutionResult(t *testing.T) {
	engine, registry := newTestEngine(t)

	// The callback records its arguments into a global the test reads
	// back through a second hook.
	require.NoError(t, engine.LoadString("test", `
		seen = nil
		terminal.callback(function(cmd, code, out, err)
			seen = cmd .. "|" .. code .. "|" .. out .. "|" .. err
		end)
		terminal.interceptor(function(cmd)
			return seen
		end)
	`))

	dispatcher := hooks.NewDispatcher(registry, nil)
	dispatcher.RunCallbacks("echo hi", 2, "hi\n", "warned")

	outcome := dispatcher.Dispatch("probe")
	assert.Equal(t, "echo hi|2|hi\n|warned", outcome.Command)
}

func TestEngine_LoadDir(t *testing.T) {
	dir := t.TempDir()
	good := `terminal.interceptor(function(cmd) return true end)`
	broken := `terminal.interceptor(function(cmd` // syntax error
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_good.lua"), []byte(good), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_broken.lua"), []byte(broken), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not lua"), 0o644))

	engine, registry := newTestEngine(t)
	loaded, err := engine.LoadDir(dir)

	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	require.Len(t, registry.Hooks(), 1)
	assert.Equal(t, "a_good.lua:interceptor:0", registry.Hooks()[0].Name)
}

func TestEngine_LoadDir_MissingDirectory(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.LoadDir(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestEngine_JSONHelpers(t *testing.T) {
	engine, registry := newTestEngine(t)

	require.NoError(t, engine.LoadString("test", `
		terminal.interceptor(function(cmd)
			local decoded = terminal.json_decode(cmd)
			decoded.count = decoded.count + 1
			return terminal.json_encode(decoded)
		end)
	`))

	dispatcher := hooks.NewDispatcher(registry, nil)
	outcome := dispatcher.Dispatch(`{"count":1}`)

	assert.Equal(t, `{"count":2}`, outcome.Command)
}
