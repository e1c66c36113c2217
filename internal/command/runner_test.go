package command

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellRunner_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tests use /bin/sh semantics")
	}

	tests := []struct {
		name         string
		command      string
		wantExitCode int
		wantStdout   string
		wantStderr   string
	}{
		{
			name:         "successful command captures stdout",
			command:      "echo hello",
			wantExitCode: 0,
			wantStdout:   "hello\n",
		},
		{
			name:         "non-zero exit status is not an error",
			command:      "exit 7",
			wantExitCode: 7,
		},
		{
			name:         "stderr is captured separately",
			command:      "echo oops 1>&2",
			wantExitCode: 0,
			wantStderr:   "oops\n",
		},
	}

	runner := NewRunner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runner.Run(context.Background(), tt.command, true)

			require.NoError(t, err)
			assert.Equal(t, tt.wantExitCode, out.ExitCode)
			assert.Equal(t, tt.wantStdout, out.Stdout)
			assert.Equal(t, tt.wantStderr, out.Stderr)
		})
	}
}

func TestShellRunner_Run_MissingCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tests use /bin/sh semantics")
	}

	runner := NewRunner()
	out, err := runner.Run(context.Background(), "nonexistent_command_12345", true)

	require.NoError(t, err)
	assert.Equal(t, 127, out.ExitCode)
	assert.NotEmpty(t, out.Stderr)
}

func TestShellRunner_Run_WithoutCapture(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tests use /bin/sh semantics")
	}

	runner := NewRunner()
	out, err := runner.Run(context.Background(), "exit 3", false)

	require.NoError(t, err)
	assert.Equal(t, 3, out.ExitCode)
	assert.Empty(t, out.Stdout)
	assert.Empty(t, out.Stderr)
}

func TestShellRunner_Run_ContextCancellation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tests use /bin/sh semantics")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner()
	out, _ := runner.Run(ctx, "sleep 10", true)

	assert.NotEqual(t, 0, out.ExitCode)
}
