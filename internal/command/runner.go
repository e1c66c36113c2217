// Package command executes shell commands on behalf of the terminal
// session. The command string is opaque: it is handed to the user's shell
// without any parsing.
package command

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
)

// Output holds the result of an executed command.
type Output struct {
	// ExitCode is the command's exit status.
	ExitCode int

	// Stdout and Stderr hold the captured output. They are empty when the
	// command ran with capture disabled.
	Stdout string
	Stderr string
}

// Runner abstracts shell command execution for testability.
type Runner interface {
	// Run executes command through the system shell. When capture is
	// true, stdout and stderr are collected into the returned Output;
	// otherwise the command inherits the process's streams. A non-zero
	// exit status is reported in Output, not as an error; the error is
	// reserved for failures to start the command at all.
	Run(ctx context.Context, command string, capture bool) (Output, error)
}

type shellRunner struct{}

// NewRunner creates a Runner that executes commands via the system shell:
// $SHELL -c on Unix-like systems (falling back to /bin/sh), cmd.exe /c on
// Windows.
func NewRunner() Runner {
	return &shellRunner{}
}

func (r *shellRunner) Run(ctx context.Context, command string, capture bool) (Output, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd.exe", "/c", command)
	} else {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		cmd = exec.CommandContext(ctx, shell, "-c", command)
	}

	var out Output
	if capture {
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		err := cmd.Run()
		out.Stdout = stdout.String()
		out.Stderr = stderr.String()
		return finish(out, err)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return finish(out, cmd.Run())
}

func finish(out Output, err error) (Output, error) {
	if err == nil {
		return out, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	out.ExitCode = 1
	return out, err
}
