// Package session implements the interactive terminal loop: read a
// command, run it through the hook dispatcher, execute it unless blocked,
// then run the callback hooks with the execution result.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/peterh/liner"

	"github.com/michael-freling/termhooks/internal/command"
	"github.com/michael-freling/termhooks/internal/config"
	"github.com/michael-freling/termhooks/internal/hooks"
)

// Session reads commands interactively and applies hooks around their
// execution.
type Session struct {
	cfg        config.Config
	dispatcher *hooks.Dispatcher
	runner     command.Runner
	reader     LineReader
	logger     *slog.Logger
	out        io.Writer

	// id tags this session's log records so overlapping sessions can be
	// told apart.
	id string
}

// New creates a session. A nil logger falls back to slog.Default.
func New(cfg config.Config, dispatcher *hooks.Dispatcher, runner command.Runner, reader LineReader, logger *slog.Logger, out io.Writer) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		cfg:        cfg,
		dispatcher: dispatcher,
		runner:     runner,
		reader:     reader,
		logger:     logger,
		out:        out,
		id:         uuid.NewString(),
	}
}

// Run processes commands until the reader reports end of input or the
// user types exit or quit. A cancelled line (^C) clears the input and
// continues.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session started", "session_id", s.id, "prompt", s.cfg.Prompt)

	for {
		line, err := s.reader.Prompt(s.cfg.Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(s.out)
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		s.reader.AppendHistory(input)

		switch strings.ToLower(input) {
		case "exit", "quit":
			s.logger.Info("session ended", "session_id", s.id)
			return nil
		}

		s.process(ctx, input)
	}
}

// process runs one command through the dispatcher and, when allowed,
// through the shell. The callbacks receive the original command with the
// execution result.
func (s *Session) process(ctx context.Context, input string) {
	outcome := s.dispatcher.Dispatch(input)
	if outcome.Blocked {
		s.logger.Info("command blocked",
			"session_id", s.id, "command", input, "hook", outcome.BlockedBy)
		fmt.Fprintf(s.out, "command blocked by hook %s\n", outcome.BlockedBy)
		return
	}

	out, err := s.runner.Run(ctx, outcome.Command, false)
	if err != nil {
		s.logger.Error("command execution failed",
			"session_id", s.id, "command", outcome.Command, "error", err)
		fmt.Fprintf(s.out, "failed to execute command: %v\n", err)
	}

	s.dispatcher.RunCallbacks(input, out.ExitCode, out.Stdout, out.Stderr)
}
