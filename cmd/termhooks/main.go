package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/michael-freling/termhooks/internal/command"
	"github.com/michael-freling/termhooks/internal/config"
	"github.com/michael-freling/termhooks/internal/hooks"
	"github.com/michael-freling/termhooks/internal/logging"
	"github.com/michael-freling/termhooks/internal/scripting"
	"github.com/michael-freling/termhooks/internal/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "termhooks",
		Short: "Terminal shim that runs user hooks around shell commands",
		Long: `termhooks intercepts shell commands with user-defined hooks. Lua files in
the hooks directory register interceptors that can allow, block, or rewrite a
command before it runs, and callbacks that observe the result afterwards.`,
	}

	rootCmd.PersistentFlags().String("config", "", "path to configuration file")
	rootCmd.PersistentFlags().String("hooks-dir", "", "directory containing *.lua hook files (overrides config)")

	rootCmd.AddCommand(newSessionCmd(), newExecCmd(), newListCmd())

	return rootCmd
}

// app bundles the pieces every subcommand needs after startup.
type app struct {
	cfg        config.Config
	registry   *hooks.Registry
	dispatcher *hooks.Dispatcher
	engine     *scripting.Engine
	logger     *slog.Logger
}

// setup loads configuration and the hook files. A missing hooks directory
// is not an error: the session simply starts with no hooks, matching the
// default of scanning .hooks in the working directory. Any other load
// failure is fatal.
func setup(cmd *cobra.Command) (*app, error) {
	_ = godotenv.Load()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dir, _ := cmd.Flags().GetString("hooks-dir"); dir != "" {
		cfg.HooksDir = dir
	}

	logger := logging.Setup(cfg.Log, cmd.ErrOrStderr())

	registry := hooks.NewRegistry()
	engine := scripting.NewEngine(registry, logger)

	loaded, err := engine.LoadDir(cfg.HooksDir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			engine.Close()
			return nil, fmt.Errorf("failed to load hooks: %w", err)
		}
		logger.Info("hooks directory not found, starting without hooks", "dir", cfg.HooksDir)
	} else {
		logger.Info("hooks loaded", "dir", cfg.HooksDir, "files", loaded, "hooks", len(registry.Hooks()))
	}

	return &app{
		cfg:        cfg,
		registry:   registry,
		dispatcher: hooks.NewDispatcher(registry, logger),
		engine:     engine,
		logger:     logger,
	}, nil
}

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Start an interactive session with hooks applied",
		Long:  `Starts an interactive command loop. Each entered command runs through the registered interceptors before execution; callbacks run afterwards with the exit code.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			defer app.engine.Close()

			reader := session.NewLineReader(app.cfg.HistoryFile)
			defer reader.Close()

			s := session.New(app.cfg, app.dispatcher, command.NewRunner(), reader, app.logger, cmd.OutOrStdout())
			return s.Run(cmd.Context())
		},
	}
}

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec command...",
		Short: "Run a single command through the hooks",
		Long:  `Dispatches the given command through the registered interceptors and executes it unless blocked. Exits with code 2 when a hook blocks the command, otherwise with the command's own exit code.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			defer app.engine.Close()

			raw := strings.Join(args, " ")
			outcome := app.dispatcher.Dispatch(raw)
			if outcome.Blocked {
				fmt.Fprintf(cmd.ErrOrStderr(), "Blocked by hook %s\n", outcome.BlockedBy)
				os.Exit(2)
			}

			out, err := command.NewRunner().Run(cmd.Context(), outcome.Command, false)
			if err != nil {
				return fmt.Errorf("failed to execute command: %w", err)
			}
			app.dispatcher.RunCallbacks(raw, out.ExitCode, out.Stdout, out.Stderr)

			if out.ExitCode != 0 {
				os.Exit(out.ExitCode)
			}
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the hooks registered by the hook files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			defer app.engine.Close()

			all := app.registry.Hooks()
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no hooks registered")
				return nil
			}
			for _, h := range all {
				prefix := h.Prefix
				if prefix == "" {
					prefix = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-11s  %-12s  %s\n", h.Order, h.Kind(), prefix, h.Name)
			}
			return nil
		},
	}
}
