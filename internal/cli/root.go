// Package cli defines the command-line interface for houdinictl.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vfx-pipeline/houdinictl/internal/logging"
)

const (
	// defaultConfigPath is the default path to the engine configuration file.
	defaultConfigPath = "engine.yaml"
)

// Options stores global CLI options shared between commands.
type Options struct {
	ConfigPath string
	Context    string
	LogLevel   logging.Level
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootOpts := &Options{
		ConfigPath: defaultConfigPath,
		LogLevel:   logging.LevelInfo,
	}

	var base baseEnv
	if err := parseEnv(&base); err == nil {
		if base.ConfigPath != "" {
			rootOpts.ConfigPath = base.ConfigPath
		}
		if base.Context != "" {
			rootOpts.Context = base.Context
		}
	}

	rootCmd := newRootCommand(rootOpts, logger, envLogLevel())
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger, defaultLevel string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "houdinictl",
		Short: "houdinictl manages the Houdini production-tracking engine configuration",
		Long: "houdinictl loads, validates and resolves the engine configuration that bridges " +
			"Houdini with the production-tracking platform: command menus, shelves, startup " +
			"commands, plugin launches, review matching and automatic context switching.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(cmd.Flag("log-level").Value.String())
			opts.LogLevel = level
			logger = logging.NewLogger(os.Stderr, level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", opts.ConfigPath, "Path to the engine configuration file")
	cmd.PersistentFlags().StringVar(&opts.Context, "context", opts.Context, "Production context name exposed to templates (e.g. shot010/anim)")
	cmd.PersistentFlags().String("log-level", defaultLevel, "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newValidateCommand(opts),
		newRenderCommand(opts),
		newCommandsCommand(opts),
		newStartupCommand(opts),
		newCollectCommand(opts),
		newWatchCommand(opts),
		newDoctorCommand(opts),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
