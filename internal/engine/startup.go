package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/vfx-pipeline/houdinictl/internal/logging"
)

// UnresolvedCommandError indicates a run_at_startup reference that does not
// resolve to a registered command.
type UnresolvedCommandError struct {
	// AppInstance is the referenced app instance name.
	AppInstance string
	// Name is the referenced command name.
	Name string
}

func (e *UnresolvedCommandError) Error() string {
	if e == nil {
		return "unresolved command"
	}
	return fmt.Sprintf("command %q is not registered by app instance %q", e.Name, e.AppInstance)
}

// IsUnresolvedCommandError reports whether err indicates an unresolved command reference.
func IsUnresolvedCommandError(err error) bool {
	var target *UnresolvedCommandError
	return errors.As(err, &target)
}

// StartupCommands resolves the run_at_startup list in declared order.
// Unlike menu favourites, every startup entry must resolve.
func (e *Engine) StartupCommands() ([]Command, error) {
	var out []Command
	for _, ref := range e.cfg.RunAtStartup {
		cmd, ok := e.Lookup(ref)
		if !ok {
			return nil, &UnresolvedCommandError{AppInstance: ref.AppInstance, Name: ref.Name}
		}
		out = append(out, cmd)
	}
	return out, nil
}

// RunStartupCommands resolves and executes the startup commands sequentially.
// UI-only commands (no argv) are skipped. Output is forwarded to the logger.
func (e *Engine) RunStartupCommands(ctx context.Context, logger *slog.Logger) error {
	if logger == nil {
		logger = e.logger
	}

	commands, err := e.StartupCommands()
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		if len(cmd.Run) == 0 {
			logger.Warn("startup command has no argv, skipping",
				"app_instance", cmd.AppInstance, "name", cmd.Name)
			continue
		}

		logger.Info("running startup command",
			"app_instance", cmd.AppInstance, "name", cmd.Name)

		label := cmd.AppInstance + "/" + cmd.Name
		proc := exec.CommandContext(ctx, cmd.Run[0], cmd.Run[1:]...)
		proc.Stdout = logging.NewWriter(logger, label)
		proc.Stderr = logging.NewWriter(logger, label)
		if err := proc.Run(); err != nil {
			return fmt.Errorf("startup command %s: %w", label, err)
		}
	}
	return nil
}
