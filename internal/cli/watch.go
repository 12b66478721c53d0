package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vfx-pipeline/houdinictl/internal/watch"
)

// newWatchCommand creates the "watch" subcommand that runs the automatic
// context switcher until interrupted.
func newWatchCommand(opts *Options) *cobra.Command {
	var scene string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the scene file and re-resolve the context on change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, logger, err := loadEngine(cmd, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			watcher := watch.New(eng, logger)
			err = watcher.Run(ctx, scene, func(ev watch.Event) {
				// Rebuild the UI surfaces for the new context, the way the
				// engine does after a context switch.
				if menu := eng.BuildMenu(ev.Context); menu != nil {
					logger.Info("menu rebuilt", "sections", len(menu.Sections))
				}
				if shelf := eng.BuildShelf(); shelf != nil {
					logger.Info("shelf rebuilt", "commands", len(shelf))
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&scene, "scene", "", "Scene file path to watch")
	_ = cmd.MarkFlagRequired("scene")
	addVarFlags(cmd)
	return cmd
}
