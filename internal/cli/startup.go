package cli

import (
	"github.com/spf13/cobra"
)

// newStartupCommand creates the "startup" subcommand that executes the
// configured run_at_startup commands.
func newStartupCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "startup",
		Short: "Run the configured startup commands in order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, logger, err := loadEngine(cmd, opts)
			if err != nil {
				return err
			}
			return eng.RunStartupCommands(cmd.Context(), logger)
		},
	}

	addVarFlags(cmd)
	return cmd
}
