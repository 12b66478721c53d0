package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vfx-pipeline/houdinictl/internal/config"
)

// newValidateCommand creates the "validate" subcommand that checks the engine configuration.
func newValidateCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the engine configuration document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			loadOpts, err := loadOptionsFromFlags(cmd, opts)
			if err != nil {
				return err
			}

			cfg, _, err := config.LoadEngineConfig(opts.ConfigPath, loadOpts)
			if err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				var verr *config.ValidationError
				if errors.As(err, &verr) {
					for _, issue := range verr.Issues {
						logger.Error("validation issue", "issue", issue)
					}
				}
				return err
			}

			logger.Info("engine configuration is valid",
				"config", opts.ConfigPath,
				"apps", len(cfg.Apps),
				"plugins", len(cfg.Plugins))
			return nil
		},
	}

	addVarFlags(cmd)
	return cmd
}
